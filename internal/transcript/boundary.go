package transcript

import (
	"strings"
	"unicode/utf8"
)

// BoundaryFunc reports whether next should start a new segment after the
// words collected so far. current is never empty.
type BoundaryFunc func(current []Word, next Word) bool

// sentenceEnders covers Latin and CJK terminal punctuation.
const sentenceEnders = ".!?。！？…"

// PunctuationBoundary breaks after a word ending in sentence punctuation.
func PunctuationBoundary(current []Word, _ Word) bool {
	last := strings.TrimSpace(current[len(current)-1].Text)
	last = strings.TrimRight(last, "\"'”’)]")
	if last == "" {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(last)
	return strings.ContainsRune(sentenceEnders, r)
}

// MaxCharsBoundary breaks when adding next would push the joined text past
// limit runes. A non-positive limit never breaks.
func MaxCharsBoundary(limit int) BoundaryFunc {
	return func(current []Word, next Word) bool {
		if limit <= 0 {
			return false
		}
		length := 0
		for _, w := range current {
			length += utf8.RuneCountInString(strings.TrimSpace(w.Text)) + 1
		}
		length += utf8.RuneCountInString(strings.TrimSpace(next.Text))
		return length > limit
	}
}

// GapBoundary breaks when silence between the last word and next exceeds
// seconds.
func GapBoundary(seconds float64) BoundaryFunc {
	return func(current []Word, next Word) bool {
		return next.Start-current[len(current)-1].End > seconds
	}
}

// AnyBoundary breaks when any of fns does.
func AnyBoundary(fns ...BoundaryFunc) BoundaryFunc {
	return func(current []Word, next Word) bool {
		for _, fn := range fns {
			if fn != nil && fn(current, next) {
				return true
			}
		}
		return false
	}
}

// DefaultBoundary breaks on sentence punctuation, falling back to a length
// limit for unpunctuated speech.
func DefaultBoundary(maxChars int) BoundaryFunc {
	return AnyBoundary(PunctuationBoundary, MaxCharsBoundary(maxChars))
}

// Partition groups words into consecutive runs using boundary. A nil
// boundary yields a single group.
func Partition(words []Word, boundary BoundaryFunc) [][]Word {
	if len(words) == 0 {
		return nil
	}
	var groups [][]Word
	current := []Word{words[0]}
	for _, w := range words[1:] {
		if boundary != nil && boundary(current, w) {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, w)
	}
	return append(groups, current)
}
