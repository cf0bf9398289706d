package subtitles

import (
	"fmt"
	"io"
	"strings"

	"framescribe/internal/textutil"
)

// DualOrder selects which text comes first in a dual-language cue.
type DualOrder string

const (
	TranslatedFirst DualOrder = "translated_first"
	OriginalFirst   DualOrder = "original_first"
)

// ParseDualOrder accepts the configured order names. Empty means
// TranslatedFirst.
func ParseDualOrder(value string) (DualOrder, error) {
	switch DualOrder(strings.ToLower(strings.TrimSpace(value))) {
	case "", TranslatedFirst:
		return TranslatedFirst, nil
	case OriginalFirst:
		return OriginalFirst, nil
	default:
		return "", fmt.Errorf("unknown dual order %q", value)
	}
}

// FormatDualSRT renders each cue with its translation and original text as
// separate lines, ordered by order. Cues without a translation carry only
// the original line.
func FormatDualSRT[C TranslatedCue](cues []C, order DualOrder) string {
	var sb strings.Builder
	index := 1
	for _, cue := range cues {
		original := textutil.NormalizeWhitespace(cue.CueText())
		if original == "" {
			continue
		}
		translated := textutil.NormalizeWhitespace(cue.CueTranslation())
		switch {
		case translated == "":
			writeCue(&sb, index, cue, original)
		case order == OriginalFirst:
			writeCue(&sb, index, cue, original, translated)
		default:
			writeCue(&sb, index, cue, translated, original)
		}
		index++
	}
	return sb.String()
}

// WriteDualSRT writes FormatDualSRT output to w.
func WriteDualSRT[C TranslatedCue](w io.Writer, cues []C, order DualOrder) error {
	if _, err := io.WriteString(w, FormatDualSRT(cues, order)); err != nil {
		return fmt.Errorf("write dual srt: %w", err)
	}
	return nil
}
