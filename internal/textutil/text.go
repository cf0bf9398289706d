package textutil

import "strings"

// NormalizeWhitespace collapses every run of Unicode whitespace into a single
// space and trims the ends.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Tokenize splits text on whitespace runs. Empty input yields nil.
func Tokenize(s string) []string {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// JoinWords joins non-empty tokens with a single space.
func JoinWords(words []string) string {
	var b strings.Builder
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(w)
	}
	return b.String()
}
