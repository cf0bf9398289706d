package segmentation

import (
	"fmt"
	"strings"

	"golang.org/x/text/unicode/norm"

	"framescribe/internal/config"
	"framescribe/internal/textutil"
)

// KeyFunc maps observation text to the identity used for clustering.
// Observations whose key is blank are discarded.
type KeyFunc func(text string) string

// ExactKey compares text byte for byte, case-sensitively.
func ExactKey(text string) string {
	return text
}

// NormalizedKey collapses whitespace and applies Unicode NFC so that
// differently composed renderings of the same string cluster together.
// Case and characters are otherwise preserved.
func NormalizedKey(text string) string {
	return norm.NFC.String(textutil.NormalizeWhitespace(text))
}

// KeyByName resolves a configured key name.
func KeyByName(name string) (KeyFunc, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", config.KeyExact:
		return ExactKey, nil
	case config.KeyNormalized:
		return NormalizedKey, nil
	default:
		return nil, fmt.Errorf("unknown segmentation key %q", name)
	}
}
