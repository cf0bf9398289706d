package transcript

import (
	"errors"
	"slices"
	"strings"

	"github.com/google/uuid"
)

var (
	// ErrInvalidIndex reports a split or merge position outside the allowed range.
	ErrInvalidIndex = errors.New("invalid index")
	// ErrEmptySegment reports an attempt to build a segment without words.
	ErrEmptySegment = errors.New("segment has no words")
	// ErrSegmentNotFound reports an unknown segment id.
	ErrSegmentNotFound = errors.New("segment not found")
)

// Word is a timestamped token. JSON field names follow the transcription
// payload shape.
type Word struct {
	Text       string  `json:"word"`
	Start      float64 `json:"start"`
	End        float64 `json:"end"`
	Confidence float64 `json:"probability"`
}

// Segment is an editable run of one or more words.
type Segment struct {
	ID             uuid.UUID `json:"id"`
	Words          []Word    `json:"words"`
	TranslatedText string    `json:"translated_text,omitempty"`
}

// NewSegment builds a segment with a fresh id. The word slice is copied.
func NewSegment(words []Word) (Segment, error) {
	if len(words) == 0 {
		return Segment{}, ErrEmptySegment
	}
	return Segment{ID: uuid.New(), Words: slices.Clone(words)}, nil
}

// Start is the first word's start time.
func (s Segment) Start() float64 {
	if len(s.Words) == 0 {
		return 0
	}
	return s.Words[0].Start
}

// End is the last word's end time.
func (s Segment) End() float64 {
	if len(s.Words) == 0 {
		return 0
	}
	return s.Words[len(s.Words)-1].End
}

// Text joins the word texts with single spaces.
func (s Segment) Text() string {
	parts := make([]string, 0, len(s.Words))
	for _, w := range s.Words {
		if t := strings.TrimSpace(w.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

// Contains reports whether t falls within [Start, End].
func (s Segment) Contains(t float64) bool {
	return t >= s.Start() && t <= s.End()
}

func (s Segment) clone() Segment {
	s.Words = slices.Clone(s.Words)
	return s
}

func (s Segment) CueStart() float64      { return s.Start() }
func (s Segment) CueEnd() float64        { return s.End() }
func (s Segment) CueText() string        { return s.Text() }
func (s Segment) CueTranslation() string { return s.TranslatedText }

func cloneSegments(segments []Segment) []Segment {
	if segments == nil {
		return nil
	}
	out := make([]Segment, len(segments))
	for i, s := range segments {
		out[i] = s.clone()
	}
	return out
}
