package segmentation

import (
	"github.com/google/uuid"

	"framescribe/internal/observation"
)

// Segment is a visual segment: one maximal run of same-key observations.
type Segment struct {
	ID             uuid.UUID                 `json:"id"`
	Text           string                    `json:"text"`
	StartTime      float64                   `json:"start"`
	EndTime        float64                   `json:"end"`
	Observations   []observation.Observation `json:"observations"`
	BoundingRegion observation.Rect          `json:"bounding_region"`

	seq int
}

// Duration returns EndTime - StartTime.
func (s Segment) Duration() float64 {
	return s.EndTime - s.StartTime
}

// MeanConfidence averages member observation confidences.
func (s Segment) MeanConfidence() float64 {
	if len(s.Observations) == 0 {
		return 0
	}
	var total float64
	for _, o := range s.Observations {
		total += o.Confidence
	}
	return total / float64(len(s.Observations))
}

// Contains reports whether t falls within [StartTime, EndTime].
func (s Segment) Contains(t float64) bool {
	return t >= s.StartTime && t <= s.EndTime
}

// CueStart, CueEnd and CueText let segments flow through the subtitle
// formatters.
func (s Segment) CueStart() float64 { return s.StartTime }
func (s Segment) CueEnd() float64   { return s.EndTime }
func (s Segment) CueText() string   { return s.Text }

// Search returns segments whose text contains keyword, case-insensitively.
func Search(segments []Segment, keyword string) []Segment {
	var out []Segment
	for _, s := range segments {
		if observation.ContainsFold(s.Text, keyword) {
			out = append(out, s)
		}
	}
	return out
}

// At returns the first segment whose range contains t.
func At(segments []Segment, t float64) (Segment, bool) {
	for _, s := range segments {
		if s.Contains(t) {
			return s, true
		}
	}
	return Segment{}, false
}
