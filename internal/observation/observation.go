package observation

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
)

// ErrMalformedStream reports an observation stream whose timestamps decrease.
var ErrMalformedStream = errors.New("malformed observation stream")

// Rect is an axis-aligned bounding region in frame coordinates.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// IsZero reports whether the rect covers no area.
func (r Rect) IsZero() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Union returns the smallest rect containing both r and o. A zero rect is the
// identity element.
func (r Rect) Union(o Rect) Rect {
	if r.IsZero() {
		return o
	}
	if o.IsZero() {
		return r
	}
	minX := min(r.X, o.X)
	minY := min(r.Y, o.Y)
	maxX := max(r.X+r.Width, o.X+o.Width)
	maxY := max(r.Y+r.Height, o.Y+o.Height)
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// Observation is a single timestamped text detection.
type Observation struct {
	Text       string   `json:"text"`
	Time       float64  `json:"time"`
	EndTime    *float64 `json:"end_time,omitempty"`
	Confidence float64  `json:"confidence"`
	Region     *Rect    `json:"region,omitempty"`
}

// End returns EndTime when present and Time otherwise.
func (o Observation) End() float64 {
	if o.EndTime != nil {
		return *o.EndTime
	}
	return o.Time
}

// HasText reports whether the observation carries non-blank text.
func (o Observation) HasText() bool {
	return strings.TrimSpace(o.Text) != ""
}

// Clone returns a deep copy.
func (o Observation) Clone() Observation {
	out := o
	if o.EndTime != nil {
		end := *o.EndTime
		out.EndTime = &end
	}
	if o.Region != nil {
		region := *o.Region
		out.Region = &region
	}
	return out
}

// ValidateOrder returns ErrMalformedStream when any observation's time is
// earlier than its predecessor's. Ties are allowed.
func ValidateOrder(obs []Observation) error {
	for i := 1; i < len(obs); i++ {
		if obs[i].Time < obs[i-1].Time {
			return fmt.Errorf("%w: observation %d at %.3fs precedes %.3fs", ErrMalformedStream, i, obs[i].Time, obs[i-1].Time)
		}
	}
	return nil
}

// Search returns the observations whose text contains keyword, compared
// case-insensitively with Unicode case folding. A blank keyword matches nothing.
func Search(obs []Observation, keyword string) []Observation {
	var out []Observation
	for _, o := range obs {
		if ContainsFold(o.Text, keyword) {
			out = append(out, o)
		}
	}
	return out
}

// ContainsFold reports whether text contains keyword under Unicode case folding.
func ContainsFold(text, keyword string) bool {
	needle := foldText(keyword)
	if strings.TrimSpace(needle) == "" {
		return false
	}
	return strings.Contains(foldText(text), needle)
}

func foldText(s string) string {
	return cases.Fold().String(s)
}
