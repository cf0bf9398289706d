package observation

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Source yields observations in non-decreasing time order. Next returns
// io.EOF once the stream is exhausted.
type Source interface {
	Next(ctx context.Context) (Observation, error)
}

// SliceSource replays a fixed slice.
type SliceSource struct {
	items []Observation
	pos   int
}

// NewSliceSource returns a Source over obs. The slice is not copied.
func NewSliceSource(obs []Observation) *SliceSource {
	return &SliceSource{items: obs}
}

// Next implements Source.
func (s *SliceSource) Next(ctx context.Context) (Observation, error) {
	if err := ctx.Err(); err != nil {
		return Observation{}, err
	}
	if s.pos >= len(s.items) {
		return Observation{}, io.EOF
	}
	o := s.items[s.pos]
	s.pos++
	return o, nil
}

// JSONLinesSource decodes one JSON observation per line. Blank lines and
// lines starting with '#' are skipped.
type JSONLinesSource struct {
	scanner *bufio.Scanner
	line    int
}

// NewJSONLinesSource wraps r.
func NewJSONLinesSource(r io.Reader) *JSONLinesSource {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 4*1024*1024)
	return &JSONLinesSource{scanner: scanner}
}

// Next implements Source.
func (s *JSONLinesSource) Next(ctx context.Context) (Observation, error) {
	for {
		if err := ctx.Err(); err != nil {
			return Observation{}, err
		}
		if !s.scanner.Scan() {
			if err := s.scanner.Err(); err != nil {
				return Observation{}, fmt.Errorf("read observations: %w", err)
			}
			return Observation{}, io.EOF
		}
		s.line++
		raw := strings.TrimSpace(s.scanner.Text())
		if raw == "" || strings.HasPrefix(raw, "#") {
			continue
		}
		var o Observation
		if err := json.Unmarshal([]byte(raw), &o); err != nil {
			return Observation{}, fmt.Errorf("decode observation on line %d: %w", s.line, err)
		}
		return o, nil
	}
}

// OrderedSource wraps a Source and fails with ErrMalformedStream as soon as
// a timestamp decreases.
type OrderedSource struct {
	src     Source
	last    float64
	started bool
}

// NewOrderedSource wraps src with order validation.
func NewOrderedSource(src Source) *OrderedSource {
	return &OrderedSource{src: src}
}

// Next implements Source.
func (s *OrderedSource) Next(ctx context.Context) (Observation, error) {
	o, err := s.src.Next(ctx)
	if err != nil {
		return o, err
	}
	if s.started && o.Time < s.last {
		return Observation{}, fmt.Errorf("%w: observation at %.3fs precedes %.3fs", ErrMalformedStream, o.Time, s.last)
	}
	s.started = true
	s.last = o.Time
	return o, nil
}

// Collect drains src into a slice.
func Collect(ctx context.Context, src Source) ([]Observation, error) {
	var out []Observation
	for {
		o, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
}
