package segmentation

import (
	"cmp"
	"errors"
	"slices"

	"github.com/google/uuid"

	"framescribe/internal/observation"
)

// ErrStreamClosed is returned when pushing into a closed or discarded Stream.
var ErrStreamClosed = errors.New("segmentation stream closed")

type aggregate struct {
	id     uuid.UUID
	seq    int
	key    string
	start  float64
	last   float64
	obs    []observation.Observation
	region observation.Rect
}

func (a *aggregate) add(o observation.Observation) {
	a.obs = append(a.obs, o.Clone())
	a.last = o.Time
	if o.Region != nil {
		a.region = a.region.Union(*o.Region)
	}
}

func (a *aggregate) segment() Segment {
	return Segment{
		ID:             a.id,
		Text:           a.key,
		StartTime:      a.start,
		EndTime:        a.last,
		Observations:   a.obs,
		BoundingRegion: a.region,
		seq:            a.seq,
	}
}

// Stream clusters observations as they arrive. It is not safe for
// concurrent use; feed it from a single goroutine in arrival order.
type Stream struct {
	opts     Options
	active   map[string]*aggregate
	finished []Segment
	seq      int
	closed   bool
}

// NewStream returns an empty Stream. Zero option fields take defaults.
func NewStream(opts Options) *Stream {
	return &Stream{
		opts:   opts.withDefaults(),
		active: make(map[string]*aggregate),
	}
}

// Push adds one observation. Observations with blank text or a blank key
// are ignored.
func (s *Stream) Push(o observation.Observation) error {
	if s.closed {
		return ErrStreamClosed
	}
	if !o.HasText() {
		return nil
	}
	key := s.opts.Key(o.Text)
	if !(observation.Observation{Text: key}).HasText() {
		return nil
	}

	s.retire(o.Time)

	if agg, ok := s.active[key]; ok {
		if o.Time-agg.last < s.opts.GapThreshold {
			agg.add(o)
			return nil
		}
		s.finish(agg)
	}
	agg := &aggregate{id: uuid.New(), seq: s.seq, key: key, start: o.Time}
	s.seq++
	agg.add(o)
	s.active[key] = agg
	return nil
}

// retire finalizes aggregates that no later observation can extend. Input
// is time-ordered, so an aggregate already a full gap behind now is done.
func (s *Stream) retire(now float64) {
	for _, agg := range s.active {
		if now-agg.last >= s.opts.GapThreshold {
			s.finish(agg)
		}
	}
}

func (s *Stream) finish(agg *aggregate) {
	delete(s.active, agg.key)
	s.finished = append(s.finished, agg.segment())
}

// Active reports the number of in-progress aggregates.
func (s *Stream) Active() int {
	return len(s.active)
}

// Snapshot returns finished segments plus provisional segments for every
// active aggregate, sorted by start time. Provisional segments may still
// grow and must not be loaded into an editable document.
func (s *Stream) Snapshot() []Segment {
	out := make([]Segment, 0, len(s.finished)+len(s.active))
	for _, seg := range s.finished {
		seg.Observations = slices.Clone(seg.Observations)
		out = append(out, seg)
	}
	for _, agg := range s.active {
		seg := agg.segment()
		seg.Observations = slices.Clone(seg.Observations)
		out = append(out, seg)
	}
	sortSegments(out)
	return out
}

// Close finalizes every active aggregate and returns the terminal segment
// list sorted by start time. The Stream rejects further pushes.
func (s *Stream) Close() []Segment {
	if s.closed {
		return nil
	}
	s.closed = true
	for _, agg := range s.active {
		s.finish(agg)
	}
	out := s.finished
	s.finished = nil
	sortSegments(out)
	return out
}

// Discard drops all state without finalizing active aggregates.
func (s *Stream) Discard() {
	s.closed = true
	s.active = nil
	s.finished = nil
}

func sortSegments(segments []Segment) {
	slices.SortStableFunc(segments, func(a, b Segment) int {
		if c := cmp.Compare(a.StartTime, b.StartTime); c != 0 {
			return c
		}
		return cmp.Compare(a.seq, b.seq)
	})
}

// Cluster segments a complete, time-ordered observation slice.
func Cluster(obs []observation.Observation, opts Options) []Segment {
	stream := NewStream(opts)
	for _, o := range obs {
		_ = stream.Push(o)
	}
	return stream.Close()
}
