package segmentation

import (
	"context"
	"errors"
	"io"
	"testing"

	"framescribe/internal/config"
	"framescribe/internal/logging"
	"framescribe/internal/observation"
)

type cancellingSource struct {
	items  []observation.Observation
	cancel context.CancelFunc
	after  int
	pos    int
}

func (s *cancellingSource) Next(ctx context.Context) (observation.Observation, error) {
	if s.pos == s.after {
		s.cancel()
	}
	if err := ctx.Err(); err != nil {
		return observation.Observation{}, err
	}
	if s.pos >= len(s.items) {
		return observation.Observation{}, io.EOF
	}
	o := s.items[s.pos]
	s.pos++
	return o, nil
}

func TestRunnerProducesSegments(t *testing.T) {
	var updates int
	r := Runner{
		Options:     DefaultOptions(),
		Logger:      logging.NewNop(),
		OnUpdate:    func([]Segment) { updates++ },
		UpdateEvery: 2,
	}
	segments, err := r.Run(context.Background(), observation.NewSliceSource(obsAt("Hello", 0, 1, 2, 5, 6)))
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(segments) != 2 {
		t.Fatalf("got %d segments, want 2", len(segments))
	}
	if updates != 2 {
		t.Fatalf("updates = %d, want 2", updates)
	}
}

func TestRunnerCancellationDiscardsActive(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	src := &cancellingSource{items: obsAt("Hello", 0, 1, 2, 5, 6), cancel: cancel, after: 3}
	segments, err := Runner{Options: DefaultOptions()}.Run(ctx, src)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Run err = %v, want context.Canceled", err)
	}
	if segments != nil {
		t.Fatalf("cancelled run returned %d segments", len(segments))
	}
}

func TestRunnerValidateOrder(t *testing.T) {
	obs := []observation.Observation{{Text: "a", Time: 1}, {Text: "a", Time: 0}}
	_, err := Runner{Options: DefaultOptions(), ValidateOrder: true}.Run(context.Background(), observation.NewSliceSource(obs))
	if !errors.Is(err, observation.ErrMalformedStream) {
		t.Fatalf("Run err = %v, want ErrMalformedStream", err)
	}
}

func TestOptionsFromConfig(t *testing.T) {
	opts, err := OptionsFromConfig(config.Segmentation{GapThreshold: 3, Key: "normalized"})
	if err != nil {
		t.Fatalf("OptionsFromConfig: %v", err)
	}
	if opts.GapThreshold != 3 || opts.Key("a  b") != "a b" {
		t.Fatalf("options = %+v", opts)
	}
	if _, err := OptionsFromConfig(config.Segmentation{GapThreshold: 2, Key: "fuzzy"}); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := OptionsFromConfig(config.Segmentation{GapThreshold: 0}); err == nil {
		t.Fatalf("expected error for zero gap")
	}
}
