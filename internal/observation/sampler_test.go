package observation

import (
	"context"
	"errors"
	"testing"
)

type fakeFrames struct {
	duration float64
	broken   map[float64]bool
}

func (f fakeFrames) Duration() float64 { return f.duration }

func (f fakeFrames) FrameAt(_ context.Context, t float64) (Frame, error) {
	if f.broken[t] {
		return Frame{}, errors.New("decode failed")
	}
	return Frame{Time: t, Width: 640, Height: 360}, nil
}

type fakeRecognizer struct {
	lines  map[float64][]TextLine
	failAt map[float64]bool
	opts   []RecognizeOptions
}

func (r *fakeRecognizer) Recognize(_ context.Context, frame Frame, opts RecognizeOptions) ([]TextLine, error) {
	r.opts = append(r.opts, opts)
	if r.failAt[frame.Time] {
		return nil, errors.New("ocr unavailable")
	}
	return r.lines[frame.Time], nil
}

func TestFrameSamplerCombinesLines(t *testing.T) {
	rec := &fakeRecognizer{lines: map[float64][]TextLine{
		0: {
			{Text: "Hello", Confidence: 0.8, Region: Rect{X: 0, Y: 0, Width: 10, Height: 5}},
			{Text: "World", Confidence: 0.6, Region: Rect{X: 0, Y: 10, Width: 20, Height: 5}},
		},
		1: {{Text: "  ", Confidence: 0.1}},
	}}
	opts := RecognizeOptions{Level: "accurate", Language: "en-US"}
	sampler := NewFrameSampler(fakeFrames{duration: 2.5}, rec, opts, 1.0, nil)

	got, err := Collect(context.Background(), sampler)
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("got %d observations, want 3 (t=0,1,2)", len(got))
	}
	first := got[0]
	if first.Text != "Hello World" {
		t.Fatalf("text = %q, want %q", first.Text, "Hello World")
	}
	if first.Confidence < 0.699 || first.Confidence > 0.701 {
		t.Fatalf("confidence = %v, want 0.7", first.Confidence)
	}
	if first.Region == nil || *first.Region != (Rect{X: 0, Y: 0, Width: 20, Height: 15}) {
		t.Fatalf("region = %+v", first.Region)
	}
	if got[1].HasText() || got[2].HasText() {
		t.Fatalf("blank frames should produce empty observations: %+v", got[1:])
	}
	if got[2].Time != 2 {
		t.Fatalf("third sample time = %v, want 2", got[2].Time)
	}
	for _, o := range rec.opts {
		if o != opts {
			t.Fatalf("recognizer options = %+v, want %+v", o, opts)
		}
	}
}

func TestFrameSamplerSkipsUndecodableFrames(t *testing.T) {
	rec := &fakeRecognizer{
		lines:  map[float64][]TextLine{0: {{Text: "a"}}, 2: {{Text: "c"}}},
		failAt: map[float64]bool{2: true},
	}
	frames := fakeFrames{duration: 3, broken: map[float64]bool{1: true}}
	got, err := Collect(context.Background(), NewFrameSampler(frames, rec, RecognizeOptions{}, 1, nil))
	if err != nil {
		t.Fatalf("Collect: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d observations, want 2", len(got))
	}
	if got[0].Text != "a" || got[1].Time != 2 || got[1].HasText() {
		t.Fatalf("observations = %+v", got)
	}
}

func TestFrameSamplerStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	sampler := NewFrameSampler(fakeFrames{duration: 10}, &fakeRecognizer{}, RecognizeOptions{}, 1, nil)
	if _, err := sampler.Next(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("Next = %v, want context.Canceled", err)
	}
}
