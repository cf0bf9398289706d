package observation

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"framescribe/internal/logging"
)

// Frame is a decoded video frame handed to a Recognizer. The pixel payload
// is opaque to framescribe.
type Frame struct {
	Time   float64
	Width  int
	Height int
	Data   []byte
}

// FrameSource is the external media decoder.
type FrameSource interface {
	Duration() float64
	FrameAt(ctx context.Context, seconds float64) (Frame, error)
}

// RecognizeOptions are forwarded opaquely to the OCR capability.
type RecognizeOptions struct {
	Level    string // "fast" or "accurate"
	Language string // BCP 47 tag such as "en-US" or "zh-Hans"
}

// TextLine is one recognized line of text within a frame.
type TextLine struct {
	Text       string
	Confidence float64
	Region     Rect
}

// Recognizer is the external OCR capability.
type Recognizer interface {
	Recognize(ctx context.Context, frame Frame, opts RecognizeOptions) ([]TextLine, error)
}

// FrameSampler is a Source that samples frames at a fixed interval and turns
// each frame's recognized lines into one Observation. Lines are joined with a
// single space; the region is the union of line regions and the confidence
// is the mean line confidence.
type FrameSampler struct {
	frames     FrameSource
	recognizer Recognizer
	opts       RecognizeOptions
	interval   float64
	logger     *slog.Logger

	next float64
}

// NewFrameSampler builds a sampler. A non-positive interval defaults to one second.
func NewFrameSampler(frames FrameSource, recognizer Recognizer, opts RecognizeOptions, interval float64, logger *slog.Logger) *FrameSampler {
	if interval <= 0 {
		interval = 1.0
	}
	return &FrameSampler{
		frames:     frames,
		recognizer: recognizer,
		opts:       opts,
		interval:   interval,
		logger:     logging.NewComponentLogger(logger, "frame-sampler"),
	}
}

// Next implements Source. Frames that cannot be decoded are skipped;
// recognition failures produce an empty observation, which segmentation
// discards.
func (s *FrameSampler) Next(ctx context.Context) (Observation, error) {
	duration := s.frames.Duration()
	for s.next < duration {
		if err := ctx.Err(); err != nil {
			return Observation{}, err
		}
		at := s.next
		s.next = sampleTime(s.next, s.interval)

		frame, err := s.frames.FrameAt(ctx, at)
		if err != nil {
			if ctx.Err() != nil {
				return Observation{}, ctx.Err()
			}
			s.logger.Debug("frame skipped", logging.Float64("time", at), logging.Error(err))
			continue
		}

		lines, err := s.recognizer.Recognize(ctx, frame, s.opts)
		if err != nil {
			if ctx.Err() != nil {
				return Observation{}, ctx.Err()
			}
			logging.WarnWithContext(s.logger, "text recognition failed", "ocr_failed",
				logging.Float64("time", at),
				logging.Error(err),
				logging.String(logging.FieldImpact, "frame contributes no text"),
			)
			return Observation{Time: at}, nil
		}
		return combineLines(at, lines), nil
	}
	return Observation{}, io.EOF
}

// sampleTime advances by interval using a multiply rather than repeated
// addition so long videos do not accumulate float drift.
func sampleTime(current, interval float64) float64 {
	step := int(current/interval+0.5) + 1
	return float64(step) * interval
}

func combineLines(at float64, lines []TextLine) Observation {
	o := Observation{Time: at}
	var texts []string
	var region Rect
	var confidence float64
	for _, line := range lines {
		text := strings.TrimSpace(line.Text)
		if text == "" {
			continue
		}
		texts = append(texts, text)
		region = region.Union(line.Region)
		confidence += line.Confidence
	}
	if len(texts) == 0 {
		return o
	}
	o.Text = strings.Join(texts, " ")
	o.Confidence = confidence / float64(len(texts))
	if !region.IsZero() {
		o.Region = &region
	}
	return o
}
