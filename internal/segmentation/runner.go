package segmentation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"framescribe/internal/logging"
	"framescribe/internal/observation"
)

// Runner drives a Stream from an observation Source.
type Runner struct {
	Options Options
	Logger  *slog.Logger
	// ValidateOrder rejects sources whose timestamps decrease.
	ValidateOrder bool
	// OnUpdate, when set, receives a provisional snapshot every UpdateEvery
	// observations.
	OnUpdate    func([]Segment)
	UpdateEvery int
}

// Run consumes src until io.EOF and returns the terminal segment list. On
// cancellation or a source error the active aggregates are discarded and no
// partial segments are returned.
func (r Runner) Run(ctx context.Context, src observation.Source) ([]Segment, error) {
	logger := logging.NewComponentLogger(r.Logger, "segmentation")
	if r.ValidateOrder {
		src = observation.NewOrderedSource(src)
	}
	every := r.UpdateEvery
	if every <= 0 {
		every = 50
	}

	stream := NewStream(r.Options)
	started := time.Now()
	count := 0
	for {
		if err := ctx.Err(); err != nil {
			stream.Discard()
			logger.Info("segmentation cancelled", logging.Int("observations", count))
			return nil, err
		}
		o, err := src.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			stream.Discard()
			if ctx.Err() != nil {
				logger.Info("segmentation cancelled", logging.Int("observations", count))
				return nil, ctx.Err()
			}
			return nil, fmt.Errorf("read observation %d: %w", count+1, err)
		}
		if err := stream.Push(o); err != nil {
			return nil, err
		}
		count++
		if r.OnUpdate != nil && count%every == 0 {
			r.OnUpdate(stream.Snapshot())
		}
	}

	segments := stream.Close()
	logger.Info("segmentation complete",
		logging.Int("observations", count),
		logging.Int("segments", len(segments)),
		logging.Duration("elapsed", time.Since(started)),
	)
	return segments, nil
}
