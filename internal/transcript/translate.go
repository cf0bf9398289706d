package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"framescribe/internal/logging"
)

// TranslationRequest is one segment's text sent to a Translator.
type TranslationRequest struct {
	CorrelationID  uuid.UUID
	SegmentID      uuid.UUID
	Text           string
	SourceLanguage string
	TargetLanguage string
}

// Translator is the external machine translation capability.
type Translator interface {
	Translate(ctx context.Context, req TranslationRequest) (string, error)
}

// TranslateOptions controls TranslateAll.
type TranslateOptions struct {
	Workers        int
	TargetLanguage string
	// Overwrite retranslates segments that already carry a translation.
	Overwrite bool
	Logger    *slog.Logger
}

// TranslateResult counts outcomes. Stale results belong to segments that
// were removed or edited while the request was in flight.
type TranslateResult struct {
	Requested int
	Applied   int
	Stale     int
	Failed    int
}

// TranslateAll requests a translation for every segment and applies each
// response through the session by segment id. Individual failures are
// logged and counted; the returned error is non-nil only when ctx ends.
func TranslateAll(ctx context.Context, session *Session, translator Translator, opts TranslateOptions) (TranslateResult, error) {
	if translator == nil {
		return TranslateResult{}, errors.New("translator is required")
	}
	logger := logging.NewComponentLogger(opts.Logger, "translation")
	workers := opts.Workers
	if workers <= 0 {
		workers = 1
	}

	var requests []TranslationRequest
	var language string
	session.View(func(d *Document) {
		language = d.Language()
		for _, seg := range d.segments {
			if seg.TranslatedText != "" && !opts.Overwrite {
				continue
			}
			if strings.TrimSpace(seg.Text()) == "" {
				continue
			}
			requests = append(requests, TranslationRequest{
				CorrelationID:  uuid.New(),
				SegmentID:      seg.ID,
				Text:           seg.Text(),
				SourceLanguage: language,
				TargetLanguage: opts.TargetLanguage,
			})
		}
	})

	result := TranslateResult{Requested: len(requests)}
	if len(requests) == 0 {
		return result, nil
	}

	jobs := make(chan TranslationRequest)
	var mu sync.Mutex
	var wg sync.WaitGroup
	for range min(workers, len(requests)) {
		wg.Go(func() {
			for req := range jobs {
				outcome := translateOne(ctx, session, translator, req, logger)
				mu.Lock()
				switch outcome {
				case outcomeApplied:
					result.Applied++
				case outcomeStale:
					result.Stale++
				default:
					result.Failed++
				}
				mu.Unlock()
			}
		})
	}

dispatch:
	for _, req := range requests {
		select {
		case <-ctx.Done():
			break dispatch
		case jobs <- req:
		}
	}
	close(jobs)
	wg.Wait()

	logger.Info("translation finished",
		logging.Int("requested", result.Requested),
		logging.Int("applied", result.Applied),
		logging.Int("stale", result.Stale),
		logging.Int("failed", result.Failed),
	)
	if err := ctx.Err(); err != nil {
		return result, fmt.Errorf("translation interrupted: %w", err)
	}
	return result, nil
}

type outcome int

const (
	outcomeApplied outcome = iota
	outcomeStale
	outcomeFailed
)

func translateOne(ctx context.Context, session *Session, translator Translator, req TranslationRequest, logger *slog.Logger) outcome {
	attrs := []logging.Attr{
		logging.String(logging.FieldCorrelationID, req.CorrelationID.String()),
		logging.String(logging.FieldSegmentID, req.SegmentID.String()),
	}
	text, err := translator.Translate(ctx, req)
	if err == nil && strings.TrimSpace(text) == "" {
		err = errors.New("empty translation")
	}
	if err != nil {
		logging.WarnWithContext(logger, "translation failed", "translation_failed",
			append(attrs,
				logging.Error(err),
				logging.String(logging.FieldImpact, "segment keeps its previous translation"),
				logging.String(logging.FieldErrorHint, "check the translation backend and rerun translate"),
			)...,
		)
		return outcomeFailed
	}
	if !session.ApplyTranslation(req.SegmentID, req.Text, text) {
		logger.Info("translation dropped for changed segment", logging.Args(attrs...)...)
		return outcomeStale
	}
	logger.Debug("translation applied", logging.Args(attrs...)...)
	return outcomeApplied
}
