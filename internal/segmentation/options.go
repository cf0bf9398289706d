package segmentation

import (
	"fmt"

	"framescribe/internal/config"
)

// Options controls clustering.
type Options struct {
	// GapThreshold is the largest time difference, exclusive, between
	// consecutive same-key observations that still extends a segment.
	GapThreshold float64
	Key          KeyFunc
}

// DefaultOptions returns the two-second gap with exact text keys.
func DefaultOptions() Options {
	return Options{GapThreshold: config.DefaultGapThreshold, Key: ExactKey}
}

// OptionsFromConfig builds Options from the segmentation config section.
func OptionsFromConfig(cfg config.Segmentation) (Options, error) {
	key, err := KeyByName(cfg.Key)
	if err != nil {
		return Options{}, err
	}
	if cfg.GapThreshold <= 0 {
		return Options{}, fmt.Errorf("gap threshold must be positive, got %v", cfg.GapThreshold)
	}
	return Options{GapThreshold: cfg.GapThreshold, Key: key}, nil
}

func (o Options) withDefaults() Options {
	if o.GapThreshold <= 0 {
		o.GapThreshold = config.DefaultGapThreshold
	}
	if o.Key == nil {
		o.Key = ExactKey
	}
	return o
}
