package testsupport

import (
	"path/filepath"
	"testing"

	"framescribe/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.ProjectDir = filepath.Join(base, "project")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Paths.ExportDir = filepath.Join(base, "exports")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithGapThreshold overrides the segmentation gap.
func WithGapThreshold(seconds float64) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Segmentation.GapThreshold = seconds
	}
}

// WithMaxSegmentChars overrides the transcript boundary length.
func WithMaxSegmentChars(n int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Transcript.MaxSegmentChars = n
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.ProjectDir)
}
