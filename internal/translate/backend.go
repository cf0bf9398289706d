package translate

import (
	"fmt"
	"time"

	"framescribe/internal/config"
	"framescribe/internal/transcript"
)

// Backend is a Translator that can report its own readiness.
type Backend interface {
	transcript.Translator
	Available() error
	Describe() string
}

// New builds the backend selected by cfg.Provider.
func New(cfg config.Translation) (Backend, error) {
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	switch cfg.Provider {
	case config.ProviderLLM:
		return NewLLMTranslator(LLMConfig{
			APIKey:  cfg.APIKey,
			BaseURL: cfg.BaseURL,
			Model:   cfg.Model,
			Timeout: timeout,
		}), nil
	case config.ProviderCommand, "":
		tr, err := NewCommandTranslator(cfg.Command, timeout)
		if err != nil {
			return nil, err
		}
		return tr, nil
	default:
		return nil, fmt.Errorf("translation provider %q: %w", cfg.Provider, ErrNotConfigured)
	}
}

// Configured reports whether cfg names a backend worth checking.
func Configured(cfg config.Translation) bool {
	if cfg.Provider == config.ProviderLLM {
		return true
	}
	return cfg.Command != ""
}
