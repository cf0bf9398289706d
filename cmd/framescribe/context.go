package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"framescribe/internal/config"
	"framescribe/internal/logging"
	"framescribe/internal/store"
	"framescribe/internal/transcript"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag, logLevelFlag *string) *commandContext {
	return &commandContext{
		configFlag:   configFlag,
		logLevelFlag: logLevelFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) configValue() *config.Config {
	cfg, _ := c.ensureConfig()
	return cfg
}

func (c *commandContext) loggerValue() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		c.logger, c.loggerErr = logging.NewFromConfig(cfg)
	})
	return c.logger, c.loggerErr
}

func (c *commandContext) withStore(fn func(*store.Store) error) error {
	cfg, err := c.ensureConfig()
	if err != nil {
		return err
	}
	st, err := store.Open(cfg)
	if err != nil {
		return wrapStoreError(err)
	}
	defer st.Close()
	return fn(st)
}

// documentFunc mutates doc and reports whether it changed.
type documentFunc func(rec *store.Record, doc *transcript.Document) (bool, error)

// withDocument resolves ref, decodes the stored state, and saves it again
// when fn reports a change.
func (c *commandContext) withDocument(ctx context.Context, ref string, fn documentFunc) error {
	return c.withStore(func(st *store.Store) error {
		rec, err := resolveDocument(ctx, st, ref)
		if err != nil {
			return err
		}
		doc, err := rec.Document()
		if err != nil {
			return err
		}
		changed, err := fn(rec, doc)
		if err != nil {
			return err
		}
		if !changed {
			return nil
		}
		return st.Save(ctx, rec, doc)
	})
}

func resolveDocument(ctx context.Context, st *store.Store, ref string) (*store.Record, error) {
	rec, err := st.Resolve(ctx, ref)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, fmt.Errorf("document %q not found; run `framescribe transcript list`", ref)
	}
	return rec, nil
}

func wrapStoreError(err error) error {
	switch {
	case errors.Is(err, store.ErrLocked):
		return fmt.Errorf("open documents: %w; another framescribe command is writing", err)
	case errors.Is(err, store.ErrSchemaMismatch):
		return fmt.Errorf("open documents: %w; remove the database or run with a fresh project_dir", err)
	default:
		return fmt.Errorf("open documents: %w", err)
	}
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
