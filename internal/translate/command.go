package translate

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"framescribe/internal/transcript"
)

// ErrNotConfigured reports that no translation backend is set up.
var ErrNotConfigured = errors.New("translation not configured")

// CommandTranslator runs a program per request. Source text goes to stdin;
// trimmed stdout is the translation.
type CommandTranslator struct {
	Program string
	Args    []string
	Timeout time.Duration
}

// NewCommandTranslator splits command on whitespace. Arguments may contain
// {source} and {target} placeholders.
func NewCommandTranslator(command string, timeout time.Duration) (*CommandTranslator, error) {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return nil, ErrNotConfigured
	}
	return &CommandTranslator{Program: fields[0], Args: fields[1:], Timeout: timeout}, nil
}

// Describe names the backend for status output.
func (c *CommandTranslator) Describe() string {
	return c.Program
}

// Translate implements transcript.Translator.
func (c *CommandTranslator) Translate(ctx context.Context, req transcript.TranslationRequest) (string, error) {
	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}
	replacer := strings.NewReplacer("{source}", req.SourceLanguage, "{target}", req.TargetLanguage)
	args := make([]string, len(c.Args))
	for i, arg := range c.Args {
		args[i] = replacer.Replace(arg)
	}

	cmd := exec.CommandContext(ctx, c.Program, args...)
	cmd.Stdin = strings.NewReader(req.Text)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		detail := strings.TrimSpace(stderr.String())
		if detail != "" {
			return "", fmt.Errorf("%s: %w: %s", c.Program, err, detail)
		}
		return "", fmt.Errorf("%s: %w", c.Program, err)
	}
	return strings.TrimSpace(stdout.String()), nil
}

// Available reports whether the program can be found on PATH.
func (c *CommandTranslator) Available() error {
	if _, err := exec.LookPath(c.Program); err != nil {
		return fmt.Errorf("translation command %q: %w", c.Program, err)
	}
	return nil
}
