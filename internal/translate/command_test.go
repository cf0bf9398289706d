package translate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"framescribe/internal/config"
	"framescribe/internal/transcript"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "translate.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0o755); err != nil {
		t.Fatalf("write script: %v", err)
	}
	return path
}

func TestCommandTranslatorPipesText(t *testing.T) {
	script := writeScript(t, "printf '%s:' \"$1\"; tr a-z A-Z\n")
	tr, err := NewCommandTranslator(script+" {target}", time.Second)
	if err != nil {
		t.Fatalf("NewCommandTranslator: %v", err)
	}
	got, err := tr.Translate(context.Background(), transcript.TranslationRequest{Text: "hello", TargetLanguage: "fr"})
	if err != nil {
		t.Fatalf("Translate: %v", err)
	}
	if got != "fr:HELLO" {
		t.Fatalf("Translate = %q, want %q", got, "fr:HELLO")
	}
	if err := tr.Available(); err != nil {
		t.Fatalf("Available: %v", err)
	}
}

func TestCommandTranslatorReportsStderr(t *testing.T) {
	script := writeScript(t, "echo 'quota exceeded' >&2\nexit 3\n")
	tr, err := NewCommandTranslator(script, time.Second)
	if err != nil {
		t.Fatal(err)
	}
	_, err = tr.Translate(context.Background(), transcript.TranslationRequest{Text: "x"})
	if err == nil || !strings.Contains(err.Error(), "quota exceeded") {
		t.Fatalf("err = %v, want stderr detail", err)
	}
}

func TestNewRequiresCommand(t *testing.T) {
	if _, err := New(config.Translation{Provider: config.ProviderCommand}); !errors.Is(err, ErrNotConfigured) {
		t.Fatalf("New = %v, want ErrNotConfigured", err)
	}
}

func TestNewSelectsProvider(t *testing.T) {
	backend, err := New(config.Translation{Provider: config.ProviderCommand, Command: "tr a-z A-Z"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := backend.(*CommandTranslator); !ok || backend.Describe() != "tr" {
		t.Fatalf("backend = %T %q, want command tr", backend, backend.Describe())
	}

	backend, err = New(config.Translation{Provider: config.ProviderLLM, Model: "demo"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, ok := backend.(*LLMTranslator); !ok {
		t.Fatalf("backend = %T, want *LLMTranslator", backend)
	}
	if err := backend.Available(); err == nil || !strings.Contains(err.Error(), "api_key") {
		t.Fatalf("Available = %v, want api key error", err)
	}
}
