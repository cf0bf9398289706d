package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framescribe/internal/config"
	"framescribe/internal/testsupport"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckExportDirectory_Creatable(t *testing.T) {
	result := CheckExportDirectory(filepath.Join(t.TempDir(), "a", "b"))
	if !result.Passed || !strings.Contains(result.Detail, "created on first export") {
		t.Fatalf("expected creatable export dir, got: %+v", result)
	}
}

func TestCheckTranslation(t *testing.T) {
	missing := CheckTranslation(config.Translation{Command: "framescribe-no-such-translator"})
	if missing.Passed {
		t.Fatal("expected failure for missing program")
	}
	ok := CheckTranslation(config.Translation{Command: "cat", TargetLanguage: "fr"})
	if !ok.Passed || !strings.Contains(ok.Detail, "cat (target fr)") {
		t.Fatalf("expected pass for cat, got: %+v", ok)
	}
	noTarget := CheckTranslation(config.Translation{Command: "cat"})
	if !noTarget.Passed || noTarget.Detail != "cat (no default target language)" {
		t.Fatalf("expected pass without target, got: %+v", noTarget)
	}

	noKey := CheckTranslation(config.Translation{Provider: config.ProviderLLM, Model: "demo"})
	if noKey.Passed || !strings.Contains(noKey.Detail, "api_key") {
		t.Fatalf("expected api key failure, got: %+v", noKey)
	}
	llm := CheckTranslation(config.Translation{Provider: config.ProviderLLM, APIKey: "k", Model: "demo"})
	if !llm.Passed || !strings.Contains(llm.Detail, "llm demo") {
		t.Fatalf("expected pass for llm, got: %+v", llm)
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatal(err)
	}
	results := RunAll(cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results without translation, got %d", len(results))
	}
	if Failed(results) {
		t.Fatalf("expected all checks to pass: %+v", results)
	}

	cfg.Translation.Command = "framescribe-no-such-translator"
	results = RunAll(cfg)
	if len(results) != 5 || !Failed(results) {
		t.Fatalf("expected failing translation check: %+v", results)
	}
}
