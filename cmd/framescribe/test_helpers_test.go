package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"framescribe/internal/config"
	"framescribe/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, extra string) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t)
	base := testsupport.BaseDir(cfg)
	t.Setenv("HOME", filepath.Join(base, "home"))
	t.Setenv("FRAMESCRIBE_LOG_LEVEL", "")
	t.Setenv("FRAMESCRIBE_TRANSLATION_API_KEY", "")
	t.Setenv("OPENROUTER_API_KEY", "")

	configPath := filepath.Join(base, "framescribe.toml")
	writeTestConfig(t, configPath, cfg, extra)

	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetIn(strings.NewReader(""))
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

// mustRunCLI fails the test when the command returns an error.
func mustRunCLI(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	stdout, stderr, err := runCLI(t, args, env.configPath)
	if err != nil {
		t.Fatalf("framescribe %s: %v\nstdout: %s\nstderr: %s", strings.Join(args, " "), err, stdout, stderr)
	}
	return stdout
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config, extra string) {
	t.Helper()
	content := fmt.Sprintf(
		"[paths]\nproject_dir = %q\nlog_dir = %q\nexport_dir = %q\n\n[logging]\nlevel = \"error\"\n%s",
		cfg.Paths.ProjectDir,
		cfg.Paths.LogDir,
		cfg.Paths.ExportDir,
		extra,
	)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

const sampleWords = `[
  {"word": "Hello", "start": 0.0, "end": 0.4, "probability": 0.9},
  {"word": "there.", "start": 0.5, "end": 0.9, "probability": 0.8},
  {"word": "General", "start": 1.5, "end": 1.9, "probability": 0.95},
  {"word": "Kenobi!", "start": 2.0, "end": 2.6, "probability": 0.7},
  {"word": "Bye", "start": 3.0, "end": 3.4, "probability": 0.99}
]`

// importSample imports sampleWords as a document named "talk".
func importSample(t *testing.T, env *cliTestEnv) {
	t.Helper()
	path := writeFile(t, env.baseDir, "words.json", sampleWords)
	out := mustRunCLI(t, env, "transcript", "import", path, "--name", "talk")
	requireContains(t, out, `Imported "talk"`)
	requireContains(t, out, "3 segments")
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
