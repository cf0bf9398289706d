package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"framescribe/internal/config"
)

func TestConfigInitWritesSample(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "nested", "config.toml")

	out, _, err := runCLI(t, []string{"config", "init", "--path", target}, "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, target)
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	requireContains(t, string(data), "[segmentation]")

	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, ""); err == nil {
		t.Fatal("expected existing file to be protected")
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target, "--overwrite"}, ""); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
}

func TestConfigShowPrintsEffectiveValues(t *testing.T) {
	env := setupCLITestEnv(t, "\n[segmentation]\ngap_threshold = 1.5\n")
	out := mustRunCLI(t, env, "config", "show")

	var cfg config.Config
	if err := toml.Unmarshal([]byte(out), &cfg); err != nil {
		t.Fatalf("decode shown config: %v\n%s", err, out)
	}
	if cfg.Segmentation.GapThreshold != 1.5 {
		t.Fatalf("gap = %v, want 1.5", cfg.Segmentation.GapThreshold)
	}
	if cfg.Paths.ProjectDir != env.cfg.Paths.ProjectDir {
		t.Fatalf("project dir = %q, want %q", cfg.Paths.ProjectDir, env.cfg.Paths.ProjectDir)
	}
}

func TestConfigValidate(t *testing.T) {
	env := setupCLITestEnv(t, "")
	requireContains(t, mustRunCLI(t, env, "config", "validate"), "Configuration valid")

	bad := writeFile(t, env.baseDir, "bad.toml", "[segmentation]\nkey = \"fuzzy\"\n")
	if _, _, err := runCLI(t, []string{"config", "validate"}, bad); err == nil {
		t.Fatal("expected invalid key to fail validation")
	}
}

func TestDoctorReportsChecks(t *testing.T) {
	env := setupCLITestEnv(t, "")
	out := mustRunCLI(t, env, "doctor")
	requireContains(t, out, "Project directory:")
	requireContains(t, out, "Document database:")
	requireContains(t, out, "[WARN] not configured")
	requireContains(t, out, "gap 2.00s, key exact")
}

func TestDoctorFailsOnMissingTranslationProgram(t *testing.T) {
	env := setupCLITestEnv(t, "\n[translation]\ncommand = \"framescribe-no-such-translator\"\n")
	out, _, err := runCLI(t, []string{"doctor"}, env.configPath)
	if err == nil {
		t.Fatal("expected doctor to fail")
	}
	requireContains(t, out, "Translation backend:")
	requireContains(t, out, "[ERROR]")
}
