package preflight

import (
	"framescribe/internal/config"
	"framescribe/internal/translate"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes all applicable preflight checks for the given config.
func RunAll(cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	results := []Result{
		CheckDirectoryAccess("Project directory", cfg.Paths.ProjectDir),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir),
		CheckExportDirectory(cfg.Paths.ExportDir),
		CheckDatabase(cfg),
	}

	// Translation is optional; only check it once a backend is configured.
	if translate.Configured(cfg.Translation) {
		results = append(results, CheckTranslation(cfg.Translation))
	}

	return results
}

// Failed reports whether any result did not pass.
func Failed(results []Result) bool {
	for _, r := range results {
		if !r.Passed {
			return true
		}
	}
	return false
}
