package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	ProjectDir string `toml:"project_dir"`
	LogDir     string `toml:"log_dir"`
	ExportDir  string `toml:"export_dir"`
}

// Segmentation controls how raw observations are clustered into segments.
type Segmentation struct {
	// GapThreshold is the maximum distance in seconds between consecutive
	// same-key observations for them to share a segment.
	GapThreshold float64 `toml:"gap_threshold"`
	// Key selects the clustering key: "exact" (case-sensitive text equality)
	// or "normalized" (NFC + collapsed whitespace).
	Key string `toml:"key"`
	// ValidateOrder rejects observation streams whose timestamps decrease
	// before clustering. Off by default; ordering is a caller precondition.
	ValidateOrder bool `toml:"validate_order"`
}

// OCR contains options forwarded to the text-recognition capability.
type OCR struct {
	RecognitionLevel    string  `toml:"recognition_level"`
	RecognitionLanguage string  `toml:"recognition_language"`
	SampleInterval      float64 `toml:"sample_interval"`
}

// Transcript contains options for building documents from word lists.
type Transcript struct {
	MaxSegmentChars int    `toml:"max_segment_chars"`
	Language        string `toml:"language"`
}

// Export contains output formatting options.
type Export struct {
	DualOrder  string `toml:"dual_order"`
	JSONIndent int    `toml:"json_indent"`
}

// Translation contains options for the translation dispatcher.
type Translation struct {
	// Command is an external program that reads source text on stdin and
	// writes the translation to stdout. {source} and {target} in its
	// arguments are replaced with language codes.
	Command        string `toml:"command"`
	TargetLanguage string `toml:"target_language"`
	Workers        int    `toml:"workers"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
	// Provider selects the backend: "command" runs Command, "llm" calls an
	// OpenAI-compatible chat completions endpoint.
	Provider string `toml:"provider"`
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Model    string `toml:"model"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for framescribe.
//
// Configuration sections by subsystem:
//   - Paths: project database, logs, and default export directory
//   - Segmentation: gap threshold and clustering key
//   - OCR: recognition level/language and frame sampling interval
//   - Transcript: initial segment boundaries and language tag
//   - Export: dual-language ordering and JSON layout
//   - Translation: backend selection and dispatcher concurrency
//   - Logging: log format and level
type Config struct {
	Paths        Paths        `toml:"paths"`
	Segmentation Segmentation `toml:"segmentation"`
	OCR          OCR          `toml:"ocr"`
	Transcript   Transcript   `toml:"transcript"`
	Export       Export       `toml:"export"`
	Translation  Translation  `toml:"translation"`
	Logging      Logging      `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/framescribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("framescribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the project and log directories. The export
// directory is created lazily by the export command.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.ProjectDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// DatabasePath returns the location of the document database.
func (c *Config) DatabasePath() string {
	return filepath.Join(c.Paths.ProjectDir, "documents.db")
}

// Encode renders the effective configuration as TOML.
func (c *Config) Encode() ([]byte, error) {
	data, err := toml.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("encode config: %w", err)
	}
	return data, nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
