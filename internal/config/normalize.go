package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"framescribe/internal/language"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeSegmentation(); err != nil {
		return err
	}
	if err := c.normalizeOCR(); err != nil {
		return err
	}
	c.normalizeTranscript()
	c.normalizeExport()
	c.normalizeTranslation()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.ProjectDir) == "" {
		c.Paths.ProjectDir = defaultProjectDir
	}
	if c.Paths.ProjectDir, err = expandPath(c.Paths.ProjectDir); err != nil {
		return fmt.Errorf("paths.project_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.ExportDir) == "" {
		c.Paths.ExportDir = defaultExportDir
	}
	if c.Paths.ExportDir, err = expandPath(c.Paths.ExportDir); err != nil {
		return fmt.Errorf("paths.export_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeSegmentation() error {
	if value, ok := os.LookupEnv("FRAMESCRIBE_GAP_THRESHOLD"); ok && strings.TrimSpace(value) != "" {
		gap, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
		if err != nil {
			return fmt.Errorf("FRAMESCRIBE_GAP_THRESHOLD: %w", err)
		}
		c.Segmentation.GapThreshold = gap
	}
	c.Segmentation.Key = strings.ToLower(strings.TrimSpace(c.Segmentation.Key))
	if c.Segmentation.Key == "" {
		c.Segmentation.Key = defaultSegmentationKey
	}
	return nil
}

func (c *Config) normalizeOCR() error {
	c.OCR.RecognitionLevel = strings.ToLower(strings.TrimSpace(c.OCR.RecognitionLevel))
	if c.OCR.RecognitionLevel == "" {
		c.OCR.RecognitionLevel = defaultRecognitionLevel
	}
	tag := strings.TrimSpace(c.OCR.RecognitionLanguage)
	if tag == "" {
		tag = defaultRecognitionLanguage
	}
	canonical, err := language.CanonicalTag(tag)
	if err != nil {
		return fmt.Errorf("ocr.recognition_language: %w", err)
	}
	c.OCR.RecognitionLanguage = canonical
	if c.OCR.SampleInterval == 0 {
		c.OCR.SampleInterval = defaultSampleInterval
	}
	return nil
}

func (c *Config) normalizeTranscript() {
	lang := language.ToISO2(c.Transcript.Language)
	if lang == "" {
		lang = defaultTranscriptLanguage
	}
	c.Transcript.Language = lang
}

func (c *Config) normalizeExport() {
	c.Export.DualOrder = strings.ToLower(strings.TrimSpace(c.Export.DualOrder))
	if c.Export.DualOrder == "" {
		c.Export.DualOrder = defaultDualOrder
	}
}

func (c *Config) normalizeTranslation() {
	c.Translation.Command = strings.TrimSpace(c.Translation.Command)
	c.Translation.TargetLanguage = language.ToISO2(c.Translation.TargetLanguage)
	if c.Translation.TimeoutSeconds == 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
	c.Translation.Provider = strings.ToLower(strings.TrimSpace(c.Translation.Provider))
	if c.Translation.Provider == "" {
		c.Translation.Provider = defaultTranslationProvider
	}
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	if c.Translation.APIKey == "" {
		for _, key := range []string{"FRAMESCRIBE_TRANSLATION_API_KEY", "OPENROUTER_API_KEY"} {
			if value := strings.TrimSpace(os.Getenv(key)); value != "" {
				c.Translation.APIKey = value
				break
			}
		}
	}
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	c.Translation.Model = strings.TrimSpace(c.Translation.Model)
}

func (c *Config) normalizeLogging() {
	if value, ok := os.LookupEnv("FRAMESCRIBE_LOG_LEVEL"); ok && strings.TrimSpace(value) != "" {
		c.Logging.Level = value
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
