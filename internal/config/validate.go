package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSegmentation(); err != nil {
		return err
	}
	if err := c.validateOCR(); err != nil {
		return err
	}
	if err := c.validateTranscript(); err != nil {
		return err
	}
	if err := c.validateExport(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateSegmentation() error {
	if c.Segmentation.GapThreshold <= 0 {
		return errors.New("segmentation.gap_threshold must be positive")
	}
	switch c.Segmentation.Key {
	case KeyExact, KeyNormalized:
	default:
		return fmt.Errorf("segmentation.key: unsupported value %q (expected %q or %q)", c.Segmentation.Key, KeyExact, KeyNormalized)
	}
	return nil
}

func (c *Config) validateOCR() error {
	switch c.OCR.RecognitionLevel {
	case RecognitionFast, RecognitionAccurate:
	default:
		return fmt.Errorf("ocr.recognition_level: unsupported value %q (expected %q or %q)", c.OCR.RecognitionLevel, RecognitionFast, RecognitionAccurate)
	}
	if c.OCR.SampleInterval <= 0 {
		return errors.New("ocr.sample_interval must be positive")
	}
	return nil
}

func (c *Config) validateTranscript() error {
	if c.Transcript.MaxSegmentChars <= 0 {
		return errors.New("transcript.max_segment_chars must be positive")
	}
	return nil
}

func (c *Config) validateExport() error {
	switch c.Export.DualOrder {
	case DualTranslatedFirst, DualOriginalFirst:
	default:
		return fmt.Errorf("export.dual_order: unsupported value %q", c.Export.DualOrder)
	}
	if c.Export.JSONIndent < 0 || c.Export.JSONIndent > 8 {
		return errors.New("export.json_indent must be between 0 and 8")
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if c.Translation.Workers <= 0 {
		return errors.New("translation.workers must be positive")
	}
	if c.Translation.TimeoutSeconds < 0 {
		return errors.New("translation.timeout_seconds must not be negative")
	}
	switch c.Translation.Provider {
	case ProviderCommand, ProviderLLM:
	default:
		return fmt.Errorf("translation.provider: unsupported value %q (expected %q or %q)", c.Translation.Provider, ProviderCommand, ProviderLLM)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	return nil
}
