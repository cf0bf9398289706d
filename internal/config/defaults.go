package config

const (
	defaultProjectDir          = "~/.local/share/framescribe"
	defaultLogDir              = "~/.local/share/framescribe/logs"
	defaultExportDir           = "~/framescribe"
	defaultGapThreshold        = 2.0
	defaultSegmentationKey     = KeyExact
	defaultRecognitionLevel    = RecognitionAccurate
	defaultRecognitionLanguage = "en-US"
	defaultSampleInterval      = 1.0
	defaultMaxSegmentChars     = 80
	defaultTranscriptLanguage  = "en"
	defaultDualOrder           = DualTranslatedFirst
	defaultJSONIndent          = 2
	defaultTranslationWorkers  = 4
	defaultTranslationTimeout  = 30
	defaultTranslationProvider = ProviderCommand
	defaultLogFormat           = "console"
	defaultLogLevel            = "info"
)

// DefaultGapThreshold is the segmentation gap used when none is configured.
const DefaultGapThreshold = defaultGapThreshold

// Segmentation key modes.
const (
	KeyExact      = "exact"
	KeyNormalized = "normalized"
)

// OCR recognition levels forwarded opaquely to the recognizer.
const (
	RecognitionFast     = "fast"
	RecognitionAccurate = "accurate"
)

// Translation backends.
const (
	ProviderCommand = "command"
	ProviderLLM     = "llm"
)

// Dual-language SRT line orders.
const (
	DualTranslatedFirst = "translated_first"
	DualOriginalFirst   = "original_first"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			ProjectDir: defaultProjectDir,
			LogDir:     defaultLogDir,
			ExportDir:  defaultExportDir,
		},
		Segmentation: Segmentation{
			GapThreshold: defaultGapThreshold,
			Key:          defaultSegmentationKey,
		},
		OCR: OCR{
			RecognitionLevel:    defaultRecognitionLevel,
			RecognitionLanguage: defaultRecognitionLanguage,
			SampleInterval:      defaultSampleInterval,
		},
		Transcript: Transcript{
			MaxSegmentChars: defaultMaxSegmentChars,
			Language:        defaultTranscriptLanguage,
		},
		Export: Export{
			DualOrder:  defaultDualOrder,
			JSONIndent: defaultJSONIndent,
		},
		Translation: Translation{
			Workers:        defaultTranslationWorkers,
			TimeoutSeconds: defaultTranslationTimeout,
			Provider:       defaultTranslationProvider,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
