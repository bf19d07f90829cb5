package config

const (
	defaultDataDir            = "~/.local/share/etymap"
	defaultLogDir             = "~/.local/share/etymap/logs"
	defaultAPIBind            = "127.0.0.1:7493"
	defaultLLMBaseURL         = "https://api.openai.com/v1/chat/completions"
	defaultLLMModel           = "gpt-4o"
	defaultLLMTimeoutSeconds  = 60
	defaultPredictionYear     = 2050
	defaultTranslationBaseURL = "https://engine.lingo.dev"
	defaultTranslationTimeout = 20
	defaultSourceLocale       = "en"
	defaultMapStyle           = "mapbox://styles/mapbox/dark-v11"
	defaultNormalTickSeconds  = 2
	defaultSlowTickSeconds    = 4
	defaultLogFormat          = "console"
	defaultLogLevel           = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
			APIBind: defaultAPIBind,
		},
		LLM: LLM{
			BaseURL:        defaultLLMBaseURL,
			Model:          defaultLLMModel,
			TimeoutSeconds: defaultLLMTimeoutSeconds,
		},
		Prediction: Prediction{
			TargetYear: defaultPredictionYear,
		},
		Translation: Translation{
			BaseURL:        defaultTranslationBaseURL,
			SourceLocale:   defaultSourceLocale,
			Locales:        []string{"en", "es", "fr", "de", "ja", "zh"},
			TimeoutSeconds: defaultTranslationTimeout,
		},
		Map: Map{
			Style: defaultMapStyle,
		},
		Playback: Playback{
			NormalTickSeconds: defaultNormalTickSeconds,
			SlowTickSeconds:   defaultSlowTickSeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
