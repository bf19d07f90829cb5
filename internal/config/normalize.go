package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLLM()
	c.normalizePrediction()
	c.normalizeTranslation()
	c.normalizeMap()
	c.normalizePlayback()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.DataDir) == "" {
		c.Paths.DataDir = defaultDataDir
	}
	if c.Paths.DataDir, err = expandPath(c.Paths.DataDir); err != nil {
		return fmt.Errorf("paths.data_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	c.Paths.APIBind = strings.TrimSpace(c.Paths.APIBind)
	if c.Paths.APIBind == "" {
		c.Paths.APIBind = defaultAPIBind
	}
	return nil
}

func (c *Config) normalizeLLM() {
	if c.LLM.APIKey == "" {
		if value, ok := os.LookupEnv("OPENAI_API_KEY"); ok {
			c.LLM.APIKey = value
		}
	}
	c.LLM.APIKey = strings.TrimSpace(c.LLM.APIKey)
	c.LLM.BaseURL = strings.TrimSpace(c.LLM.BaseURL)
	if c.LLM.BaseURL == "" {
		c.LLM.BaseURL = defaultLLMBaseURL
	}
	c.LLM.Model = strings.TrimSpace(c.LLM.Model)
	if c.LLM.Model == "" {
		c.LLM.Model = defaultLLMModel
	}
	if c.LLM.TimeoutSeconds <= 0 {
		c.LLM.TimeoutSeconds = defaultLLMTimeoutSeconds
	}
}

func (c *Config) normalizePrediction() {
	if c.Prediction.TargetYear == 0 {
		c.Prediction.TargetYear = defaultPredictionYear
	}
}

func (c *Config) normalizeTranslation() {
	if c.Translation.APIKey == "" {
		if value, ok := os.LookupEnv("LINGODOTDEV_API_KEY"); ok {
			c.Translation.APIKey = value
		}
	}
	c.Translation.APIKey = strings.TrimSpace(c.Translation.APIKey)
	c.Translation.BaseURL = strings.TrimSpace(c.Translation.BaseURL)
	if c.Translation.BaseURL == "" {
		c.Translation.BaseURL = defaultTranslationBaseURL
	}
	c.Translation.SourceLocale = strings.TrimSpace(c.Translation.SourceLocale)
	if c.Translation.SourceLocale == "" {
		c.Translation.SourceLocale = defaultSourceLocale
	}
	if len(c.Translation.Locales) == 0 {
		c.Translation.Locales = Default().Translation.Locales
	}
	if c.Translation.TimeoutSeconds <= 0 {
		c.Translation.TimeoutSeconds = defaultTranslationTimeout
	}
}

func (c *Config) normalizeMap() {
	if c.Map.AccessToken == "" {
		if value, ok := os.LookupEnv("MAPBOX_ACCESS_TOKEN"); ok {
			c.Map.AccessToken = value
		}
	}
	c.Map.AccessToken = strings.TrimSpace(c.Map.AccessToken)
	c.Map.Style = strings.TrimSpace(c.Map.Style)
	if c.Map.Style == "" {
		c.Map.Style = defaultMapStyle
	}
}

func (c *Config) normalizePlayback() {
	if c.Playback.NormalTickSeconds <= 0 {
		c.Playback.NormalTickSeconds = defaultNormalTickSeconds
	}
	if c.Playback.SlowTickSeconds <= c.Playback.NormalTickSeconds {
		c.Playback.SlowTickSeconds = 2 * c.Playback.NormalTickSeconds
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
