package config

import (
	"errors"
	"fmt"
	"net"
)

// Validate ensures the configuration is usable. Missing API keys are not
// errors: every external backend degrades to a local fallback.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validatePlayback(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if err := c.validateTranslation(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	if _, _, err := net.SplitHostPort(c.Paths.APIBind); err != nil {
		return fmt.Errorf("paths.api_bind %q is not host:port: %w", c.Paths.APIBind, err)
	}
	return nil
}

func (c *Config) validatePlayback() error {
	if c.Playback.NormalTickSeconds <= 0 {
		return errors.New("playback.normal_tick_seconds must be positive")
	}
	if c.Playback.SlowTickSeconds <= c.Playback.NormalTickSeconds {
		return errors.New("playback.slow_tick_seconds must exceed playback.normal_tick_seconds")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format %q must be console or json", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be debug, info, warn, or error", c.Logging.Level)
	}
	return nil
}

func (c *Config) validateTranslation() error {
	if len(c.Translation.Locales) == 0 {
		return errors.New("translation.locales must not be empty")
	}
	return nil
}
