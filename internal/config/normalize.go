package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	c.normalizeAPI()
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizeAPI() {
	c.API.BaseURL = strings.TrimSpace(c.API.BaseURL)
	if c.API.BaseURL == "" {
		c.API.BaseURL = defaultBaseURL
	}
	// Endpoint paths are relative ("auth/signin"), so the base must end in a slash
	// for url.ResolveReference to keep the version segment.
	if !strings.HasSuffix(c.API.BaseURL, "/") {
		c.API.BaseURL += "/"
	}
	c.API.APIKey = strings.TrimSpace(c.API.APIKey)
}

func (c *Config) normalizePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	var err error
	if c.Paths.StateDir, err = expandPath(strings.TrimSpace(c.Paths.StateDir)); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
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
