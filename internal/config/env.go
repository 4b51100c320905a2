package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// dotEnvFile is read from the working directory when present. Variables that
// are already set in the process environment win over the file.
var dotEnvFile = ".env"

type envOverrides struct {
	BaseURL        *string `env:"PITCHCLERK_BASE_URL"`
	APIKey         *string `env:"PITCHCLERK_API_KEY"`
	TimeoutSeconds *int    `env:"PITCHCLERK_TIMEOUT_SECONDS"`
	StateDir       *string `env:"PITCHCLERK_STATE_DIR"`
	LogLevel       *string `env:"PITCHCLERK_LOG_LEVEL"`
	LogFormat      *string `env:"PITCHCLERK_LOG_FORMAT"`
}

func (c *Config) applyEnv() error {
	if err := godotenv.Load(dotEnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", dotEnvFile, err)
	}

	var overrides envOverrides
	if err := env.Parse(&overrides); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	if v := overrides.BaseURL; v != nil && strings.TrimSpace(*v) != "" {
		c.API.BaseURL = *v
	}
	if v := overrides.APIKey; v != nil && strings.TrimSpace(*v) != "" {
		c.API.APIKey = *v
	}
	if v := overrides.TimeoutSeconds; v != nil {
		c.API.TimeoutSeconds = *v
	}
	if v := overrides.StateDir; v != nil && strings.TrimSpace(*v) != "" {
		c.Paths.StateDir = *v
	}
	if v := overrides.LogLevel; v != nil && strings.TrimSpace(*v) != "" {
		c.Logging.Level = *v
	}
	if v := overrides.LogFormat; v != nil && strings.TrimSpace(*v) != "" {
		c.Logging.Format = *v
	}
	return nil
}
