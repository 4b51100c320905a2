package config

const (
	defaultBaseURL        = "https://pitchclerk-api.onrender.com/v1/"
	defaultTimeoutSeconds = 30
	defaultStateDir       = "~/.local/share/pitchclerk"
	defaultLogDir         = "~/.local/share/pitchclerk/logs"
	defaultLogFormat      = "console"
	defaultLogLevel       = "warn"
	defaultConfigPath     = "~/.config/pitchclerk/config.toml"
	projectConfigName     = "pitchclerk.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		API: API{
			BaseURL:        defaultBaseURL,
			TimeoutSeconds: defaultTimeoutSeconds,
		},
		Paths: Paths{
			StateDir: defaultStateDir,
			LogDir:   defaultLogDir,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
