package testsupport

import (
	"path/filepath"
	"testing"

	"pitchclerk/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.API.APIKey = "test-key"
	cfgVal.API.TimeoutSeconds = 5
	cfgVal.Paths.StateDir = filepath.Join(base, "state")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	if err := builder.cfg.EnsureDirectories(); err != nil {
		t.Fatalf("ensure directories: %v", err)
	}
	return builder.cfg
}

// WithBaseURL points the config at a test server.
func WithBaseURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.BaseURL = url
	}
}

// WithAPIKey sets the static API key on the test config.
func WithAPIKey(key string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.APIKey = key
	}
}

// WithTimeout sets the per-request timeout in seconds.
func WithTimeout(seconds int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.API.TimeoutSeconds = seconds
	}
}
