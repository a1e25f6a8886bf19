package testsupport

import (
	"path/filepath"
	"testing"
	"time"

	"rotator/internal/config"
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
	cfgVal.Paths.DataDir = filepath.Join(base, "data")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithDwell replaces the dwell table so that it sums to d, rounded down to
// whole seconds.
func WithDwell(d time.Duration) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Dwell = config.Dwell{Seconds: int(d / time.Second)}
	}
}

// WithRetentionDays sets the run-log retention on the test config.
func WithRetentionDays(days int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Logging.RetentionDays = days
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.DataDir)
}
