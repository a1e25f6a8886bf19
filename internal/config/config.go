package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// DwellEnvVar overrides the [dwell] table with a Go duration string.
const DwellEnvVar = "ROTATOR_DWELL"

// Paths contains directory configuration.
type Paths struct {
	DataDir string `toml:"data_dir"`
	LogDir  string `toml:"log_dir"`
}

// Dwell describes how long an item stays in the waiting queue. The
// components are summed; a day is 24 hours.
type Dwell struct {
	Seconds int `toml:"seconds"`
	Minutes int `toml:"minutes"`
	Hours   int `toml:"hours"`
	Days    int `toml:"days"`

	// override is set from ROTATOR_DWELL during normalization.
	override    time.Duration
	hasOverride bool
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for rotator.
type Config struct {
	Paths   Paths   `toml:"paths"`
	Dwell   Dwell   `toml:"dwell"`
	Logging Logging `toml:"logging"`
}

// Duration returns the total dwell duration.
func (d Dwell) Duration() time.Duration {
	if d.hasOverride {
		return d.override
	}
	return time.Duration(d.Seconds)*time.Second +
		time.Duration(d.Minutes)*time.Minute +
		time.Duration(d.Hours)*time.Hour +
		time.Duration(d.Days)*24*time.Hour
}

// DefaultConfigPath returns the absolute path of the per-user config file.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/rotator/config.toml")
}

// Load reads, normalizes and validates the configuration. It returns the
// resolved config path and whether a file existed there; a missing file
// yields the defaults.
func Load(path string) (*Config, string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	cfg := Default()
	if exists {
		if err := decodeFile(resolved, &cfg); err != nil {
			return nil, "", false, err
		}
	}
	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolved, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// resolveConfigPath picks the explicit path when given; otherwise the first
// existing file among the per-user path and ./rotator.toml, falling back to
// the per-user path.
func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		exists, err := isFile(expanded)
		return expanded, exists, err
	}

	userPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	localPath, err := filepath.Abs("rotator.toml")
	if err != nil {
		return "", false, err
	}
	for _, candidate := range []string{userPath, localPath} {
		if ok, _ := isFile(candidate); ok {
			return candidate, true, nil
		}
	}
	return userPath, false, nil
}

func isFile(path string) (bool, error) {
	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("stat config: %w", err)
	}
	return !info.IsDir(), nil
}

// EnsureDirectories creates the data and log directories.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.DataDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// StorePath returns the location of the item database.
func (c *Config) StorePath() string {
	return filepath.Join(c.Paths.DataDir, "items.db")
}

// LockPath returns the location of the run lock file.
func (c *Config) LockPath() string {
	return filepath.Join(c.Paths.DataDir, "rotator.lock")
}

// DiagnosticLogPath returns the location of the structured diagnostic log.
func (c *Config) DiagnosticLogPath() string {
	return filepath.Join(c.Paths.LogDir, "rotator.log")
}

// expandPath resolves a leading ~ to the home directory and makes the result
// absolute. An empty path stays empty.
func expandPath(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	if path == "~" || strings.HasPrefix(path, "~/") || strings.HasPrefix(path, `~\`) {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		path = filepath.Join(home, path[1:])
	}
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve %q: %w", path, err)
	}
	return absolute, nil
}

// ExpandPath applies the same ~ and absolute-path rules used for config values.
func ExpandPath(path string) (string, error) {
	return expandPath(path)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
