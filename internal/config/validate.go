package config

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDwell(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validatePaths() error {
	if c.Paths.DataDir == "" {
		return errors.New("paths.data_dir must be set")
	}
	if c.Paths.LogDir == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateDwell() error {
	if c.Dwell.hasOverride {
		if c.Dwell.override < 0 {
			return fmt.Errorf("%s must not be negative", DwellEnvVar)
		}
		return nil
	}
	var total time.Duration
	for _, part := range []struct {
		name  string
		value int
		unit  time.Duration
	}{
		{"dwell.seconds", c.Dwell.Seconds, time.Second},
		{"dwell.minutes", c.Dwell.Minutes, time.Minute},
		{"dwell.hours", c.Dwell.Hours, time.Hour},
		{"dwell.days", c.Dwell.Days, 24 * time.Hour},
	} {
		if part.value < 0 {
			return fmt.Errorf("%s must not be negative", part.name)
		}
		if int64(part.value) > math.MaxInt64/int64(part.unit) {
			return fmt.Errorf("dwell: total exceeds maximum duration (%s = %d)", part.name, part.value)
		}
		span := time.Duration(part.value) * part.unit
		if total > math.MaxInt64-span {
			return errors.New("dwell: total exceeds maximum duration")
		}
		total += span
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
}
