package config

const (
	defaultDataDir       = "~/.local/share/rotator"
	defaultLogDir        = "~/.local/share/rotator/logs"
	defaultDwellSeconds  = 10
	defaultLogFormat     = "console"
	defaultLogLevel      = "info"
	defaultRetentionDays = 0
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
			LogDir:  defaultLogDir,
		},
		Dwell: Dwell{
			Seconds: defaultDwellSeconds,
		},
		Logging: Logging{
			Format:        defaultLogFormat,
			Level:         defaultLogLevel,
			RetentionDays: defaultRetentionDays,
		},
	}
}
