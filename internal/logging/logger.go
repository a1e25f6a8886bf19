package logging

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"rotator/internal/config"
)

// Options describes logger construction parameters. OutputPaths and
// ErrorOutputPaths are merged; all records go to every destination. With no
// destinations at all the logger writes to stderr, leaving stdout to the run
// report.
type Options struct {
	Level            string
	Format           string
	OutputPaths      []string
	ErrorOutputPaths []string
	Development      bool
}

// New constructs a slog logger using the provided options. The returned
// closer releases any log files the logger opened; it never closes the
// process streams.
func New(opts Options) (*slog.Logger, io.Closer, error) {
	levelVar := new(slog.LevelVar)
	levelVar.Set(parseLevel(opts.Level))
	addSource := opts.Development || levelVar.Level() <= slog.LevelDebug

	var newHandler func(io.Writer) slog.Handler
	switch format := strings.ToLower(strings.TrimSpace(opts.Format)); format {
	case "json":
		newHandler = func(w io.Writer) slog.Handler { return newJSONHandler(w, levelVar, addSource) }
	case "", "console":
		newHandler = func(w io.Writer) slog.Handler { return newConsoleHandler(w, levelVar, addSource) }
	default:
		return nil, nil, fmt.Errorf("log format: unsupported value %q", opts.Format)
	}

	w, files, err := openWriters(opts.OutputPaths, opts.ErrorOutputPaths)
	if err != nil {
		return nil, nil, err
	}
	return slog.New(newHandler(w)), files, nil
}

// NewFromConfig builds the diagnostic logger for a run. Records go to
// rotator.log in the log directory plus any extraPaths (e.g. "stderr").
// Callers close the returned closer when the run ends.
func NewFromConfig(cfg *config.Config, extraPaths ...string) (*slog.Logger, io.Closer, error) {
	if cfg == nil {
		return New(Options{Level: "info", Format: "console", OutputPaths: extraPaths})
	}

	var outputs []string
	if cfg.Paths.LogDir != "" {
		outputs = append(outputs, cfg.DiagnosticLogPath())
	}
	return New(Options{
		Level:       cfg.Logging.Level,
		Format:      cfg.Logging.Format,
		OutputPaths: append(outputs, extraPaths...),
	})
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// logFiles are the files a logger writes to.
type logFiles []*os.File

// Close closes every file, reporting all failures.
func (f logFiles) Close() error {
	var errs []error
	for _, file := range f {
		if err := file.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// openWriters opens every distinct destination once. "stdout" and "stderr"
// name the process streams; anything else is a file opened for append.
func openWriters(paths ...[]string) (io.Writer, logFiles, error) {
	seen := make(map[string]struct{})
	var (
		writers []io.Writer
		files   logFiles
	)
	for _, group := range paths {
		for _, path := range group {
			path = strings.TrimSpace(path)
			if path == "" {
				continue
			}
			if _, dup := seen[path]; dup {
				continue
			}
			seen[path] = struct{}{}

			switch path {
			case "stdout":
				writers = append(writers, os.Stdout)
			case "stderr":
				writers = append(writers, os.Stderr)
			default:
				file, err := openLogFile(path)
				if err != nil {
					_ = files.Close()
					return nil, nil, err
				}
				writers = append(writers, file)
				files = append(files, file)
			}
		}
	}

	switch len(writers) {
	case 0:
		return os.Stderr, files, nil
	case 1:
		return writers[0], files, nil
	default:
		return io.MultiWriter(writers...), files, nil
	}
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log directory for %s: %w", path, err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o664)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return file, nil
}

// newJSONHandler emits ts/level/msg keys with RFC3339 UTC timestamps and
// short source locations.
func newJSONHandler(w io.Writer, level slog.Leveler, addSource bool) slog.Handler {
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level:     level,
		AddSource: addSource,
		ReplaceAttr: func(groups []string, attr slog.Attr) slog.Attr {
			if len(groups) > 0 {
				return attr
			}
			switch attr.Key {
			case slog.TimeKey:
				attr.Key = "ts"
				attr.Value = slog.StringValue(attr.Value.Time().UTC().Format(time.RFC3339))
			case slog.LevelKey:
				attr.Value = slog.StringValue(strings.ToLower(attr.Value.String()))
			case slog.SourceKey:
				if src, ok := attr.Value.Any().(*slog.Source); ok && src != nil {
					attr.Value = slog.StringValue(fmt.Sprintf("%s:%d", filepath.Base(src.File), src.Line))
				}
			}
			return attr
		},
	})
}
