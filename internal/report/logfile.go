package report

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
)

// logNameLayout names run logs after the local run time, e.g.
// "log_2026-03-14 09_26_53".
const logNameLayout = "log_2006-01-02 15_04_05"

// LogPattern matches run log file names for retention pruning.
const LogPattern = "log_*"

// LogFileName returns the run log file name for runAt.
func LogFileName(runAt time.Time) string {
	return runAt.Local().Format(logNameLayout)
}

// LogWriter persists a run's transitions to its run log.
type LogWriter struct {
	fs   afero.Fs
	dir  string
	path string
}

// NewLogWriter returns a writer for the run log of runAt inside dir.
func NewLogWriter(fs afero.Fs, dir string, runAt time.Time) *LogWriter {
	return &LogWriter{
		fs:   fs,
		dir:  dir,
		path: filepath.Join(dir, LogFileName(runAt)),
	}
}

// Path returns the run log location.
func (l *LogWriter) Path() string {
	return l.path
}

// WriteEvaluation creates the run log with the waiting and removed sections,
// replacing any file of the same name.
func (l *LogWriter) WriteEvaluation(rep Report) error {
	var b strings.Builder
	b.WriteString("Items still in waiting queue:\n")
	if len(rep.Waiting) == 0 {
		b.WriteString("None\n")
	}
	for _, pending := range rep.Waiting {
		b.WriteString(waitingLine(pending))
		b.WriteByte('\n')
	}

	b.WriteString("\nItems removed from waiting queue:\n")
	writeNumbered(&b, rep.Ready)

	if err := l.fs.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("create run log directory: %w", err)
	}
	if err := afero.WriteFile(l.fs, l.path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write run log: %w", err)
	}
	return nil
}

// AppendAdded appends the added section to the run log.
func (l *LogWriter) AppendAdded(ids []string) error {
	var b strings.Builder
	b.WriteString("\nItems added to waiting queue:\n")
	writeNumbered(&b, ids)

	file, err := l.fs.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open run log: %w", err)
	}
	if _, err := file.WriteString(b.String()); err != nil {
		_ = file.Close()
		return fmt.Errorf("append run log: %w", err)
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("close run log: %w", err)
	}
	return nil
}

func writeNumbered(b *strings.Builder, ids []string) {
	if len(ids) == 0 {
		b.WriteString("None\n")
		return
	}
	for i, id := range ids {
		fmt.Fprintf(b, "%d: %s\n", i+1, id)
	}
}
