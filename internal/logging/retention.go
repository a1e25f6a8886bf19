package logging

import (
	"log/slog"
	"path/filepath"
	"time"

	"github.com/spf13/afero"
)

// RetentionTarget names a directory, a glob for the files in it that may be
// pruned, and exact paths that must never be pruned.
type RetentionTarget struct {
	Dir     string
	Pattern string
	Exclude []string
}

// CleanupOldLogs deletes target files last modified more than retentionDays
// before now and returns how many it deleted. retentionDays <= 0 keeps
// everything. Failures are logged and skipped.
func CleanupOldLogs(fsys afero.Fs, logger *slog.Logger, now time.Time, retentionDays int, targets ...RetentionTarget) int {
	if retentionDays <= 0 || fsys == nil {
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	removed := 0
	for _, target := range targets {
		for _, path := range expiredFiles(fsys, target, cutoff) {
			if err := fsys.Remove(path); err != nil {
				WarnWithContext(logger, "failed to prune run log", "log_prune_failed",
					String("path", path),
					Error(err),
					String(FieldErrorHint, "check permissions on the log directory"),
					String(FieldImpact, "old run log stays on disk"),
				)
				continue
			}
			removed++
			if logger != nil {
				logger.Debug("run log pruned", String("path", path), String(FieldEventType, "log_pruned"))
			}
		}
	}
	return removed
}

func expiredFiles(fsys afero.Fs, target RetentionTarget, cutoff time.Time) []string {
	if target.Dir == "" {
		return nil
	}
	pattern := target.Pattern
	if pattern == "" {
		pattern = "*"
	}
	matches, err := afero.Glob(fsys, filepath.Join(target.Dir, pattern))
	if err != nil {
		return nil
	}

	keep := make(map[string]bool, len(target.Exclude))
	for _, path := range target.Exclude {
		keep[filepath.Clean(path)] = true
	}

	var expired []string
	for _, path := range matches {
		if keep[filepath.Clean(path)] {
			continue
		}
		info, err := fsys.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		expired = append(expired, path)
	}
	return expired
}
