// Package logging assembles structured slog loggers and formatting helpers used
// across rotator.
//
// It owns the console (key=value) and JSON handlers, centralizes level and
// output plumbing, and exposes context-aware helpers so run code can tag log
// lines with the run identifier. The package also provides a no-op logger for
// tests and retention pruning for per-run log files.
package logging
