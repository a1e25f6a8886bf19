// Package report renders the outcome of a rotation run.
//
// A Report lists the items still waiting (with time left), the items that
// finished waiting this run, and the items added this run. The console
// renderers write the operator-facing text; LogWriter persists the same
// lists to a per-run log file with three fixed sections, each reading "None"
// when empty.
package report
