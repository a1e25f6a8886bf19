// Package config loads, normalizes, and validates rotator configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours the ROTATOR_DWELL environment
// override. The Config type centralizes the data and log directories, the
// dwell duration every queued item must wait out, and logging options.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths and a validated dwell duration.
package config
