// Package main hosts the rotator CLI entrypoint and command graph.
//
// Running rotator with no subcommand performs one rotation cycle against the
// configured item store: it reports what is still waiting, promotes items
// whose dwell has elapsed, and asks the operator for new items. The list and
// config subcommands inspect the store and scaffold configuration.
//
// Keep this package thin. Behavior belongs in the internal packages; commands
// here resolve configuration, build loggers, and hand off.
package main
