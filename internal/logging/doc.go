// Package logging builds the slog loggers used across clipscribe.
//
// Two output formats are supported: a human-oriented console format for
// interactive use and line-delimited JSON for machine consumption. Context
// helpers stamp run, stage, and segment identifiers onto log records so the
// pipeline stages produce correlated output without threading loggers
// manually.
package logging
