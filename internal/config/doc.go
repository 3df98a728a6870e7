// Package config loads, normalizes, and validates clipscribe configuration.
//
// Configuration lives in a TOML file with documented defaults for every
// option. Load resolves the file location, applies defaults, expands paths,
// and validates the result once at construction so the rest of the pipeline
// can trust the values it receives.
package config
