// Package whisper provides local speech transcription by invoking a
// CTranslate2 whisper CLI through uvx.
//
// This package handles:
//   - Building the CLI invocation for a given model/beam/device profile
//   - Parsing the JSON output into raw scored segments
//   - Lazy per-profile service construction via Provider
//
// Two profiles back the pipeline: a fast model for the primary and chunked
// passes, and a higher-accuracy model with a wider beam for per-segment
// retries.
package whisper
