// Package services defines shared utilities consumed by the pipeline stages
// and external integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run IDs, stage names, and segment IDs for
//     logging and tracing.
//   - Structured error markers plus the Wrap helper that classify failures
//     into recoverable degradations versus fatal conditions.
//
// Use these helpers when wiring new stage logic so operational behaviour
// (error handling, observability) stays uniform across the pipeline.
package services
