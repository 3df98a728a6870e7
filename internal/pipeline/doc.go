// Package pipeline implements the confidence-driven multi-tier transcription
// pipeline.
//
// A run moves through fixed stages: a deadline-bounded primary pass over the
// whole file, a chunked fallback when the primary times out, confidence
// classification, per-segment retry with a higher-accuracy model, an optional
// cloud escalation for segments that remain below threshold, and a final
// merge that folds improvements back into the ordered segment list.
//
// Stage-local failures degrade gracefully: the caller always receives a
// complete result covering the full media duration unless no transcription
// engine can be loaded at all.
package pipeline
