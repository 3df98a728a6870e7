// Package segment defines the transcript data model shared across the
// transcription pipeline: time-stamped segments, their escalation tier,
// confidence scoring, and the assembled transcription result.
//
// Segments are created once by the primary or chunked pass and only ever
// mutated in place (text, confidence, tier) by the merge step. They are
// never deleted or reordered after creation.
package segment
