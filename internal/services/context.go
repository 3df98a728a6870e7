package services

import "context"

type contextKey string

const (
	runIDKey     contextKey = "run_id"
	stageKey     contextKey = "stage"
	segmentIDKey contextKey = "segment_id"
)

// WithRunID annotates context with the pipeline run identifier.
func WithRunID(ctx context.Context, id string) context.Context {
	if id == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the pipeline run identifier if present.
func RunIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(runIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithSegmentID annotates context with the segment under escalation.
func WithSegmentID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, segmentIDKey, id)
}

// SegmentIDFromContext extracts the segment identifier if present.
func SegmentIDFromContext(ctx context.Context) (int, bool) {
	v := ctx.Value(segmentIDKey)
	if v == nil {
		return 0, false
	}
	if id, ok := v.(int); ok {
		return id, true
	}
	return 0, false
}
