package logging

import (
	"context"
	"log/slog"

	"clipscribe/internal/services"
)

const (
	// FieldRunID is the standardized structured logging key for pipeline run identifiers.
	FieldRunID = "run_id"
	// FieldStage is the standardized structured logging key for pipeline stage names.
	FieldStage = "stage"
	// FieldSegmentID is the standardized structured logging key for segment identifiers.
	FieldSegmentID = "segment_id"
	// FieldTier is the standardized structured logging key for escalation tiers.
	FieldTier = "tier"
)

// ContextFields extracts standardized slog attributes from the provided context.
func ContextFields(ctx context.Context) []slog.Attr {
	if ctx == nil {
		return nil
	}
	fields := make([]slog.Attr, 0, 3)
	if id, ok := services.RunIDFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldRunID, id))
	}
	if stage, ok := services.StageFromContext(ctx); ok {
		fields = append(fields, slog.String(FieldStage, stage))
	}
	if seg, ok := services.SegmentIDFromContext(ctx); ok {
		fields = append(fields, slog.Int(FieldSegmentID, seg))
	}
	return fields
}

// contextHandler appends the standardized context fields to every record, so
// run, stage, and segment stamps reach the output of any inner handler when
// callers use the Context logging variants.
type contextHandler struct {
	inner slog.Handler
}

func withContextFields(inner slog.Handler) slog.Handler {
	return contextHandler{inner: inner}
}

func (h contextHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h contextHandler) Handle(ctx context.Context, record slog.Record) error {
	if fields := ContextFields(ctx); len(fields) > 0 {
		record = record.Clone()
		record.AddAttrs(fields...)
	}
	return h.inner.Handle(ctx, record)
}

func (h contextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return contextHandler{inner: h.inner.WithAttrs(attrs)}
}

func (h contextHandler) WithGroup(name string) slog.Handler {
	return contextHandler{inner: h.inner.WithGroup(name)}
}
