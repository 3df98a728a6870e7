package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"clipscribe/internal/config"
	"clipscribe/internal/logging"
	"clipscribe/internal/segment"
	"clipscribe/internal/services"
)

// maxAbandonedAttempts bounds how many expired primary attempts may still be
// draining in the background across runs of one orchestrator.
const maxAbandonedAttempts = 2

// Orchestrator drives a complete transcription run: primary pass, chunked
// fallback, confidence classification, and the escalation tiers.
type Orchestrator struct {
	cfg       *config.Config
	engines   EngineProvider
	extractor AudioExtractor
	cloud     CloudTranscriber // nil when tier 3 is not configured
	probe     DurationProbe
	logger    *slog.Logger

	abandonSlots chan struct{}
}

// NewOrchestrator wires a pipeline from its collaborators. cloud may be nil;
// tier 3 is then skipped entirely.
func NewOrchestrator(cfg *config.Config, engines EngineProvider, extractor AudioExtractor, cloud CloudTranscriber, probe DurationProbe, logger *slog.Logger) *Orchestrator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Orchestrator{
		cfg:          cfg,
		engines:      engines,
		extractor:    extractor,
		cloud:        cloud,
		probe:        probe,
		logger:       logger,
		abandonSlots: make(chan struct{}, maxAbandonedAttempts),
	}
}

// RunReport carries the run identifier and timing alongside the result so
// callers can persist and display the run.
type RunReport struct {
	RunID   string
	Media   string
	Result  segment.Result
	Elapsed time.Duration
}

// Run executes the full pipeline for one media source. Engines are released
// and the per-run scratch directory removed on every exit path. Cancellation
// mid-escalation returns the partial result accumulated so far; the only
// error that aborts a run outright is an unavailable transcription engine.
func (o *Orchestrator) Run(ctx context.Context, src MediaSource) (*RunReport, error) {
	runID := uuid.NewString()
	ctx = services.WithRunID(ctx, runID)
	logger := o.logger
	start := time.Now()

	defer o.engines.Release()

	runDir := filepath.Join(o.cfg.Paths.WorkDir, runID)
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, fmt.Errorf("create run directory: %w", err)
	}
	defer os.RemoveAll(runDir)

	duration := src.Duration
	if duration <= 0 {
		duration = o.probe(ctx, src.Path)
		logger.DebugContext(ctx, "probed media duration", logging.Float64("duration_seconds", duration))
	}

	language := src.Language
	if language == "" {
		language = o.cfg.Transcription.Language
	}
	src.Language = language

	fast, err := o.engines.Fast(ctx)
	if err != nil {
		return nil, err
	}

	segments := o.transcribe(ctx, fast, src, runDir, duration, logger)

	threshold := o.cfg.Transcription.ConfidenceRetryThreshold
	low := LowConfidence(segments, threshold)
	logger.InfoContext(ctx, "classified segments",
		logging.Int("total", len(segments)),
		logging.Int("low_confidence", len(low)),
		logging.Float64("threshold", threshold))

	improvements := make(map[int]Improvement)
	o.escalateLocal(ctx, src, runDir, low, improvements, logger)
	o.escalateCloud(ctx, src, runDir, low, improvements, logger)

	merged, applied := MergeImprovements(segments, improvements)
	result := segment.BuildResult(language, merged, threshold, applied)

	report := &RunReport{
		RunID:   runID,
		Media:   src.Path,
		Result:  result,
		Elapsed: time.Since(start),
	}
	logger.InfoContext(ctx, "run complete",
		logging.Int("segments", len(merged)),
		logging.Int("improvements_applied", applied),
		logging.Float64("aggregate_confidence", result.AggregateConfidence),
		logging.Duration("elapsed", report.Elapsed))
	return report, nil
}

// transcribe runs the primary pass and falls back to the chunked pass over
// the entire media on timeout or failure. It always returns full coverage.
func (o *Orchestrator) transcribe(ctx context.Context, fast Transcriber, src MediaSource, runDir string, duration float64, logger *slog.Logger) []segment.Segment {
	floor := time.Duration(o.cfg.Transcription.PrimaryTimeoutFloorSeconds) * time.Second
	buffer := time.Duration(o.cfg.Transcription.PrimaryTimeoutBufferSeconds) * time.Second

	primary := NewPrimaryTranscriber(fast, o.extractor, runDir, floor, buffer, o.abandonSlots, logger)
	res := primary.Run(services.WithStage(ctx, "primary"), src, duration)
	if res.Outcome == PrimarySucceeded {
		return res.Segments
	}

	logger.WarnContext(ctx, "primary pass did not complete, falling back to chunked pass",
		logging.Error(res.Err))
	chunked := NewChunkedTranscriber(fast, o.extractor, runDir, float64(o.cfg.Transcription.ChunkLengthSeconds), logger)
	return chunked.Run(services.WithStage(ctx, "chunked"), src, duration)
}

// escalateLocal runs tier 2 sequentially over the low-confidence set.
// Individual failures are logged and skipped; only an unloadable engine
// cancels the tier, and cancellation between attempts stops it early.
func (o *Orchestrator) escalateLocal(ctx context.Context, src MediaSource, runDir string, low []segment.Segment, improvements map[int]Improvement, logger *slog.Logger) {
	if len(low) == 0 || ctx.Err() != nil {
		return
	}

	accurate, err := o.engines.Accurate(ctx)
	if err != nil {
		logger.Warn("accurate engine unavailable, skipping local escalation", logging.Error(err))
		return
	}

	escalator := NewEscalator(accurate, o.extractor, runDir, o.cfg.Transcription.MinSegmentDurationForRetry, logger)
	for _, seg := range low {
		segCtx := services.WithSegmentID(services.WithStage(ctx, "retry"), seg.ID)
		if ctx.Err() != nil {
			logger.WarnContext(segCtx, "local escalation cancelled")
			return
		}
		improvement, err := escalator.Retry(segCtx, src.Path, seg, src.Language)
		if err != nil {
			logger.WarnContext(segCtx, "local escalation attempt failed", logging.Error(err))
			continue
		}
		if improvement != nil {
			improvements[seg.ID] = *improvement
			logger.InfoContext(segCtx, "local escalation improved segment",
				logging.Float64("confidence", improvement.Confidence))
		}
	}
}

// escalateCloud runs tier 3 over segments still below the cloud threshold
// after tier 2. Service errors never escape; a failed upload just leaves the
// segment as is.
func (o *Orchestrator) escalateCloud(ctx context.Context, src MediaSource, runDir string, low []segment.Segment, improvements map[int]Improvement, logger *slog.Logger) {
	if o.cloud == nil || len(low) == 0 || ctx.Err() != nil {
		return
	}

	threshold := o.cfg.Cloud.ConfidenceThreshold
	escalator := NewCloudEscalator(o.cloud, o.extractor, runDir, o.cfg.Cloud.AssumedConfidence, logger)
	for _, seg := range low {
		segCtx := services.WithSegmentID(services.WithStage(ctx, "cloud"), seg.ID)
		if ctx.Err() != nil {
			logger.WarnContext(segCtx, "cloud escalation cancelled")
			return
		}
		if improvement, ok := improvements[seg.ID]; ok {
			seg.Confidence = improvement.Confidence
		}
		if seg.Confidence >= threshold {
			continue
		}
		improvement, err := escalator.Retry(segCtx, src.Path, seg)
		if err != nil {
			logger.WarnContext(segCtx, "cloud escalation attempt failed", logging.Error(err))
			continue
		}
		if improvement != nil {
			improvements[seg.ID] = *improvement
			logger.InfoContext(segCtx, "cloud escalation improved segment",
				logging.Float64("confidence", improvement.Confidence))
		}
	}
}
