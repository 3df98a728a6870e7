package pipeline

import (
	"context"
	"log/slog"

	"clipscribe/internal/logging"
	"clipscribe/internal/segment"
	"clipscribe/internal/services"
)

// Escalator re-transcribes a single low-confidence segment with the
// higher-accuracy engine (tier 2).
type Escalator struct {
	engine      Transcriber
	extractor   AudioExtractor
	workDir     string
	minDuration float64
	logger      *slog.Logger
}

// NewEscalator wires tier-2 escalation. Segments shorter than minDuration
// seconds are skipped; re-processing sub-second audio is not worth the cost.
func NewEscalator(engine Transcriber, extractor AudioExtractor, workDir string, minDuration float64, logger *slog.Logger) *Escalator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Escalator{
		engine:      engine,
		extractor:   extractor,
		workDir:     workDir,
		minDuration: minDuration,
		logger:      logger,
	}
}

// Retry attempts a higher-accuracy transcription of one segment's audio
// range. It returns a non-nil Improvement only when the new confidence
// strictly exceeds the original; nil with nil error means the segment passes
// through untouched to tier-3 consideration. The temp clip is deleted on
// every exit path.
func (e *Escalator) Retry(ctx context.Context, sourcePath string, seg segment.Segment, languageHint string) (*Improvement, error) {
	const stage = "retry"

	if seg.Duration() < e.minDuration {
		e.logger.DebugContext(ctx, "segment below retry duration threshold, skipping",
			logging.Float64("duration_seconds", seg.Duration()))
		return nil, nil
	}

	var improved *Improvement
	err := withTempClip(e.workDir, ".wav", func(clipPath string) error {
		if err := e.extractor.ExtractWAVRange(ctx, sourcePath, seg.Start, seg.Duration(), clipPath); err != nil {
			return services.Wrap(services.ErrExternalTool, stage, "extract clip", "", err)
		}
		raws, err := e.engine.Transcribe(ctx, clipPath, e.workDir, languageHint)
		if err != nil {
			return services.Wrap(services.ErrExternalTool, stage, "transcribe clip", "", err)
		}
		if len(raws) == 0 {
			return nil
		}
		text, confidence := combine(raws)
		if confidence <= seg.Confidence {
			e.logger.DebugContext(ctx, "retry did not improve confidence, keeping original",
				logging.Float64("original", seg.Confidence),
				logging.Float64("retry", confidence))
			return nil
		}
		improved = &Improvement{Text: text, Confidence: confidence, Tier: segment.TierRetry}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return improved, nil
}

// combine collapses a clip's raw segments into one text and a mean
// confidence. A segment clip is short, so a flat mean is adequate.
func combine(raws []segment.Raw) (string, float64) {
	segments := make([]segment.Segment, 0, len(raws))
	for i, raw := range raws {
		segments = append(segments, segment.FromRaw(i, segment.TierRetry, raw))
	}
	return segment.JoinText(segments), segment.MeanConfidence(segments)
}
