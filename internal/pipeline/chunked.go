package pipeline

import (
	"context"
	"log/slog"
	"sort"

	"clipscribe/internal/logging"
	"clipscribe/internal/segment"
)

// ChunkedTranscriber is the fallback pass: it splits the media into
// sequential non-overlapping windows and transcribes each independently, so
// one stuck or failing window cannot sink the whole file.
type ChunkedTranscriber struct {
	engine        Transcriber
	extractor     AudioExtractor
	workDir       string
	windowSeconds float64
	logger        *slog.Logger
}

// NewChunkedTranscriber wires a chunked pass with the given window length.
func NewChunkedTranscriber(engine Transcriber, extractor AudioExtractor, workDir string, windowSeconds float64, logger *slog.Logger) *ChunkedTranscriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &ChunkedTranscriber{
		engine:        engine,
		extractor:     extractor,
		workDir:       workDir,
		windowSeconds: windowSeconds,
		logger:        logger,
	}
}

// Run covers [0, durationSec] with no time gaps. Window failures become
// placeholder segments; cancellation between windows fills the remainder
// with placeholders so the coverage invariant holds either way.
func (c *ChunkedTranscriber) Run(ctx context.Context, src MediaSource, durationSec float64) []segment.Segment {
	var segments []segment.Segment
	nextID := 0

	for windowStart := 0.0; windowStart < durationSec; windowStart += c.windowSeconds {
		windowEnd := windowStart + c.windowSeconds
		if windowEnd > durationSec {
			windowEnd = durationSec
		}

		if ctx.Err() != nil {
			c.logger.WarnContext(ctx, "chunked pass cancelled, padding remaining windows",
				logging.Float64("window_start", windowStart))
			placeholders := segment.Placeholders(nextID, segment.TierChunked, windowStart, durationSec)
			return append(segments, placeholders...)
		}

		windowSegs, err := c.transcribeWindow(ctx, src, windowStart, windowEnd)
		if err != nil {
			c.logger.WarnContext(ctx, "window transcription failed, inserting placeholder",
				logging.Float64("window_start", windowStart),
				logging.Float64("window_end", windowEnd),
				logging.Error(err))
			segments = append(segments, segment.Segment{
				ID:         nextID,
				Start:      windowStart,
				End:        windowEnd,
				Tier:       segment.TierChunked,
				Confidence: 0,
			})
			nextID++
			continue
		}
		if len(windowSegs) == 0 {
			segments = append(segments, segment.Segment{
				ID:         nextID,
				Start:      windowStart,
				End:        windowEnd,
				Tier:       segment.TierChunked,
				Confidence: 0,
			})
			nextID++
			continue
		}
		for _, seg := range windowSegs {
			seg.ID = nextID
			segments = append(segments, seg)
			nextID++
		}
	}

	return segments
}

// transcribeWindow extracts one window into a scoped temp clip and
// transcribes it. Timestamps come back window-local and are offset here.
func (c *ChunkedTranscriber) transcribeWindow(ctx context.Context, src MediaSource, windowStart, windowEnd float64) ([]segment.Segment, error) {
	var out []segment.Segment
	err := withTempClip(c.workDir, ".wav", func(clipPath string) error {
		if err := c.extractor.ExtractWAVRange(ctx, src.Path, windowStart, windowEnd-windowStart, clipPath); err != nil {
			return err
		}
		raws, err := c.engine.Transcribe(ctx, clipPath, c.workDir, src.Language)
		if err != nil {
			return err
		}
		sort.SliceStable(raws, func(i, j int) bool { return raws[i].Start < raws[j].Start })
		for _, raw := range raws {
			raw.Start += windowStart
			raw.End += windowStart
			out = append(out, segment.FromRaw(0, segment.TierChunked, raw))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
