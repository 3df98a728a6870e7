package pipeline

import (
	"context"
	"log/slog"

	"clipscribe/internal/logging"
	"clipscribe/internal/segment"
	"clipscribe/internal/services"
)

// CloudEscalator sends still-low-confidence segments to the external
// transcription service (tier 3).
type CloudEscalator struct {
	client            CloudTranscriber
	extractor         AudioExtractor
	workDir           string
	assumedConfidence float64
	logger            *slog.Logger
}

// NewCloudEscalator wires tier-3 escalation. The external service returns no
// confidence score, so accepted results carry assumedConfidence — a
// documented approximation, tunable via configuration.
func NewCloudEscalator(client CloudTranscriber, extractor AudioExtractor, workDir string, assumedConfidence float64, logger *slog.Logger) *CloudEscalator {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &CloudEscalator{
		client:            client,
		extractor:         extractor,
		workDir:           workDir,
		assumedConfidence: assumedConfidence,
		logger:            logger,
	}
}

// Retry uploads a compressed sub-clip of the segment. Any service failure
// (auth, rate limit, network, timeout) returns a nil Improvement with the
// classified error; the caller treats it as "no improvement". The temp clip
// is deleted on every exit path.
func (c *CloudEscalator) Retry(ctx context.Context, sourcePath string, seg segment.Segment) (*Improvement, error) {
	const stage = "cloud"

	var improved *Improvement
	err := withTempClip(c.workDir, ".ogg", func(clipPath string) error {
		if err := c.extractor.ExtractOpusRange(ctx, sourcePath, seg.Start, seg.Duration(), clipPath); err != nil {
			return services.Wrap(services.ErrExternalTool, stage, "extract clip", "", err)
		}
		text, err := c.client.Transcribe(ctx, clipPath)
		if err != nil {
			return err
		}
		if text == "" {
			return nil
		}
		if c.assumedConfidence <= seg.Confidence {
			return nil
		}
		improved = &Improvement{Text: text, Confidence: c.assumedConfidence, Tier: segment.TierCloud}
		return nil
	})
	if err != nil {
		c.logger.DebugContext(ctx, "cloud escalation yielded no improvement",
			logging.Error(err))
		return nil, err
	}
	return improved, nil
}
