package pipeline

import (
	"context"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"clipscribe/internal/logging"
	"clipscribe/internal/segment"
	"clipscribe/internal/services"
)

// PrimaryOutcome tags the result of the primary pass so the orchestrator can
// branch explicitly instead of intercepting errors.
type PrimaryOutcome int

const (
	PrimarySucceeded PrimaryOutcome = iota
	PrimaryTimedOut
	PrimaryFailed
)

// PrimaryResult is the tagged outcome of a primary transcription attempt.
type PrimaryResult struct {
	Outcome  PrimaryOutcome
	Segments []segment.Segment
	Err      error
}

// PrimaryTranscriber runs one full-file transcription attempt under an
// enforceable deadline.
type PrimaryTranscriber struct {
	engine    Transcriber
	extractor AudioExtractor
	workDir   string
	floor     time.Duration
	buffer    time.Duration
	logger    *slog.Logger

	// abandonSlots bounds how many expired attempts may still be running in
	// the background; the underlying engine call is not cancellable.
	abandonSlots chan struct{}
}

// NewPrimaryTranscriber wires a primary pass. floor guarantees a minimum
// deadline; buffer is added on top of twice the media duration.
func NewPrimaryTranscriber(engine Transcriber, extractor AudioExtractor, workDir string, floor, buffer time.Duration, slots chan struct{}, logger *slog.Logger) *PrimaryTranscriber {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &PrimaryTranscriber{
		engine:       engine,
		extractor:    extractor,
		workDir:      workDir,
		floor:        floor,
		buffer:       buffer,
		abandonSlots: slots,
		logger:       logger,
	}
}

// Deadline computes the primary-pass deadline for a media duration: long
// inputs get proportionally more time, short inputs a guaranteed minimum.
func (p *PrimaryTranscriber) Deadline(durationSec float64) time.Duration {
	scaled := time.Duration(2*durationSec*float64(time.Second)) + p.buffer
	if scaled < p.floor {
		return p.floor
	}
	return scaled
}

// Run attempts a full-file transcription. On deadline expiry the attempt is
// abandoned: Run returns immediately and the background attempt's eventual
// output is discarded.
func (p *PrimaryTranscriber) Run(ctx context.Context, src MediaSource, durationSec float64) PrimaryResult {
	const stage = "primary"

	wavPath := filepath.Join(p.workDir, "full.wav")
	if err := p.extractor.ExtractWAV(ctx, src.Path, wavPath); err != nil {
		return PrimaryResult{
			Outcome: PrimaryFailed,
			Err:     services.Wrap(services.ErrExternalTool, stage, "extract audio", "", err),
		}
	}

	select {
	case p.abandonSlots <- struct{}{}:
	default:
		return PrimaryResult{
			Outcome: PrimaryFailed,
			Err: services.Wrap(services.ErrTransient, stage, "start attempt",
				"too many abandoned attempts still running", nil),
		}
	}

	type attemptResult struct {
		raws []segment.Raw
		err  error
	}
	resultCh := make(chan attemptResult, 1)

	// The engine call cannot be interrupted once started, so it runs
	// detached from the run context. The slot is released only when the
	// call actually returns.
	go func() {
		defer func() { <-p.abandonSlots }()
		raws, err := p.engine.Transcribe(context.WithoutCancel(ctx), wavPath, p.workDir, src.Language)
		resultCh <- attemptResult{raws: raws, err: err}
	}()

	deadline := p.Deadline(durationSec)
	timer := time.NewTimer(deadline)
	defer timer.Stop()

	select {
	case res := <-resultCh:
		if res.err != nil {
			return PrimaryResult{
				Outcome: PrimaryFailed,
				Err:     services.Wrap(services.ErrExternalTool, stage, "transcribe", "", res.err),
			}
		}
		return PrimaryResult{
			Outcome:  PrimarySucceeded,
			Segments: p.assemble(ctx, res.raws, durationSec),
		}
	case <-timer.C:
		p.logger.WarnContext(ctx, "primary attempt exceeded deadline, abandoning",
			logging.Duration("deadline", deadline))
		return PrimaryResult{
			Outcome: PrimaryTimedOut,
			Err:     services.Wrap(services.ErrTimeout, stage, "transcribe", "deadline exceeded", nil),
		}
	case <-ctx.Done():
		return PrimaryResult{
			Outcome: PrimaryTimedOut,
			Err:     services.Wrap(services.ErrTimeout, stage, "transcribe", "run cancelled", ctx.Err()),
		}
	}
}

// assemble scores, orders, and numbers the raw output. Zero raw segments
// degrade to placeholder coverage so downstream stages always have input.
func (p *PrimaryTranscriber) assemble(ctx context.Context, raws []segment.Raw, durationSec float64) []segment.Segment {
	if len(raws) == 0 {
		p.logger.WarnContext(ctx, "primary attempt returned no segments, synthesizing placeholders",
			logging.Float64("duration_seconds", durationSec))
		return segment.Placeholders(0, segment.TierPrimary, 0, durationSec)
	}
	sort.SliceStable(raws, func(i, j int) bool { return raws[i].Start < raws[j].Start })
	segments := make([]segment.Segment, 0, len(raws))
	for i, raw := range raws {
		segments = append(segments, segment.FromRaw(i, segment.TierPrimary, raw))
	}
	return segments
}
