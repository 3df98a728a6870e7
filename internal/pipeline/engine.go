package pipeline

import (
	"context"

	"clipscribe/internal/segment"
)

// MediaSource is an immutable reference to the media under transcription.
// The pipeline only reads it; the caller retains ownership.
type MediaSource struct {
	Path string
	// Duration in seconds; zero or negative means unknown and triggers the
	// duration probe at run start.
	Duration float64
	// Language is an optional hint passed through to the engines.
	Language string
}

// Transcriber is the opaque transcription capability: audio in, raw scored
// segments out. Model internals are outside this package's concern.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error)
}

// EngineProvider lazily loads transcription engines per accuracy tier and
// releases them when the run completes.
type EngineProvider interface {
	// Fast returns the engine for the primary and chunked passes.
	Fast(ctx context.Context) (Transcriber, error)
	// Accurate returns the higher-accuracy engine for retry escalation.
	Accurate(ctx context.Context) (Transcriber, error)
	// Release tears down loaded engines. Called on every run exit path.
	Release()
}

// AudioExtractor produces audio files for the engines to consume.
type AudioExtractor interface {
	ExtractWAV(ctx context.Context, source, dest string) error
	ExtractWAVRange(ctx context.Context, source string, startSec, durationSec float64, dest string) error
	ExtractOpusRange(ctx context.Context, source string, startSec, durationSec float64, dest string) error
}

// CloudTranscriber sends an audio clip to the external tier-3 service.
type CloudTranscriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// DurationProbe resolves a media duration in seconds. Implementations never
// fail; they fall back to a documented default.
type DurationProbe func(ctx context.Context, path string) float64

// Improvement is an accepted replacement for one segment's content produced
// by an escalation tier. Timing is never part of an improvement.
type Improvement struct {
	Text       string
	Confidence float64
	Tier       segment.Tier
}
