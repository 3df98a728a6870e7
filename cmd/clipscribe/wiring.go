package main

import (
	"context"
	"time"

	"clipscribe/internal/pipeline"
	"clipscribe/internal/services/whisper"
)

// timeRounding trims elapsed-time output to a readable precision.
const timeRounding = 100 * time.Millisecond

// engineProvider adapts the whisper provider to the pipeline's engine
// interface.
type engineProvider struct {
	inner *whisper.Provider
}

func (e engineProvider) Fast(ctx context.Context) (pipeline.Transcriber, error) {
	svc, err := e.inner.Engine(ctx, whisper.ProfileFast)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (e engineProvider) Accurate(ctx context.Context) (pipeline.Transcriber, error) {
	svc, err := e.inner.Engine(ctx, whisper.ProfileAccurate)
	if err != nil {
		return nil, err
	}
	return svc, nil
}

func (e engineProvider) Release() {
	e.inner.Release()
}

// truncateText shortens text to max runes. Slicing on runes keeps multi-byte
// characters in transcripts intact.
func truncateText(text string, max int) string {
	if max <= 3 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}
