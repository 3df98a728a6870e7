package audio

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// Extractor runs ffmpeg audio extraction. The zero value is not usable;
// construct with NewExtractor.
type Extractor struct {
	binary string
	runner func(ctx context.Context, name string, args ...string) error
}

// NewExtractor creates an Extractor using the given ffmpeg binary name.
func NewExtractor(binary string) *Extractor {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	return &Extractor{binary: binary}
}

// WithRunner sets a custom command runner (for testing).
func (e *Extractor) WithRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.runner = runner
}

// ExtractWAV extracts the full audio stream as mono 16kHz PCM WAV, the
// shape the local whisper tiers expect.
func (e *Extractor) ExtractWAV(ctx context.Context, source, dest string) error {
	args := wavArgs(source, -1, -1, dest)
	return e.run(ctx, args)
}

// ExtractWAVRange extracts [startSec, startSec+durationSec) as mono 16kHz WAV.
func (e *Extractor) ExtractWAVRange(ctx context.Context, source string, startSec, durationSec float64, dest string) error {
	if durationSec <= 0 {
		return fmt.Errorf("extract range: invalid duration %v", durationSec)
	}
	args := wavArgs(source, startSec, durationSec, dest)
	return e.run(ctx, args)
}

// ExtractOpusRange extracts a time range as mono Opus-in-OGG, sized for
// upload to an external transcription service.
func (e *Extractor) ExtractOpusRange(ctx context.Context, source string, startSec, durationSec float64, dest string) error {
	if durationSec <= 0 {
		return fmt.Errorf("extract compressed range: invalid duration %v", durationSec)
	}
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-ss", formatSeconds(startSec),
		"-t", formatSeconds(durationSec),
		"-i", source,
		"-vn", "-sn", "-dn",
		"-ac", "1",
		"-c:a", "libopus",
		"-b:a", "24k",
		dest,
	}
	return e.run(ctx, args)
}

func wavArgs(source string, startSec, durationSec float64, dest string) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
	}
	if startSec >= 0 && durationSec > 0 {
		args = append(args,
			"-ss", formatSeconds(startSec),
			"-t", formatSeconds(durationSec),
		)
	}
	args = append(args,
		"-i", source,
		"-vn", "-sn", "-dn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	)
	return args
}

func formatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', 3, 64)
}

func (e *Extractor) run(ctx context.Context, args []string) error {
	if e.runner != nil {
		return e.runner(ctx, e.binary, args...)
	}
	cmd := exec.CommandContext(ctx, e.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg extract: %w: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}
