package pipeline

import (
	"context"
	"sync"

	"clipscribe/internal/config"
	"clipscribe/internal/segment"
)

// stubEngine delegates to a function so each test controls transcription
// output per call.
type stubEngine struct {
	fn func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error)
}

func (s *stubEngine) Transcribe(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
	return s.fn(ctx, audioPath, outputDir, languageHint)
}

type stubProvider struct {
	fast        Transcriber
	accurate    Transcriber
	fastErr     error
	accurateErr error

	mu       sync.Mutex
	released bool
}

func (s *stubProvider) Fast(ctx context.Context) (Transcriber, error) {
	return s.fast, s.fastErr
}

func (s *stubProvider) Accurate(ctx context.Context) (Transcriber, error) {
	return s.accurate, s.accurateErr
}

func (s *stubProvider) Release() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.released = true
}

func (s *stubProvider) Released() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.released
}

// stubExtractor records extraction ranges and injects failures.
type stubExtractor struct {
	wavErr   error
	rangeErr error
	opusErr  error

	mu     sync.Mutex
	ranges [][2]float64
}

func (s *stubExtractor) ExtractWAV(ctx context.Context, source, dest string) error {
	return s.wavErr
}

func (s *stubExtractor) ExtractWAVRange(ctx context.Context, source string, startSec, durationSec float64, dest string) error {
	s.mu.Lock()
	s.ranges = append(s.ranges, [2]float64{startSec, durationSec})
	s.mu.Unlock()
	return s.rangeErr
}

func (s *stubExtractor) ExtractOpusRange(ctx context.Context, source string, startSec, durationSec float64, dest string) error {
	return s.opusErr
}

type stubCloud struct {
	text string
	err  error

	mu    sync.Mutex
	calls int
}

func (s *stubCloud) Transcribe(ctx context.Context, audioPath string) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.text, s.err
}

func (s *stubCloud) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func fixedProbe(seconds float64) DurationProbe {
	return func(ctx context.Context, path string) float64 { return seconds }
}

func testConfig(workDir string) *config.Config {
	cfg := config.Default()
	cfg.Paths.WorkDir = workDir
	cfg.Cloud.ConfidenceThreshold = cfg.Transcription.ConfidenceRetryThreshold
	return &cfg
}

// rawWithConfidence builds a raw segment whose derived confidence equals the
// given score, assuming zero no-speech probability.
func rawWithConfidence(start, end float64, text string, confidence float64) segment.Raw {
	return segment.Raw{
		Start:      start,
		End:        end,
		Text:       text,
		AvgLogProb: confidence - 1.0,
	}
}
