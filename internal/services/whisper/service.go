package whisper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	langpkg "clipscribe/internal/language"
	"clipscribe/internal/segment"
)

// Service runs whisper transcription with a fixed profile.
type Service struct {
	cfg           Config
	uvxBinary     string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a whisper service with the given configuration.
func NewService(cfg Config, uvxBinary string) *Service {
	if uvxBinary == "" {
		uvxBinary = UVXCommand
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	return &Service{cfg: cfg, uvxBinary: uvxBinary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Model returns the configured model name for logging.
func (s *Service) Model() string {
	return s.cfg.Model
}

// Transcribe runs whisper on an audio file and returns raw scored segments.
// outputDir receives the CLI's JSON output; the caller owns its lifecycle.
func (s *Service) Transcribe(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
	if audioPath == "" {
		return nil, fmt.Errorf("transcribe: audio path required")
	}
	if outputDir == "" {
		outputDir = filepath.Dir(audioPath)
	}
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("transcribe: ensure output dir: %w", err)
	}

	args := s.buildArgs(audioPath, outputDir, languageHint)
	if err := s.run(ctx, s.uvxBinary, args...); err != nil {
		return nil, fmt.Errorf("whisper: %w", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	jsonPath := filepath.Join(outputDir, baseName+".json")
	raws, err := LoadRawSegments(jsonPath)
	if err != nil {
		return nil, fmt.Errorf("whisper: load output: %w", err)
	}
	return raws, nil
}

// buildArgs constructs the uvx command arguments.
func (s *Service) buildArgs(audioPath, outputDir, languageHint string) []string {
	args := make([]string, 0, 24)
	args = append(args,
		WhisperTool,
		audioPath,
		"--model", s.cfg.Model,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
	)

	if s.cfg.BeamSize > 0 {
		args = append(args, "--beam_size", strconv.Itoa(s.cfg.BeamSize))
	}
	if s.cfg.Deterministic {
		args = append(args, "--temperature", "0")
	}
	if s.cfg.VADFilter {
		args = append(args, "--vad_filter", "True")
	}
	if lang := langpkg.ToISO2(languageHint); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", "float32")
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
