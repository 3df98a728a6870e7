package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// WorkDir holds temporary audio clips and whisper output for a run.
	WorkDir string `toml:"work_dir"`
	// LogDir receives the clipscribe log file and the run database.
	LogDir string `toml:"log_dir"`
}

// Transcription contains settings for the local transcription tiers.
type Transcription struct {
	// Model is the primary (fast) whisper model, e.g. "small".
	Model string `toml:"model"`
	// RetryModel is the higher-accuracy model used for tier-2 escalation.
	RetryModel string `toml:"retry_model"`
	// RetryBeamSize is the beam width for tier-2 decoding.
	RetryBeamSize int `toml:"retry_beam_size"`
	// Language is the default language hint passed to the engine.
	Language string `toml:"language"`
	// ChunkLengthSeconds is the window length for the chunked fallback.
	ChunkLengthSeconds int `toml:"chunk_length_seconds"`
	// PrimaryTimeoutFloorSeconds guarantees a minimum primary deadline.
	PrimaryTimeoutFloorSeconds int `toml:"primary_timeout_floor_seconds"`
	// PrimaryTimeoutBufferSeconds is added on top of 2x media duration.
	PrimaryTimeoutBufferSeconds int `toml:"primary_timeout_buffer_seconds"`
	// ConfidenceRetryThreshold classifies segments as low confidence.
	ConfidenceRetryThreshold float64 `toml:"confidence_retry_threshold"`
	// MinSegmentDurationForRetry skips tier-2 for sub-second segments.
	MinSegmentDurationForRetry float64 `toml:"min_segment_duration_for_retry"`
	// VADFilterEnabled toggles voice-activity filtering in the engine.
	VADFilterEnabled bool `toml:"vad_filter_enabled"`
	// CUDAEnabled enables GPU decoding when the engine supports it.
	CUDAEnabled bool `toml:"cuda_enabled"`
}

// Cloud contains settings for the tier-3 external transcription service.
type Cloud struct {
	// Credential is the bearer token; tier 3 is skipped when empty.
	Credential string `toml:"credential"`
	// BaseURL is the transcription endpoint.
	BaseURL string `toml:"base_url"`
	// Model names the remote model to request.
	Model string `toml:"model"`
	// TimeoutSeconds bounds each upload round trip.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// AssumedConfidence is assigned to cloud results since the service
	// returns no confidence signal. Tunable approximation.
	AssumedConfidence float64 `toml:"assumed_confidence"`
	// ConfidenceThreshold gates tier-3 attempts; zero falls back to the
	// retry threshold.
	ConfidenceThreshold float64 `toml:"confidence_threshold"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for clipscribe.
type Config struct {
	Paths         Paths         `toml:"paths"`
	Transcription Transcription `toml:"transcription"`
	Cloud         Cloud         `toml:"cloud"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/clipscribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("clipscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// WriteSample writes the embedded sample configuration to the given path.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, []byte(sampleConfig), 0o644)
}

// EnsureDirectories creates the directories a pipeline run relies on.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.WorkDir, c.Paths.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// CloudEnabled reports whether tier-3 escalation is configured.
func (c *Config) CloudEnabled() bool {
	return strings.TrimSpace(c.Cloud.Credential) != ""
}

// CloudTimeout returns the per-upload deadline for the external service.
func (c *Config) CloudTimeout() time.Duration {
	return time.Duration(c.Cloud.TimeoutSeconds) * time.Second
}

// FFmpegBinary returns the ffmpeg executable name used for audio extraction.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name used for duration probing.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

// UVXBinary returns the uvx executable name used to invoke whisper.
func (c *Config) UVXBinary() string {
	return "uvx"
}

// ExpandPath resolves a leading ~ and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}
