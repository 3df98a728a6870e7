package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefaultsValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatalf("normalize: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.CloudEnabled() {
		t.Fatal("cloud should be disabled without a credential")
	}
	if cfg.Cloud.ConfidenceThreshold != cfg.Transcription.ConfidenceRetryThreshold {
		t.Fatalf("cloud threshold %v should fall back to retry threshold %v",
			cfg.Cloud.ConfidenceThreshold, cfg.Transcription.ConfidenceRetryThreshold)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nope.toml")
	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if exists {
		t.Fatal("expected missing file")
	}
	if resolved != path {
		t.Fatalf("resolved path %q, want %q", resolved, path)
	}
	if cfg.Transcription.ChunkLengthSeconds != 300 {
		t.Fatalf("chunk length %d, want default 300", cfg.Transcription.ChunkLengthSeconds)
	}
}

func TestLoadOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[transcription]
model = "base"
chunk_length_seconds = 120
confidence_retry_threshold = 0.5

[cloud]
credential = "secret"
timeout_seconds = 30
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, _, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Transcription.Model != "base" {
		t.Fatalf("model %q", cfg.Transcription.Model)
	}
	if cfg.Transcription.ChunkLengthSeconds != 120 {
		t.Fatalf("chunk length %d", cfg.Transcription.ChunkLengthSeconds)
	}
	if !cfg.CloudEnabled() {
		t.Fatal("expected cloud enabled with credential")
	}
	if cfg.Cloud.TimeoutSeconds != 30 {
		t.Fatalf("cloud timeout %d", cfg.Cloud.TimeoutSeconds)
	}
	if cfg.Cloud.ConfidenceThreshold != 0.5 {
		t.Fatalf("cloud threshold %v, want retry threshold fallback 0.5", cfg.Cloud.ConfidenceThreshold)
	}
	if cfg.Transcription.RetryModel != "large-v3" {
		t.Fatalf("retry model %q, want default", cfg.Transcription.RetryModel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{
			"threshold above one",
			func(c *Config) { c.Transcription.ConfidenceRetryThreshold = 1.5 },
			"confidence_retry_threshold",
		},
		{
			"negative retry duration",
			func(c *Config) { c.Transcription.MinSegmentDurationForRetry = -1 },
			"min_segment_duration_for_retry",
		},
		{
			"same retry model",
			func(c *Config) { c.Transcription.RetryModel = c.Transcription.Model },
			"retry_model",
		},
		{
			"bad assumed confidence",
			func(c *Config) { c.Cloud.AssumedConfidence = 2 },
			"assumed_confidence",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			if err := cfg.normalize(); err != nil {
				t.Fatalf("normalize: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q missing %q", err.Error(), tc.want)
			}
		})
	}
}

func TestWriteSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.toml")
	if err := WriteSample(path); err != nil {
		t.Fatalf("WriteSample: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[transcription]") {
		t.Fatal("sample missing transcription section")
	}
}
