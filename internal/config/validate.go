package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateTranscription(); err != nil {
		return err
	}
	if err := c.validateCloud(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateTranscription() error {
	t := c.Transcription
	if err := ensurePositiveMap(map[string]int{
		"transcription.chunk_length_seconds":           t.ChunkLengthSeconds,
		"transcription.primary_timeout_floor_seconds":  t.PrimaryTimeoutFloorSeconds,
		"transcription.primary_timeout_buffer_seconds": t.PrimaryTimeoutBufferSeconds,
		"transcription.retry_beam_size":                t.RetryBeamSize,
	}); err != nil {
		return err
	}
	if t.ConfidenceRetryThreshold < 0 || t.ConfidenceRetryThreshold > 1 {
		return errors.New("transcription.confidence_retry_threshold must be between 0 and 1")
	}
	if t.MinSegmentDurationForRetry < 0 {
		return errors.New("transcription.min_segment_duration_for_retry must not be negative")
	}
	if t.Model == t.RetryModel {
		return errors.New("transcription.retry_model must differ from transcription.model")
	}
	return nil
}

func (c *Config) validateCloud() error {
	if c.Cloud.TimeoutSeconds <= 0 {
		return errors.New("cloud.timeout_seconds must be positive")
	}
	if c.Cloud.AssumedConfidence < 0 || c.Cloud.AssumedConfidence > 1 {
		return errors.New("cloud.assumed_confidence must be between 0 and 1")
	}
	if c.Cloud.ConfidenceThreshold < 0 || c.Cloud.ConfidenceThreshold > 1 {
		return errors.New("cloud.confidence_threshold must be between 0 and 1")
	}
	if c.CloudEnabled() && c.Cloud.BaseURL == "" {
		return errors.New("cloud.base_url must be set when a credential is configured")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
