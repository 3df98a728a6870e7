package config

import "strings"

// normalize expands paths and backfills empty values with defaults so the
// validated config never carries blank required fields.
func (c *Config) normalize() error {
	defaults := Default()

	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaults.Paths.WorkDir
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaults.Paths.LogDir
	}

	var err error
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return err
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return err
	}

	if strings.TrimSpace(c.Transcription.Model) == "" {
		c.Transcription.Model = defaults.Transcription.Model
	}
	if strings.TrimSpace(c.Transcription.RetryModel) == "" {
		c.Transcription.RetryModel = defaults.Transcription.RetryModel
	}
	if c.Transcription.RetryBeamSize == 0 {
		c.Transcription.RetryBeamSize = defaults.Transcription.RetryBeamSize
	}
	if c.Transcription.ChunkLengthSeconds == 0 {
		c.Transcription.ChunkLengthSeconds = defaults.Transcription.ChunkLengthSeconds
	}
	if c.Transcription.PrimaryTimeoutFloorSeconds == 0 {
		c.Transcription.PrimaryTimeoutFloorSeconds = defaults.Transcription.PrimaryTimeoutFloorSeconds
	}
	if c.Transcription.PrimaryTimeoutBufferSeconds == 0 {
		c.Transcription.PrimaryTimeoutBufferSeconds = defaults.Transcription.PrimaryTimeoutBufferSeconds
	}
	if c.Transcription.ConfidenceRetryThreshold == 0 {
		c.Transcription.ConfidenceRetryThreshold = defaults.Transcription.ConfidenceRetryThreshold
	}
	if c.Transcription.MinSegmentDurationForRetry == 0 {
		c.Transcription.MinSegmentDurationForRetry = defaults.Transcription.MinSegmentDurationForRetry
	}

	if strings.TrimSpace(c.Cloud.BaseURL) == "" {
		c.Cloud.BaseURL = defaults.Cloud.BaseURL
	}
	if strings.TrimSpace(c.Cloud.Model) == "" {
		c.Cloud.Model = defaults.Cloud.Model
	}
	if c.Cloud.TimeoutSeconds == 0 {
		c.Cloud.TimeoutSeconds = defaults.Cloud.TimeoutSeconds
	}
	if c.Cloud.AssumedConfidence == 0 {
		c.Cloud.AssumedConfidence = defaults.Cloud.AssumedConfidence
	}
	if c.Cloud.ConfidenceThreshold == 0 {
		c.Cloud.ConfidenceThreshold = c.Transcription.ConfidenceRetryThreshold
	}

	if strings.TrimSpace(c.Logging.Format) == "" {
		c.Logging.Format = defaults.Logging.Format
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaults.Logging.Level
	}

	return nil
}
