package config

const (
	defaultWorkDir = "~/.local/share/clipscribe/work"
	defaultLogDir  = "~/.local/share/clipscribe/logs"

	defaultModel                       = "small"
	defaultRetryModel                  = "large-v3"
	defaultRetryBeamSize               = 10
	defaultLanguage                    = "en"
	defaultChunkLengthSeconds          = 300
	defaultPrimaryTimeoutFloorSeconds  = 600
	defaultPrimaryTimeoutBufferSeconds = 300
	defaultConfidenceRetryThreshold    = 0.7
	defaultMinSegmentDurationForRetry  = 1.0

	defaultCloudBaseURL        = "https://api.openai.com/v1/audio/transcriptions"
	defaultCloudModel          = "whisper-1"
	defaultCloudTimeoutSeconds = 60
	// Approximation: the external service does not report confidence, so
	// accepted cloud results carry this fixed score.
	defaultAssumedCloudConfidence = 0.85

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WorkDir: defaultWorkDir,
			LogDir:  defaultLogDir,
		},
		Transcription: Transcription{
			Model:                       defaultModel,
			RetryModel:                  defaultRetryModel,
			RetryBeamSize:               defaultRetryBeamSize,
			Language:                    defaultLanguage,
			ChunkLengthSeconds:          defaultChunkLengthSeconds,
			PrimaryTimeoutFloorSeconds:  defaultPrimaryTimeoutFloorSeconds,
			PrimaryTimeoutBufferSeconds: defaultPrimaryTimeoutBufferSeconds,
			ConfidenceRetryThreshold:    defaultConfidenceRetryThreshold,
			MinSegmentDurationForRetry:  defaultMinSegmentDurationForRetry,
			VADFilterEnabled:            true,
		},
		Cloud: Cloud{
			BaseURL:           defaultCloudBaseURL,
			Model:             defaultCloudModel,
			TimeoutSeconds:    defaultCloudTimeoutSeconds,
			AssumedConfidence: defaultAssumedCloudConfidence,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
