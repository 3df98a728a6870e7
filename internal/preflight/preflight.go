package preflight

import (
	"context"

	"clipscribe/internal/config"
	"clipscribe/internal/deps"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// MinimumFreeBytes is the free space the work directory needs before a run.
// Full-file WAV extraction of long media is the dominant consumer.
const MinimumFreeBytes = 2 << 30

// RunAll executes all applicable preflight checks for the given config.
// Checks are only run when the corresponding feature is enabled.
func RunAll(ctx context.Context, cfg *config.Config) []Result {
	if cfg == nil {
		return nil
	}

	var results []Result

	results = append(results, CheckDirectoryAccess("Work directory", cfg.Paths.WorkDir))
	results = append(results, CheckDirectoryAccess("Log directory", cfg.Paths.LogDir))
	results = append(results, CheckDiskSpace("Work directory space", cfg.Paths.WorkDir, MinimumFreeBytes))

	if cfg.CloudEnabled() {
		results = append(results, CheckCloudService(ctx, cfg.Cloud.BaseURL, cfg.Cloud.Credential))
	}

	return results
}

// CheckSystemDeps evaluates the external binaries the pipeline executes.
func CheckSystemDeps(cfg *config.Config) []deps.Status {
	requirements := []deps.Requirement{
		{
			Name:        "FFmpeg",
			Command:     cfg.FFmpegBinary(),
			Description: "Required for audio extraction",
		},
		{
			Name:        "FFprobe",
			Command:     cfg.FFprobeBinary(),
			Description: "Required for media duration probing",
		},
		{
			Name:        "uvx",
			Command:     cfg.UVXBinary(),
			Description: "Required to run the local transcription engine",
		},
	}
	return deps.CheckBinaries(requirements)
}
