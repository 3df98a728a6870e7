// Package ffprobe inspects media containers via the ffprobe CLI.
//
// The pipeline uses it as its duration probe: ProbeDuration never returns an
// error, falling back to a documented default so a broken probe cannot stall
// a transcription run.
package ffprobe
