// Package audio extracts audio from media containers via the ffmpeg CLI.
//
// Two output shapes are supported: mono 16kHz WAV for the local whisper
// tiers, and compressed Opus for uploads to the cloud tier. Time-range
// extraction backs per-segment escalation clips.
package audio
