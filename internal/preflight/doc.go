// Package preflight verifies the environment before a transcription run:
// external binaries, directory access, free disk space, and the cloud
// endpoint when one is configured. Checks return results instead of errors so
// callers can render a full report rather than stopping at the first failure.
package preflight
