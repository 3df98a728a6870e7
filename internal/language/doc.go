// Package language normalizes user-supplied language hints.
//
// Whisper-style engines expect ISO 639-1 two-letter codes, while callers may
// pass anything from "en" to "eng" to "English" to a full BCP 47 tag. All
// conversions are consolidated here so the transcription and cloud packages
// never deal with raw hints.
package language
