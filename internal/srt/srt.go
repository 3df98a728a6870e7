// Package srt renders transcription segments as SubRip subtitle files.
package srt

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"os"
	"strings"

	"clipscribe/internal/segment"
)

// Write renders segments as SRT cues in segment order. Segments with empty
// text are skipped; SRT players have no use for silent cues.
func Write(w io.Writer, segments []segment.Segment) error {
	buf := bufio.NewWriter(w)
	cue := 1
	for _, seg := range segments {
		text := strings.TrimSpace(seg.Text)
		if text == "" {
			continue
		}
		if _, err := fmt.Fprintf(buf, "%d\n%s --> %s\n%s\n\n", cue, FormatTimestamp(seg.Start), FormatTimestamp(seg.End), text); err != nil {
			return fmt.Errorf("write cue %d: %w", cue, err)
		}
		cue++
	}
	return buf.Flush()
}

// WriteFile writes segments to path as an SRT file.
func WriteFile(path string, segments []segment.Segment) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create srt: %w", err)
	}
	if err := Write(f, segments); err != nil {
		_ = f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close srt: %w", err)
	}
	return nil
}

// FormatTimestamp renders seconds as an SRT timestamp (HH:MM:SS,mmm).
func FormatTimestamp(seconds float64) string {
	if seconds < 0 {
		seconds = 0
	}
	millis := int64(math.Round(seconds * 1000))
	h := millis / 3_600_000
	millis -= h * 3_600_000
	m := millis / 60_000
	millis -= m * 60_000
	s := millis / 1000
	millis -= s * 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, millis)
}
