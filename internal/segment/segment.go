package segment

import (
	"fmt"
	"strings"
)

// Tier identifies the escalation stage that produced a segment's current text.
type Tier string

const (
	TierPrimary Tier = "primary"
	TierChunked Tier = "chunked"
	TierRetry   Tier = "retry"
	TierCloud   Tier = "cloud"
)

// ParseTier validates a stored tier value.
func ParseTier(value string) (Tier, error) {
	switch Tier(strings.TrimSpace(strings.ToLower(value))) {
	case TierPrimary:
		return TierPrimary, nil
	case TierChunked:
		return TierChunked, nil
	case TierRetry:
		return TierRetry, nil
	case TierCloud:
		return TierCloud, nil
	}
	return "", fmt.Errorf("unknown segment tier %q", value)
}

// Raw is the unscored output of a transcription engine for one segment.
type Raw struct {
	Start        float64
	End          float64
	Text         string
	AvgLogProb   float64
	NoSpeechProb float64
}

// Segment is one contiguous time range of transcribed speech.
// Start and End are seconds relative to the start of the source media.
type Segment struct {
	ID           int
	Start        float64
	End          float64
	Text         string
	Confidence   float64
	Tier         Tier
	AvgLogProb   float64
	NoSpeechProb float64
}

// Duration returns the segment length in seconds.
func (s Segment) Duration() float64 {
	return s.End - s.Start
}

// Confidence derives a 0-1 score from raw engine metrics. Whisper-style
// average log probabilities sit near 0 for confident output and fall toward
// -1 and below as the model guesses; the no-speech probability discounts
// ranges the model suspects are not speech at all.
func Confidence(avgLogProb, noSpeechProb float64) float64 {
	return Clamp01((avgLogProb + 1.0) * (1.0 - noSpeechProb))
}

// Clamp01 restricts v to the closed interval [0, 1].
func Clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// FromRaw scores a raw engine segment and assigns the given id and tier.
func FromRaw(id int, tier Tier, raw Raw) Segment {
	return Segment{
		ID:           id,
		Start:        raw.Start,
		End:          raw.End,
		Text:         strings.TrimSpace(raw.Text),
		Confidence:   Confidence(raw.AvgLogProb, raw.NoSpeechProb),
		Tier:         tier,
		AvgLogProb:   raw.AvgLogProb,
		NoSpeechProb: raw.NoSpeechProb,
	}
}

// PlaceholderWindowSeconds is the span of each synthesized placeholder
// segment when an attempt yields no usable output for a time range.
const PlaceholderWindowSeconds = 10.0

// Placeholders synthesizes zero-confidence segments covering [start, end) in
// fixed windows so downstream stages always have input. IDs are assigned
// sequentially beginning at firstID.
func Placeholders(firstID int, tier Tier, start, end float64) []Segment {
	if end <= start {
		return nil
	}
	var out []Segment
	id := firstID
	for cursor := start; cursor < end; cursor += PlaceholderWindowSeconds {
		windowEnd := cursor + PlaceholderWindowSeconds
		if windowEnd > end {
			windowEnd = end
		}
		out = append(out, Segment{
			ID:         id,
			Start:      cursor,
			End:        windowEnd,
			Tier:       tier,
			Confidence: 0,
		})
		id++
	}
	return out
}
