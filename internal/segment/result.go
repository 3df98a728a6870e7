package segment

import "strings"

// Result is the final output of a pipeline run. It is immutable once built.
type Result struct {
	Language            string
	FullText            string
	Segments            []Segment
	AggregateConfidence float64
	LowConfidenceCount  int
	ImprovementsApplied int
}

// BuildResult assembles a Result from an ordered segment list. FullText is
// the space join of segment texts and AggregateConfidence the mean segment
// confidence; lowThreshold feeds the LowConfidenceCount tally.
func BuildResult(language string, segments []Segment, lowThreshold float64, improvements int) Result {
	return Result{
		Language:            language,
		FullText:            JoinText(segments),
		Segments:            segments,
		AggregateConfidence: MeanConfidence(segments),
		LowConfidenceCount:  countBelow(segments, lowThreshold),
		ImprovementsApplied: improvements,
	}
}

// JoinText concatenates non-empty segment texts with single spaces.
func JoinText(segments []Segment) string {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if text := strings.TrimSpace(seg.Text); text != "" {
			parts = append(parts, text)
		}
	}
	return strings.Join(parts, " ")
}

// MeanConfidence returns the mean segment confidence, or 0 for no segments.
func MeanConfidence(segments []Segment) float64 {
	if len(segments) == 0 {
		return 0
	}
	var sum float64
	for _, seg := range segments {
		sum += seg.Confidence
	}
	return sum / float64(len(segments))
}

func countBelow(segments []Segment, threshold float64) int {
	count := 0
	for _, seg := range segments {
		if seg.Confidence < threshold {
			count++
		}
	}
	return count
}

// Ordered reports whether segments are sorted by start time non-decreasing.
func Ordered(segments []Segment) bool {
	for i := 1; i < len(segments); i++ {
		if segments[i].Start < segments[i-1].Start {
			return false
		}
	}
	return true
}
