package pipeline

import "clipscribe/internal/segment"

// LowConfidence returns the subset of segments whose confidence falls below
// threshold, in input order. Pure and idempotent: repeated calls on the same
// list yield the same set.
func LowConfidence(segments []segment.Segment, threshold float64) []segment.Segment {
	var low []segment.Segment
	for _, seg := range segments {
		if seg.Confidence < threshold {
			low = append(low, seg)
		}
	}
	return low
}
