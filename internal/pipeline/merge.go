package pipeline

import "clipscribe/internal/segment"

// MergeImprovements folds tier-2/tier-3 improvements back into the ordered
// segment list. Only text, confidence, and tier change; timing, IDs, count,
// and order are preserved exactly. Returns the merged list and the number of
// improvements applied.
func MergeImprovements(segments []segment.Segment, improvements map[int]Improvement) ([]segment.Segment, int) {
	merged := make([]segment.Segment, len(segments))
	copy(merged, segments)

	applied := 0
	for i := range merged {
		improvement, ok := improvements[merged[i].ID]
		if !ok {
			continue
		}
		merged[i].Text = improvement.Text
		merged[i].Confidence = improvement.Confidence
		merged[i].Tier = improvement.Tier
		applied++
	}
	return merged, applied
}
