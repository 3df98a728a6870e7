package pipeline

import (
	"testing"

	"clipscribe/internal/segment"
)

func baseSegments() []segment.Segment {
	return []segment.Segment{
		{ID: 0, Start: 0, End: 10, Text: "hello", Confidence: 0.9, Tier: segment.TierPrimary},
		{ID: 1, Start: 10, End: 20, Text: "mumble", Confidence: 0.4, Tier: segment.TierPrimary},
		{ID: 2, Start: 20, End: 30, Text: "world", Confidence: 0.8, Tier: segment.TierPrimary},
	}
}

func TestLowConfidence(t *testing.T) {
	low := LowConfidence(baseSegments(), 0.7)
	if len(low) != 1 || low[0].ID != 1 {
		t.Fatalf("LowConfidence = %+v, want only segment 1", low)
	}

	// Idempotent: re-classifying the same list yields the same set.
	again := LowConfidence(baseSegments(), 0.7)
	if len(again) != len(low) || again[0].ID != low[0].ID {
		t.Fatalf("classification not stable: %+v vs %+v", low, again)
	}

	if got := LowConfidence(nil, 0.7); got != nil {
		t.Fatalf("LowConfidence(nil) = %+v, want nil", got)
	}
}

func TestMergeImprovementsReplacesContentOnly(t *testing.T) {
	segments := baseSegments()
	merged, applied := MergeImprovements(segments, map[int]Improvement{
		1: {Text: "clear speech", Confidence: 0.9, Tier: segment.TierRetry},
	})
	if applied != 1 {
		t.Fatalf("applied = %d, want 1", applied)
	}
	if len(merged) != len(segments) {
		t.Fatalf("merge changed segment count: %d", len(merged))
	}
	got := merged[1]
	if got.Text != "clear speech" || got.Confidence != 0.9 || got.Tier != segment.TierRetry {
		t.Fatalf("improvement not applied: %+v", got)
	}
	if got.ID != 1 || got.Start != 10 || got.End != 20 {
		t.Fatalf("merge altered identity or timing: %+v", got)
	}

	// Untouched segments and the input slice stay as they were.
	if merged[0] != segments[0] || merged[2] != segments[2] {
		t.Fatal("merge altered segments without improvements")
	}
	if segments[1].Text != "mumble" {
		t.Fatal("merge mutated the input slice")
	}
}

func TestMergeImprovementsNoImprovements(t *testing.T) {
	segments := baseSegments()
	merged, applied := MergeImprovements(segments, nil)
	if applied != 0 {
		t.Fatalf("applied = %d, want 0", applied)
	}
	for i := range segments {
		if merged[i] != segments[i] {
			t.Fatalf("segment %d changed with no improvements", i)
		}
	}
}
