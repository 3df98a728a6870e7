package segment

import (
	"math"
	"testing"
)

func TestConfidenceFormula(t *testing.T) {
	tests := []struct {
		name         string
		avgLogProb   float64
		noSpeechProb float64
		want         float64
	}{
		{"confident speech", -0.1, 0.0, 0.9},
		{"certain output", 0.0, 0.0, 1.0},
		{"pure noise", -2.0, 0.9, 0.0},
		{"half no-speech", -0.5, 0.5, 0.25},
		{"above one clamps", 0.5, 0.0, 1.0},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := Confidence(tc.avgLogProb, tc.noSpeechProb)
			if math.Abs(got-tc.want) > 1e-9 {
				t.Fatalf("Confidence(%v, %v) = %v, want %v", tc.avgLogProb, tc.noSpeechProb, got, tc.want)
			}
			if got < 0 || got > 1 {
				t.Fatalf("confidence %v outside [0,1]", got)
			}
		})
	}
}

func TestPlaceholdersCoverRange(t *testing.T) {
	segs := Placeholders(0, TierPrimary, 0, 30)
	if len(segs) != 3 {
		t.Fatalf("expected 3 placeholder segments, got %d", len(segs))
	}
	for i, seg := range segs {
		if seg.ID != i {
			t.Fatalf("segment %d has id %d", i, seg.ID)
		}
		if seg.Confidence != 0 {
			t.Fatalf("placeholder confidence %v, want 0", seg.Confidence)
		}
		if seg.Duration() != 10 {
			t.Fatalf("placeholder duration %v, want 10", seg.Duration())
		}
	}
	if segs[2].End != 30 {
		t.Fatalf("placeholders end at %v, want 30", segs[2].End)
	}
}

func TestPlaceholdersPartialFinalWindow(t *testing.T) {
	segs := Placeholders(5, TierChunked, 0, 25)
	if len(segs) != 3 {
		t.Fatalf("expected 3 segments, got %d", len(segs))
	}
	last := segs[2]
	if last.Start != 20 || last.End != 25 {
		t.Fatalf("final window [%v, %v], want [20, 25]", last.Start, last.End)
	}
	if segs[0].ID != 5 || segs[2].ID != 7 {
		t.Fatalf("ids %d..%d, want 5..7", segs[0].ID, segs[2].ID)
	}
}

func TestPlaceholdersEmptyRange(t *testing.T) {
	if segs := Placeholders(0, TierPrimary, 10, 10); segs != nil {
		t.Fatalf("expected nil for empty range, got %v", segs)
	}
}

func TestBuildResultInvariants(t *testing.T) {
	segments := []Segment{
		{ID: 0, Start: 0, End: 2, Text: "hello", Confidence: 0.9, Tier: TierPrimary},
		{ID: 1, Start: 2, End: 4, Text: "world", Confidence: 0.5, Tier: TierPrimary},
		{ID: 2, Start: 4, End: 6, Text: "", Confidence: 0.1, Tier: TierPrimary},
	}
	res := BuildResult("en", segments, 0.7, 1)
	if res.FullText != "hello world" {
		t.Fatalf("full text %q", res.FullText)
	}
	if math.Abs(res.AggregateConfidence-0.5) > 1e-9 {
		t.Fatalf("aggregate confidence %v, want 0.5", res.AggregateConfidence)
	}
	if res.LowConfidenceCount != 2 {
		t.Fatalf("low confidence count %d, want 2", res.LowConfidenceCount)
	}
	if res.ImprovementsApplied != 1 {
		t.Fatalf("improvements %d, want 1", res.ImprovementsApplied)
	}
}

func TestOrdered(t *testing.T) {
	sorted := []Segment{{Start: 0}, {Start: 1}, {Start: 1}, {Start: 3}}
	if !Ordered(sorted) {
		t.Fatal("expected sorted list to be ordered")
	}
	unsorted := []Segment{{Start: 2}, {Start: 1}}
	if Ordered(unsorted) {
		t.Fatal("expected unsorted list to be unordered")
	}
}

func TestParseTier(t *testing.T) {
	for _, valid := range []string{"primary", "chunked", "retry", "cloud", " Cloud "} {
		if _, err := ParseTier(valid); err != nil {
			t.Fatalf("ParseTier(%q): %v", valid, err)
		}
	}
	if _, err := ParseTier("turbo"); err == nil {
		t.Fatal("expected error for unknown tier")
	}
}
