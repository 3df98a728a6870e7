package store_test

import (
	"context"
	"testing"
	"time"

	"clipscribe/internal/segment"
	"clipscribe/internal/store"
	"clipscribe/internal/testsupport"
)

func sampleSegments() []segment.Segment {
	return []segment.Segment{
		{ID: 0, Start: 0, End: 10, Text: "hello there", Confidence: 0.92, Tier: segment.TierPrimary, AvgLogProb: -0.08},
		{ID: 1, Start: 10, End: 20, Text: "clear speech", Confidence: 0.9, Tier: segment.TierRetry, AvgLogProb: -0.1},
		{ID: 2, Start: 20, End: 25, Text: "from cloud", Confidence: 0.85, Tier: segment.TierCloud},
	}
}

func TestSaveAndGetRun(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	run := &store.Run{
		ID:                  "run-1",
		MediaPath:           "/media/in.mkv",
		Language:            "en",
		FullText:            "hello there clear speech from cloud",
		AggregateConfidence: 0.89,
		LowConfidenceCount:  0,
		ImprovementsApplied: 2,
		ElapsedSeconds:      42.5,
	}
	if err := s.SaveRun(ctx, run, sampleSegments()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.GetRun(ctx, "run-1")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got == nil {
		t.Fatal("GetRun returned nil for saved run")
	}
	if got.MediaPath != run.MediaPath || got.Language != "en" {
		t.Fatalf("run fields lost: %+v", got)
	}
	if got.SegmentCount != 3 {
		t.Fatalf("segment count = %d, want 3", got.SegmentCount)
	}
	if got.ImprovementsApplied != 2 {
		t.Fatalf("improvements = %d, want 2", got.ImprovementsApplied)
	}
	if got.CreatedAt.IsZero() {
		t.Fatal("created_at not persisted")
	}
}

func TestGetRunMissing(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)

	got, err := s.GetRun(context.Background(), "absent")
	if err != nil {
		t.Fatalf("GetRun: %v", err)
	}
	if got != nil {
		t.Fatalf("expected nil for missing run, got %+v", got)
	}
}

func TestRunSegmentsRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	want := sampleSegments()
	if err := s.SaveRun(ctx, &store.Run{ID: "run-2", MediaPath: "in.mkv", Language: "en"}, want); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	got, err := s.RunSegments(ctx, "run-2")
	if err != nil {
		t.Fatalf("RunSegments: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("segment count = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("segment %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestListRunsNewestFirst(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	older := &store.Run{ID: "older", MediaPath: "a.mkv", Language: "en", CreatedAt: time.Now().UTC().Add(-time.Hour)}
	newer := &store.Run{ID: "newer", MediaPath: "b.mkv", Language: "en", CreatedAt: time.Now().UTC()}
	for _, run := range []*store.Run{older, newer} {
		if err := s.SaveRun(ctx, run, nil); err != nil {
			t.Fatalf("SaveRun %s: %v", run.ID, err)
		}
	}

	runs, err := s.ListRuns(ctx, 0)
	if err != nil {
		t.Fatalf("ListRuns: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("run count = %d, want 2", len(runs))
	}
	if runs[0].ID != "newer" || runs[1].ID != "older" {
		t.Fatalf("runs not newest first: %s, %s", runs[0].ID, runs[1].ID)
	}

	limited, err := s.ListRuns(ctx, 1)
	if err != nil {
		t.Fatalf("ListRuns limit: %v", err)
	}
	if len(limited) != 1 || limited[0].ID != "newer" {
		t.Fatalf("limited list = %+v", limited)
	}
}

func TestDeleteRunCascades(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	s := testsupport.MustOpenStore(t, cfg)
	ctx := context.Background()

	if err := s.SaveRun(ctx, &store.Run{ID: "run-3", MediaPath: "in.mkv", Language: "en"}, sampleSegments()); err != nil {
		t.Fatalf("SaveRun: %v", err)
	}

	removed, err := s.DeleteRun(ctx, "run-3")
	if err != nil {
		t.Fatalf("DeleteRun: %v", err)
	}
	if !removed {
		t.Fatal("DeleteRun reported nothing removed")
	}

	segments, err := s.RunSegments(ctx, "run-3")
	if err != nil {
		t.Fatalf("RunSegments: %v", err)
	}
	if len(segments) != 0 {
		t.Fatalf("segments survived run deletion: %d", len(segments))
	}
}
