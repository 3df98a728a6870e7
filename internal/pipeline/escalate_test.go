package pipeline

import (
	"context"
	"testing"

	"clipscribe/internal/segment"
)

func TestEscalatorSkipsShortSegments(t *testing.T) {
	called := false
	engine := &stubEngine{fn: func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
		called = true
		return nil, nil
	}}
	extractor := &stubExtractor{}
	e := NewEscalator(engine, extractor, t.TempDir(), 1.0, nil)

	seg := segment.Segment{ID: 3, Start: 5.0, End: 5.4, Confidence: 0.2}
	improvement, err := e.Retry(context.Background(), "in.mkv", seg, "en")
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if improvement != nil {
		t.Fatalf("improvement = %+v, want nil for short segment", improvement)
	}
	if called {
		t.Fatal("engine invoked for a segment below the duration threshold")
	}
	if len(extractor.ranges) != 0 {
		t.Fatal("clip extracted for a skipped segment")
	}
}

func TestEscalatorExtractsSegmentRange(t *testing.T) {
	engine := &stubEngine{fn: func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
		return []segment.Raw{rawWithConfidence(0, 5, "better", 0.9)}, nil
	}}
	extractor := &stubExtractor{}
	e := NewEscalator(engine, extractor, t.TempDir(), 1.0, nil)

	seg := segment.Segment{ID: 1, Start: 30, End: 35, Confidence: 0.4}
	improvement, err := e.Retry(context.Background(), "in.mkv", seg, "en")
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if improvement == nil {
		t.Fatal("expected an improvement")
	}
	if improvement.Tier != segment.TierRetry || improvement.Text != "better" {
		t.Fatalf("improvement = %+v", improvement)
	}
	if len(extractor.ranges) != 1 || extractor.ranges[0] != [2]float64{30, 5} {
		t.Fatalf("extraction ranges = %v, want [[30 5]]", extractor.ranges)
	}
}

func TestEscalatorRejectsEqualConfidence(t *testing.T) {
	engine := &stubEngine{fn: func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
		return []segment.Raw{rawWithConfidence(0, 5, "same", 0.4)}, nil
	}}
	e := NewEscalator(engine, &stubExtractor{}, t.TempDir(), 1.0, nil)

	seg := segment.Segment{ID: 1, Start: 0, End: 5, Confidence: 0.4}
	improvement, err := e.Retry(context.Background(), "in.mkv", seg, "en")
	if err != nil {
		t.Fatalf("Retry: %v", err)
	}
	if improvement != nil {
		t.Fatalf("equal confidence accepted: %+v", improvement)
	}
}
