package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"clipscribe/internal/segment"
	"clipscribe/internal/services"
)

func TestPrimaryDeadline(t *testing.T) {
	p := &PrimaryTranscriber{floor: 600 * time.Second, buffer: 300 * time.Second}

	tests := []struct {
		name     string
		duration float64
		want     time.Duration
	}{
		{"short media hits floor", 30, 600 * time.Second},
		{"floor boundary", 150, 600 * time.Second},
		{"long media scales", 720, 1740 * time.Second},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := p.Deadline(tt.duration); got != tt.want {
				t.Fatalf("Deadline(%v) = %v, want %v", tt.duration, got, tt.want)
			}
		})
	}
}

func TestPrimaryRunSuccessOrdersSegments(t *testing.T) {
	engine := &stubEngine{fn: func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
		return []segment.Raw{
			rawWithConfidence(10, 20, "second", 0.8),
			rawWithConfidence(0, 10, "first", 0.9),
		}, nil
	}}
	p := NewPrimaryTranscriber(engine, &stubExtractor{}, t.TempDir(), time.Second, 0, make(chan struct{}, 1), nil)

	res := p.Run(context.Background(), MediaSource{Path: "in.mkv"}, 20)
	if res.Outcome != PrimarySucceeded {
		t.Fatalf("outcome = %v, want PrimarySucceeded (err: %v)", res.Outcome, res.Err)
	}
	if len(res.Segments) != 2 {
		t.Fatalf("segment count = %d, want 2", len(res.Segments))
	}
	if res.Segments[0].Text != "first" || res.Segments[1].Text != "second" {
		t.Fatalf("segments not ordered by start time: %+v", res.Segments)
	}
	for i, seg := range res.Segments {
		if seg.ID != i {
			t.Fatalf("segment %d has ID %d", i, seg.ID)
		}
		if seg.Tier != segment.TierPrimary {
			t.Fatalf("segment %d tier = %q", i, seg.Tier)
		}
	}
}

func TestPrimaryRunEmptyOutputSynthesizesPlaceholders(t *testing.T) {
	engine := &stubEngine{fn: func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
		return nil, nil
	}}
	p := NewPrimaryTranscriber(engine, &stubExtractor{}, t.TempDir(), time.Second, 0, make(chan struct{}, 1), nil)

	res := p.Run(context.Background(), MediaSource{Path: "in.mkv"}, 30)
	if res.Outcome != PrimarySucceeded {
		t.Fatalf("outcome = %v, want PrimarySucceeded", res.Outcome)
	}
	if len(res.Segments) != 3 {
		t.Fatalf("placeholder count = %d, want 3", len(res.Segments))
	}
	for _, seg := range res.Segments {
		if seg.Confidence != 0 || seg.Text != "" {
			t.Fatalf("placeholder not empty: %+v", seg)
		}
	}
	if res.Segments[2].End != 30 {
		t.Fatalf("placeholders do not cover media: last end = %v", res.Segments[2].End)
	}
}

func TestPrimaryRunDeadlineExpiryAbandons(t *testing.T) {
	release := make(chan struct{})
	engine := &stubEngine{fn: func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
		<-release
		return nil, nil
	}}
	slots := make(chan struct{}, 1)
	p := NewPrimaryTranscriber(engine, &stubExtractor{}, t.TempDir(), 10*time.Millisecond, 0, slots, nil)

	start := time.Now()
	res := p.Run(context.Background(), MediaSource{Path: "in.mkv"}, 0.001)
	if res.Outcome != PrimaryTimedOut {
		t.Fatalf("outcome = %v, want PrimaryTimedOut", res.Outcome)
	}
	if !errors.Is(res.Err, services.ErrTimeout) {
		t.Fatalf("err = %v, want ErrTimeout", res.Err)
	}
	if elapsed := time.Since(start); elapsed > 2*time.Second {
		t.Fatalf("Run blocked past the deadline: %v", elapsed)
	}

	// Slot stays held until the abandoned attempt actually returns.
	select {
	case slots <- struct{}{}:
		t.Fatal("abandon slot released while attempt still running")
	default:
	}
	close(release)
}

func TestPrimaryRunRefusesWhenSlotsExhausted(t *testing.T) {
	engine := &stubEngine{fn: func(ctx context.Context, audioPath, outputDir, languageHint string) ([]segment.Raw, error) {
		return nil, nil
	}}
	slots := make(chan struct{}, 1)
	slots <- struct{}{} // simulate a still-running abandoned attempt
	p := NewPrimaryTranscriber(engine, &stubExtractor{}, t.TempDir(), time.Second, 0, slots, nil)

	res := p.Run(context.Background(), MediaSource{Path: "in.mkv"}, 1)
	if res.Outcome != PrimaryFailed {
		t.Fatalf("outcome = %v, want PrimaryFailed", res.Outcome)
	}
	if !errors.Is(res.Err, services.ErrTransient) {
		t.Fatalf("err = %v, want ErrTransient", res.Err)
	}
}

func TestPrimaryRunExtractionFailure(t *testing.T) {
	p := NewPrimaryTranscriber(&stubEngine{}, &stubExtractor{wavErr: errors.New("no audio stream")}, t.TempDir(), time.Second, 0, make(chan struct{}, 1), nil)

	res := p.Run(context.Background(), MediaSource{Path: "in.mkv"}, 10)
	if res.Outcome != PrimaryFailed {
		t.Fatalf("outcome = %v, want PrimaryFailed", res.Outcome)
	}
	if !errors.Is(res.Err, services.ErrExternalTool) {
		t.Fatalf("err = %v, want ErrExternalTool", res.Err)
	}
}
