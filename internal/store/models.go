package store

import "time"

// Run is one persisted transcription run.
type Run struct {
	ID                  string
	MediaPath           string
	Language            string
	FullText            string
	AggregateConfidence float64
	SegmentCount        int
	LowConfidenceCount  int
	ImprovementsApplied int
	ElapsedSeconds      float64
	CreatedAt           time.Time
}
