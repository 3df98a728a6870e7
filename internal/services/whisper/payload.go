package whisper

import (
	"encoding/json"
	"fmt"
	"os"

	"clipscribe/internal/segment"
)

// payloadSegment is one segment in the whisper JSON output.
type payloadSegment struct {
	Start        float64 `json:"start"`
	End          float64 `json:"end"`
	Text         string  `json:"text"`
	AvgLogProb   float64 `json:"avg_logprob"`
	NoSpeechProb float64 `json:"no_speech_prob"`
}

// payload is the whisper JSON output structure.
type payload struct {
	Language string           `json:"language"`
	Segments []payloadSegment `json:"segments"`
}

// LoadRawSegments loads raw scored segments from a whisper JSON file.
func LoadRawSegments(jsonPath string) ([]segment.Raw, error) {
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		return nil, err
	}
	var parsed payload
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("parse whisper json: %w", err)
	}
	raws := make([]segment.Raw, 0, len(parsed.Segments))
	for _, seg := range parsed.Segments {
		raws = append(raws, segment.Raw{
			Start:        seg.Start,
			End:          seg.End,
			Text:         seg.Text,
			AvgLogProb:   seg.AvgLogProb,
			NoSpeechProb: seg.NoSpeechProb,
		})
	}
	return raws, nil
}
