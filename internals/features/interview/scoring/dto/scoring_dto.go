package dto

import "time"

const (
	ModeInterviewOnly = "interview_only"
	ModeCombined      = "combined"
)

type ScoreResult struct {
	CategoryScores  map[string]int    `json:"category_scores"`
	Recommendations map[string]string `json:"recommendations"`
	Mode            string            `json:"mode"`
	Completion      int               `json:"profile_completion"`
	Fallback        bool              `json:"fallback"` // true: AI gagal, skor lama / netral
}

// RawScores: output model, nilai skor bisa angka atau string.
type RawScores struct {
	CategoryScores  map[string]any    `json:"category_scores"`
	Recommendations map[string]string `json:"recommendations"`
}

type RegenerateResponse struct {
	ScoreResult
	Persisted       bool       `json:"persisted"`
	TranscriptsUsed int        `json:"transcripts_used"`
	ScoresUpdatedAt *time.Time `json:"scores_updated_at,omitempty"`
}
