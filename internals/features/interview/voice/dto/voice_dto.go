package dto

import "github.com/google/uuid"

type TranscribeInput struct {
	Filename        string
	ContentType     string // dari header multipart
	Data            []byte
	Question        string
	DurationSeconds float64
}

type FillerWords struct {
	Count      int      `json:"count"`
	Percentage float64  `json:"percentage"`
	Found      []string `json:"found"`
}

type VoiceAnalysis struct {
	WordsPerMinute float64 `json:"words_per_minute"`
	Pace           string  `json:"pace"` // slow | good | fast
}

type TranscribeResponse struct {
	Transcript    string         `json:"transcript"`
	WordCount     int            `json:"word_count"`
	FillerWords   FillerWords    `json:"filler_words"`
	VoiceAnalysis *VoiceAnalysis `json:"voice_analysis,omitempty"`
	ResponseID    *uuid.UUID     `json:"response_id,omitempty"`
}

type SpeakRequest struct {
	Text  string `json:"text" validate:"required,max=4096"`
	Voice string `json:"voice" validate:"omitempty,oneof=alloy echo fable onyx nova shimmer"`
}

type FeedbackRequest struct {
	Question string `json:"question" validate:"max=1000"`
	Answer   string `json:"answer" validate:"required,max=10000"`
}

type FeedbackResponse struct {
	Feedback     string   `json:"feedback"`
	Strengths    []string `json:"strengths"`
	Improvements []string `json:"improvements"`
	Score        int      `json:"score"`
	Fallback     bool     `json:"fallback"`
}
