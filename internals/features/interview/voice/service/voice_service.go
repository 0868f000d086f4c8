package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	"internlink_backend/internals/features/interview/voice/dto"
	"internlink_backend/internals/features/interview/voice/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/llm"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/bytedance/sonic"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	MaxAudioBytes = 25 << 20
	MinAudioBytes = 1000
)

// container webm/mp4 dari browser sering terdeteksi sebagai video/*
var audioContainers = map[string]bool{
	"video/webm":      true,
	"video/mp4":       true,
	"application/ogg": true,
}

type Service struct {
	DB  *gorm.DB
	STT llm.Transcriber
	TTS llm.Speaker
	AI  llm.Completer
}

func New(db *gorm.DB, stt llm.Transcriber, tts llm.Speaker, ai llm.Completer) *Service {
	return &Service{DB: db, STT: stt, TTS: tts, AI: ai}
}

func enabled(v any) bool {
	if v == nil {
		return false
	}
	if e, ok := v.(interface{ Enabled() bool }); ok {
		return e.Enabled()
	}
	return true
}

/* =========================================================
   VALIDASI AUDIO (sebelum provider dipanggil)
========================================================= */

// CheckAudioSize dipakai controller sebelum file dibaca ke memori.
func CheckAudioSize(size int64) error {
	if size > MaxAudioBytes {
		return fault.Validation(fmt.Sprintf("audio file is too large (max %d MB)", MaxAudioBytes>>20))
	}
	if size < MinAudioBytes {
		return fault.Validation("audio file is empty or too short")
	}
	return nil
}

func ValidateAudio(declared string, data []byte) error {
	if err := CheckAudioSize(int64(len(data))); err != nil {
		return err
	}
	declared = strings.ToLower(strings.TrimSpace(strings.Split(declared, ";")[0]))
	if declared != "" && declared != "application/octet-stream" && !strings.HasPrefix(declared, "audio/") && !audioContainers[declared] {
		return fault.Validation("file must be an audio recording (got " + declared + ")")
	}
	sniffed := mimetype.Detect(data)
	for m := sniffed; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), "audio/") || audioContainers[m.String()] {
			return nil
		}
	}
	return fault.Validation("file content is not a supported audio format")
}

/* =========================================================
   STT
========================================================= */

func (s *Service) Transcribe(ctx context.Context, internID *uuid.UUID, in dto.TranscribeInput) (*dto.TranscribeResponse, error) {
	if err := ValidateAudio(in.ContentType, in.Data); err != nil {
		return nil, err
	}
	if !enabled(s.STT) {
		return nil, fault.Unavailable("speech-to-text is not configured")
	}

	text, err := s.STT.Transcribe(ctx, in.Filename, in.Data)
	if err != nil {
		return nil, err
	}

	out := &dto.TranscribeResponse{
		Transcript:  text,
		WordCount:   WordCount(text),
		FillerWords: AnalyzeFillers(text),
	}
	out.VoiceAnalysis = AnalyzePace(out.WordCount, in.DurationSeconds)

	if internID != nil && strings.TrimSpace(text) != "" {
		row := model.InterviewResponseModel{
			InternID:    *internID,
			Question:    strings.TrimSpace(in.Question),
			Transcript:  text,
			WordCount:   out.WordCount,
			FillerCount: out.FillerWords.Count,
		}
		if in.DurationSeconds > 0 {
			d := in.DurationSeconds
			row.DurationSeconds = &d
		}
		if err := s.DB.WithContext(ctx).Create(&row).Error; err != nil {
			// transcript tetap dikembalikan
			log.Printf("[WARN] voice: store interview response intern=%s: %v", *internID, err)
		} else {
			out.ResponseID = &row.ID
		}
	}
	return out, nil
}

/* =========================================================
   TTS
========================================================= */

func (s *Service) Speak(ctx context.Context, req dto.SpeakRequest) ([]byte, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, fault.Validation("text is required")
	}
	if !enabled(s.TTS) {
		return nil, fault.Unavailable("text-to-speech is not configured")
	}
	audio, err := s.TTS.Speak(ctx, text, req.Voice)
	if err != nil {
		return nil, err
	}
	if len(audio) == 0 {
		return nil, fault.Upstream("AI provider returned empty audio", nil)
	}
	return audio, nil
}

/* =========================================================
   FEEDBACK
========================================================= */

const feedbackInstruction = `You are a friendly interview coach for high-school students.
Evaluate ONLY the answer below. Return a JSON object:
{"feedback": string (2-3 sentences), "strengths": [string], "improvements": [string], "score": 0-100}.
Return JSON only.`

func fallbackFeedback() dto.FeedbackResponse {
	return dto.FeedbackResponse{
		Feedback:     "Thanks for your answer! Try to give a specific example, explain what you did, and finish with what you learned.",
		Strengths:    []string{"You answered the question"},
		Improvements: []string{"Add a concrete example", "Keep your answer focused and structured"},
		Score:        50,
		Fallback:     true,
	}
}

func (s *Service) Feedback(ctx context.Context, internID *uuid.UUID, req dto.FeedbackRequest) (dto.FeedbackResponse, error) {
	answer := strings.TrimSpace(req.Answer)
	if answer == "" {
		return dto.FeedbackResponse{}, fault.Validation("answer is required")
	}
	if !enabled(s.AI) {
		return fallbackFeedback(), nil
	}

	prompt := fmt.Sprintf("Question: %s\nAnswer: %s", strings.TrimSpace(req.Question), answer)
	raw, err := s.AI.Complete(ctx, llm.ChatRequest{System: feedbackInstruction, User: prompt, Temperature: 0.4, JSON: true})
	if err != nil {
		log.Printf("[WARN] voice: feedback fallback: %v", err)
		return fallbackFeedback(), nil
	}
	var out dto.FeedbackResponse
	if err := llm.Decode(raw, &out); err != nil || strings.TrimSpace(out.Feedback) == "" {
		return fallbackFeedback(), nil
	}
	if out.Score < 0 {
		out.Score = 0
	}
	if out.Score > 100 {
		out.Score = 100
	}
	if out.Strengths == nil {
		out.Strengths = []string{}
	}
	if out.Improvements == nil {
		out.Improvements = []string{}
	}
	s.attachFeedback(ctx, internID, req.Question, out)
	return out, nil
}

// attachFeedback: simpan ke interview response terbaru untuk pertanyaan yang sama.
func (s *Service) attachFeedback(ctx context.Context, internID *uuid.UUID, question string, fb dto.FeedbackResponse) {
	if internID == nil || s.DB == nil {
		return
	}
	b, err := sonic.Marshal(fb)
	if err != nil {
		return
	}
	var row model.InterviewResponseModel
	err = s.DB.WithContext(ctx).
		Where("intern_id = ? AND question = ?", *internID, strings.TrimSpace(question)).
		Order("created_at DESC").
		Limit(1).
		Find(&row).Error
	if err != nil || row.ID == uuid.Nil {
		return
	}
	if err := s.DB.WithContext(ctx).Model(&row).Update("feedback", datatypes.JSON(b)).Error; err != nil {
		log.Printf("[WARN] voice: store feedback: %v", pgerr.Map(err, "interview response"))
	}
}
