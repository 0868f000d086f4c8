package dto

import (
	"encoding/json"
	"time"

	"internlink_backend/internals/features/forms/responses/model"

	"github.com/google/uuid"
)

// AnswerEntry: value string → answer_text, selain itu → answer_data.
type AnswerEntry struct {
	QuestionID uuid.UUID       `json:"question_id" validate:"required"`
	Value      json.RawMessage `json:"value"`
}

type SaveAnswersRequest struct {
	Answers    []AnswerEntry `json:"answers" validate:"dive"`
	ReplaceAll bool          `json:"replace_all"`
}

// FileAnswer disimpan sebagai answer_data untuk file_upload / video_upload.
type FileAnswer struct {
	URL         string `json:"url"`
	Name        string `json:"name"`
	Size        int64  `json:"size"`
	ContentType string `json:"content_type"`
}

type AnswerView struct {
	QuestionID uuid.UUID       `json:"question_id"`
	AnswerText *string         `json:"answer_text"`
	AnswerData json.RawMessage `json:"answer_data"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

type ResponseView struct {
	ID          uuid.UUID    `json:"id"`
	FormID      uuid.UUID    `json:"form_id"`
	UserID      uuid.UUID    `json:"user_id"`
	Status      string       `json:"status"`
	SubmittedAt *time.Time   `json:"submitted_at,omitempty"`
	Answers     []AnswerView `json:"answers"`
}

func NewAnswerView(a model.ResponseAnswerModel) AnswerView {
	v := AnswerView{QuestionID: a.QuestionID, AnswerText: a.AnswerText, UpdatedAt: a.UpdatedAt}
	if len(a.AnswerData) > 0 {
		v.AnswerData = json.RawMessage(a.AnswerData)
	}
	return v
}

func NewResponseView(r model.FormResponseModel, answers []model.ResponseAnswerModel) ResponseView {
	out := ResponseView{
		ID:          r.ID,
		FormID:      r.FormID,
		UserID:      r.UserID,
		Status:      r.Status,
		SubmittedAt: r.SubmittedAt,
		Answers:     make([]AnswerView, 0, len(answers)),
	}
	for _, a := range answers {
		out.Answers = append(out.Answers, NewAnswerView(a))
	}
	return out
}
