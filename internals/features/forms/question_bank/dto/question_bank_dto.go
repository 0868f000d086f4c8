package dto

import (
	"time"

	"internlink_backend/internals/features/forms/question_bank/model"

	"github.com/google/uuid"
)

type CreateQuestionBankRequest struct {
	Type         string  `json:"type" validate:"required"`
	QuestionText string  `json:"question_text" validate:"required,max=2000"`
	Category     *string `json:"category" validate:"omitempty,max=60"`
	IsPrivate    bool    `json:"is_private"`
}

type ListFilter struct {
	Q        string
	Type     string
	Category string
	Limit    int
	Offset   int
}

type QuestionBankResponse struct {
	ID           uuid.UUID `json:"id"`
	CompanyID    uuid.UUID `json:"company_id"`
	Type         string    `json:"type"`
	QuestionText string    `json:"question_text"`
	Category     *string   `json:"category,omitempty"`
	IsPrivate    bool      `json:"is_private"`
	UsageCount   int       `json:"usage_count"`
	IsOwn        bool      `json:"is_own"`
	CreatedAt    time.Time `json:"created_at"`
}

func FromModel(m model.QuestionBankModel, viewer uuid.UUID) QuestionBankResponse {
	return QuestionBankResponse{
		ID:           m.ID,
		CompanyID:    m.CompanyID,
		Type:         m.Type,
		QuestionText: m.QuestionText,
		Category:     m.Category,
		IsPrivate:    m.IsPrivate,
		UsageCount:   m.UsageCount,
		IsOwn:        m.CompanyID == viewer,
		CreatedAt:    m.CreatedAt,
	}
}

func FromModels(rows []model.QuestionBankModel, viewer uuid.UUID) []QuestionBankResponse {
	out := make([]QuestionBankResponse, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r, viewer))
	}
	return out
}
