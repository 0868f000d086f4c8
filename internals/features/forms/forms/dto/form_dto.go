package dto

import (
	"time"

	"internlink_backend/internals/features/forms/forms/model"

	"github.com/google/uuid"
)

/* =========================================================
   READ SHAPE: form → sections → questions → options
========================================================= */

type QuestionView struct {
	ID             uuid.UUID  `json:"id"`
	SectionID      uuid.UUID  `json:"section_id"`
	QuestionBankID *uuid.UUID `json:"question_bank_id,omitempty"`
	Type           string     `json:"type"`
	QuestionText   string     `json:"question_text"`
	Required       bool       `json:"required"`
	OrderIndex     int        `json:"order_index"`
	Description    string     `json:"description"`
	Hint           string     `json:"hint"`
	Placeholder    string     `json:"placeholder"`
	Options        []string   `json:"options"`
}

type SectionView struct {
	ID          uuid.UUID      `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	OrderIndex  int            `json:"order_index"`
	Questions   []QuestionView `json:"questions"`
}

type FormTree struct {
	ID           uuid.UUID     `json:"id"`
	InternshipID uuid.UUID     `json:"internship_id"`
	Title        string        `json:"title"`
	CreatedAt    time.Time     `json:"created_at"`
	Sections     []SectionView `json:"sections"`
}

func NewQuestionView(q model.FormQuestionModel, opts []string) QuestionView {
	if opts == nil {
		opts = []string{}
	}
	return QuestionView{
		ID:             q.ID,
		SectionID:      q.SectionID,
		QuestionBankID: q.QuestionBankID,
		Type:           q.Type,
		QuestionText:   q.QuestionText,
		Required:       q.Required,
		OrderIndex:     q.OrderIndex,
		Description:    q.Description,
		Hint:           q.Hint,
		Placeholder:    q.Placeholder,
		Options:        opts,
	}
}

// AllQuestions meratakan tree (urutan section lalu question).
func (f *FormTree) AllQuestions() []QuestionView {
	out := make([]QuestionView, 0)
	for _, s := range f.Sections {
		out = append(out, s.Questions...)
	}
	return out
}

/* =========================================================
   WRITE SHAPE: POST /api/forms/:formId/questions
========================================================= */

type SectionInput struct {
	ID          *uuid.UUID `json:"id"`
	Key         string     `json:"section_key"` // key sementara dari client untuk section baru
	Title       string     `json:"title" validate:"max=200"`
	Description string     `json:"description"`
	OrderIndex  int        `json:"order_index"`
}

type QuestionInput struct {
	ID             *uuid.UUID `json:"id"`
	SectionID      *uuid.UUID `json:"section_id"`
	SectionKey     string     `json:"section_key"`
	QuestionBankID *uuid.UUID `json:"question_bank_id"`
	Type           string     `json:"type"`
	QuestionText   string     `json:"question_text"`
	Required       bool       `json:"required"`
	OrderIndex     int        `json:"order_index"`
	Description    string     `json:"description"`
	Hint           string     `json:"hint"`
	Placeholder    string     `json:"placeholder"`
	Options        []string   `json:"options"`
	Category       *string    `json:"category"`
}

type UpsertQuestionsRequest struct {
	Sections           []SectionInput  `json:"sections" validate:"dive"`
	Questions          []QuestionInput `json:"questions"`
	DeletedSectionIDs  []uuid.UUID     `json:"deletedSectionIds"`
	DeletedQuestionIDs []uuid.UUID     `json:"deletedQuestionIds"`
}

type EnsureFormRequest struct {
	Title string `json:"title" validate:"max=200"`
}
