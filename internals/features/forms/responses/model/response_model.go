package model

import (
	"time"

	formModel "internlink_backend/internals/features/forms/forms/model"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusDraft     = "draft"
	StatusSubmitted = "submitted"
)

type FormResponseModel struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FormID      uuid.UUID  `gorm:"column:form_id;type:uuid;not null;index" json:"form_id"`
	UserID      uuid.UUID  `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Status      string     `gorm:"column:status;size:20;not null;default:'draft'" json:"status"`
	SubmittedAt *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Form *formModel.FormModel `gorm:"foreignKey:FormID;constraint:OnDelete:CASCADE" json:"-"`
}

func (FormResponseModel) TableName() string { return "form_responses" }

func (m *FormResponseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = StatusDraft
	}
	return nil
}

// ResponseAnswerModel: answer_text XOR answer_data, tidak pernah keduanya.
type ResponseAnswerModel struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	ResponseID uuid.UUID      `gorm:"column:response_id;type:uuid;not null;uniqueIndex:uq_answer_response_question,priority:1" json:"response_id"`
	QuestionID uuid.UUID      `gorm:"column:question_id;type:uuid;not null;uniqueIndex:uq_answer_response_question,priority:2;index" json:"question_id"`
	AnswerText *string        `gorm:"column:answer_text" json:"answer_text"`
	AnswerData datatypes.JSON `gorm:"column:answer_data" json:"answer_data"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Response *FormResponseModel           `gorm:"foreignKey:ResponseID;constraint:OnDelete:CASCADE" json:"-"`
	Question *formModel.FormQuestionModel `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"-"`
}

func (ResponseAnswerModel) TableName() string { return "response_answers" }

func (m *ResponseAnswerModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// Value: isi jawaban dalam bentuk apa adanya (string atau JSON).
func (m *ResponseAnswerModel) Value() any {
	if m.AnswerText != nil {
		return *m.AnswerText
	}
	if len(m.AnswerData) > 0 {
		return m.AnswerData
	}
	return nil
}
