package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// QuestionBankModel: satu entri per (company_id, question_text) yang sudah dinormalisasi.
type QuestionBankModel struct {
	ID           uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID    uuid.UUID `gorm:"column:company_id;type:uuid;not null;uniqueIndex:uq_question_bank_company_text,priority:1" json:"company_id"`
	Type         string    `gorm:"column:type;size:30;not null" json:"type"`
	QuestionText string    `gorm:"column:question_text;not null;uniqueIndex:uq_question_bank_company_text,priority:2" json:"question_text"`
	Category     *string   `gorm:"column:category;size:60" json:"category,omitempty"`
	IsPrivate    bool      `gorm:"column:is_private;not null;default:false" json:"is_private"`
	UsageCount   int       `gorm:"column:usage_count;not null;default:1" json:"usage_count"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (QuestionBankModel) TableName() string { return "question_bank" }

func (m *QuestionBankModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
