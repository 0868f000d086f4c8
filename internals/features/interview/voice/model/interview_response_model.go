package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type InterviewResponseModel struct {
	ID              uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InternID        uuid.UUID      `gorm:"column:intern_id;type:uuid;not null;index" json:"intern_id"`
	Question        string         `gorm:"column:question;not null;default:''" json:"question"`
	Transcript      string         `gorm:"column:transcript;not null" json:"transcript"`
	WordCount       int            `gorm:"column:word_count;not null;default:0" json:"word_count"`
	FillerCount     int            `gorm:"column:filler_count;not null;default:0" json:"filler_count"`
	DurationSeconds *float64       `gorm:"column:duration_seconds" json:"duration_seconds,omitempty"`
	Feedback        datatypes.JSON `gorm:"column:feedback" json:"feedback,omitempty"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime;index" json:"created_at"`
}

func (InterviewResponseModel) TableName() string { return "interview_responses" }

func (m *InterviewResponseModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}
