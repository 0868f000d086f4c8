package model

import (
	"time"

	responseModel "internlink_backend/internals/features/forms/responses/model"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusPending   = "pending"
	StatusSubmitted = "submitted"
	StatusAccepted  = "accepted"
	StatusRejected  = "rejected"
)

func IsTerminal(status string) bool {
	return status == StatusAccepted || status == StatusRejected
}

type ApplicationModel struct {
	ID             uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	InternID       uuid.UUID  `gorm:"column:intern_id;type:uuid;not null;uniqueIndex:uq_application_intern_internship,priority:1" json:"intern_id"`
	InternshipID   uuid.UUID  `gorm:"column:internship_id;type:uuid;not null;uniqueIndex:uq_application_intern_internship,priority:2;index" json:"internship_id"`
	Status         string     `gorm:"column:status;size:20;not null;default:'pending';index" json:"status"`
	FormResponseID *uuid.UUID `gorm:"column:form_response_id;type:uuid;uniqueIndex" json:"form_response_id,omitempty"`
	AppliedAt      time.Time  `gorm:"column:applied_at;not null" json:"applied_at"`
	SubmittedAt    *time.Time `gorm:"column:submitted_at" json:"submitted_at,omitempty"`
	DecidedAt      *time.Time `gorm:"column:decided_at" json:"decided_at,omitempty"`
	UpdatedAt      time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Internship   *internshipModel.InternshipModel `gorm:"foreignKey:InternshipID;constraint:OnDelete:CASCADE" json:"-"`
	FormResponse *responseModel.FormResponseModel `gorm:"foreignKey:FormResponseID;constraint:OnDelete:SET NULL" json:"-"`
}

func (ApplicationModel) TableName() string { return "applications" }

func (m *ApplicationModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	if m.Status == "" {
		m.Status = StatusPending
	}
	if m.AppliedAt.IsZero() {
		m.AppliedAt = time.Now().UTC()
	}
	return nil
}
