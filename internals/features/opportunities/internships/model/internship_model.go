package model

import (
	"time"

	companyModel "internlink_backend/internals/features/users/companies/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	LocationOnsite = "onsite"
	LocationRemote = "remote"
	LocationHybrid = "hybrid"
)

type InternshipModel struct {
	ID            uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	CompanyID     uuid.UUID `gorm:"column:company_id;type:uuid;not null;index" json:"company_id"`
	Title         string    `gorm:"column:title;size:200;not null" json:"title"`
	Position      *string   `gorm:"column:position;size:160" json:"position,omitempty"`
	Category      *string   `gorm:"column:category;size:60;index" json:"category,omitempty"`
	Description   *string   `gorm:"column:description" json:"description,omitempty"`
	Requirements  *string   `gorm:"column:requirements" json:"requirements,omitempty"`
	LocationCity  *string   `gorm:"column:location_city;size:120" json:"location_city,omitempty"`
	LocationState *string   `gorm:"column:location_state;size:60" json:"location_state,omitempty"`
	LocationType  string    `gorm:"column:location_type;size:20;not null;default:'onsite'" json:"location_type"`
	Pay           *string   `gorm:"column:pay;size:60" json:"pay,omitempty"`
	HoursPerWeek  *int      `gorm:"column:hours_per_week" json:"hours_per_week,omitempty"`
	IsActive      bool      `gorm:"column:is_active;not null;default:true;index" json:"is_active"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`

	Company *companyModel.CompanyModel `gorm:"foreignKey:CompanyID;constraint:OnDelete:CASCADE" json:"company,omitempty"`
}

func (InternshipModel) TableName() string { return "internships" }

func (m *InternshipModel) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

func ValidLocationType(s string) bool {
	switch s {
	case LocationOnsite, LocationRemote, LocationHybrid:
		return true
	}
	return false
}
