package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// CompanyModel: ID sama dengan users.id (1:1 dengan akun COMPANY).
type CompanyModel struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;size:160;not null" json:"name"`
	Website     *string   `gorm:"column:website;size:255" json:"website,omitempty"`
	Industry    *string   `gorm:"column:industry;size:120" json:"industry,omitempty"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	IsNonProfit bool      `gorm:"column:is_non_profit;not null;default:false" json:"is_non_profit"`
	LogoURL     *string   `gorm:"column:logo_url" json:"logo_url,omitempty"`
	TeamLabel   *string   `gorm:"column:team_label;size:120" json:"team_label,omitempty"`
	City        *string   `gorm:"column:city;size:120" json:"city,omitempty"`
	State       *string   `gorm:"column:state;size:60" json:"state,omitempty"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (CompanyModel) TableName() string { return "companies" }

// Team: label yang ditempel ke profil intern saat diterima.
func (c *CompanyModel) Team() string {
	if c.TeamLabel != nil && strings.TrimSpace(*c.TeamLabel) != "" {
		return strings.TrimSpace(*c.TeamLabel)
	}
	return c.Name
}
