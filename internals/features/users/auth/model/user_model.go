package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleCompany = "COMPANY"
	RoleIntern  = "INTERN"
)

// UserModel merepresentasikan tabel users di database
type UserModel struct {
	ID              uuid.UUID  `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Email           string     `gorm:"column:email;size:255;uniqueIndex;not null" json:"email"`
	Password        string     `gorm:"column:password;not null" json:"-"`
	Name            string     `gorm:"column:name;size:120;not null" json:"name"`
	Role            string     `gorm:"column:role;size:20;not null;index" json:"role"`
	GoogleID        *string    `gorm:"column:google_id;size:255;uniqueIndex" json:"google_id,omitempty"`
	EmailVerifiedAt *time.Time `gorm:"column:email_verified_at" json:"email_verified_at,omitempty"`
	VerifyToken     *string    `gorm:"column:verify_token;size:64;index" json:"-"`
	IsActive        bool       `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

// TableName memastikan nama tabel sesuai dengan skema database
func (UserModel) TableName() string {
	return "users"
}

func (u *UserModel) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	u.Role = strings.ToUpper(strings.TrimSpace(u.Role))
	return nil
}

func (u *UserModel) IsCompany() bool { return u.Role == RoleCompany }
func (u *UserModel) IsIntern() bool  { return u.Role == RoleIntern }

func ValidRole(r string) bool {
	r = strings.ToUpper(strings.TrimSpace(r))
	return r == RoleCompany || r == RoleIntern
}
