package dto

import (
	"time"

	authModel "internlink_backend/internals/features/users/auth/model"

	"github.com/google/uuid"
)

/* ===================== REQUEST ===================== */

type SignupRequest struct {
	Email    string `json:"email" validate:"required,email,max=255"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Name     string `json:"name" validate:"required,max=120"`
	Role     string `json:"role" validate:"required"`

	// COMPANY
	CompanyName string `json:"company_name" validate:"max=160"`
	Website     string `json:"website" validate:"max=255"`
	Industry    string `json:"industry" validate:"max=120"`
	IsNonProfit bool   `json:"is_non_profit"`

	// INTERN
	School       string `json:"school" validate:"max=160"`
	Grade        string `json:"grade" validate:"max=20"`
	ReferralCode string `json:"referral_code" validate:"max=16"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token" validate:"required"`
	// dipakai hanya saat akun baru dibuat; default INTERN
	Role string `json:"role"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" validate:"required,len=64,hexadecimal"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

/* ===================== RESPONSE ===================== */

type UserView struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	Role          string    `json:"role"`
	Name          string    `json:"name,omitempty"`
	EmailVerified bool      `json:"email_verified"`
}

func FromUser(u *authModel.UserModel) UserView {
	return UserView{
		ID:            u.ID,
		Email:         u.Email,
		Role:          u.Role,
		Name:          u.Name,
		EmailVerified: u.EmailVerifiedAt != nil,
	}
}

// Session: hasil login/refresh; cookie diset oleh controller.
type Session struct {
	User             UserView  `json:"user"`
	AccessToken      string    `json:"access_token"`
	RefreshToken     string    `json:"-"`
	AccessExpiresAt  time.Time `json:"access_expires_at"`
	RefreshExpiresAt time.Time `json:"-"`
}

type MeResponse struct {
	User    UserView `json:"user"`
	Profile any      `json:"profile,omitempty"`
}
