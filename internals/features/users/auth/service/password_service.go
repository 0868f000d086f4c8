package service

import (
	"context"
	"errors"
	"log"

	"internlink_backend/internals/features/users/auth/dto"
	authHelper "internlink_backend/internals/features/users/auth/helper"
	authModel "internlink_backend/internals/features/users/auth/model"
	authRepo "internlink_backend/internals/features/users/auth/repository"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ========================== CHANGE PASSWORD ==========================
func (s *Service) ChangePassword(ctx context.Context, userID uuid.UUID, req dto.ChangePasswordRequest) error {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return pgerr.Map(err, "user")
	}
	if err := authHelper.CheckPasswordHash(user.Password, req.OldPassword); err != nil {
		return fault.Validation("old password is incorrect")
	}
	if req.OldPassword == req.NewPassword {
		return fault.Validation("new password must differ from the old one")
	}
	if err := authHelper.ValidatePassword(req.NewPassword); err != nil {
		return fault.Validation(err.Error())
	}
	hash, err := authHelper.HashPassword(req.NewPassword)
	if err != nil {
		return fault.Internal("failed to hash password", err)
	}
	if err := authRepo.UpdateUserPassword(ctx, s.DB, userID, hash); err != nil {
		return pgerr.Map(err, "user")
	}
	log.Printf("[INFO] password changed user=%s", userID)
	return nil
}

// ========================== VERIFY EMAIL ==========================
func (s *Service) VerifyEmail(ctx context.Context, token string) (*dto.UserView, error) {
	user, err := authRepo.FindUserByVerifyToken(ctx, s.DB, helperAuth.HashToken(token))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Validation("invalid or already used verification token")
		}
		return nil, pgerr.Map(err, "user")
	}
	now := nowUTC()
	if err := s.DB.WithContext(ctx).Model(&authModel.UserModel{}).
		Where("id = ?", user.ID).
		Updates(map[string]any{"email_verified_at": now, "verify_token": nil}).Error; err != nil {
		return nil, pgerr.Map(err, "user")
	}
	user.EmailVerifiedAt = &now
	v := dto.FromUser(user)
	return &v, nil
}
