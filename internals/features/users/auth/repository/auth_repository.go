// internals/features/users/auth/repository/auth_repository.go
package repository

import (
	"context"
	"time"

	authModel "internlink_backend/internals/features/users/auth/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

/* ====================== USER ====================== */

func FindUserByEmail(ctx context.Context, db *gorm.DB, email string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByGoogleID(ctx context.Context, db *gorm.DB, googleID string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).Where("google_id = ?", googleID).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByID(ctx context.Context, db *gorm.DB, userID uuid.UUID) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).First(&user, "id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func FindUserByVerifyToken(ctx context.Context, db *gorm.DB, tokenHash string) (*authModel.UserModel, error) {
	var user authModel.UserModel
	if err := db.WithContext(ctx).Where("verify_token = ?", tokenHash).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func UpdateUserPassword(ctx context.Context, db *gorm.DB, userID uuid.UUID, hash string) error {
	return db.WithContext(ctx).Model(&authModel.UserModel{}).Where("id = ?", userID).Update("password", hash).Error
}

/* ====================== REFRESH TOKEN ====================== */

func CreateRefreshToken(db *gorm.DB, rt *authModel.RefreshToken) error {
	return db.Create(rt).Error
}

// FindActiveRefreshToken: belum di-revoke dan belum expired.
func FindActiveRefreshToken(ctx context.Context, db *gorm.DB, hash string) (*authModel.RefreshToken, error) {
	var rt authModel.RefreshToken
	err := db.WithContext(ctx).
		Where("token_hash = ? AND revoked_at IS NULL AND expires_at > ?", hash, time.Now().UTC()).
		First(&rt).Error
	if err != nil {
		return nil, err
	}
	return &rt, nil
}

// RevokeRefreshToken: false kalau token sudah di-revoke lebih dulu (dipakai ulang).
func RevokeRefreshToken(ctx context.Context, db *gorm.DB, hash string) (bool, error) {
	res := db.WithContext(ctx).Model(&authModel.RefreshToken{}).
		Where("token_hash = ? AND revoked_at IS NULL", hash).
		Update("revoked_at", time.Now().UTC())
	return res.RowsAffected > 0, res.Error
}

func CleanupRefreshTokens(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ? OR revoked_at IS NOT NULL", now).
		Delete(&authModel.RefreshToken{})
	return res.RowsAffected, res.Error
}

/* ====================== BLACKLIST TOKEN ====================== */

// BlacklistToken idempotent: expired_at diperpanjang kalau sudah ada.
func BlacklistToken(ctx context.Context, db *gorm.DB, tokenHash string, until time.Time) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "token_hash"}},
			DoUpdates: clause.AssignmentColumns([]string{"expired_at"}),
		}).
		Create(&authModel.TokenBlacklist{TokenHash: tokenHash, ExpiredAt: until}).Error
}

func IsBlacklisted(ctx context.Context, db *gorm.DB, tokenHash string) (bool, error) {
	var n int64
	err := db.WithContext(ctx).Model(&authModel.TokenBlacklist{}).
		Where("token_hash = ? AND expired_at > ?", tokenHash, time.Now().UTC()).
		Count(&n).Error
	return n > 0, err
}

func CleanupExpiredBlacklist(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).Where("expired_at <= ?", now).Delete(&authModel.TokenBlacklist{})
	return res.RowsAffected, res.Error
}
