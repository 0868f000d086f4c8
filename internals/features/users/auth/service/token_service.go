package service

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"strings"
	"time"

	"internlink_backend/internals/features/users/auth/dto"
	authModel "internlink_backend/internals/features/users/auth/model"
	authRepo "internlink_backend/internals/features/users/auth/repository"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==========================
   SECRETS & CLAIMS
========================== */

func (s *Service) secrets() (access, refresh string, err error) {
	access = strings.TrimSpace(s.Cfg.JWTSecret)
	if access == "" {
		return "", "", fault.Internal("JWT secret is not configured", nil)
	}
	refresh = strings.TrimSpace(s.Cfg.JWTRefreshSecret)
	if refresh == "" {
		refresh = access
	}
	return access, refresh, nil
}

// computeRefreshHash: HMAC-SHA256 hex, cocok dengan kolom token_hash(64).
func computeRefreshHash(token, secret string) string {
	m := hmac.New(sha256.New, []byte(secret))
	m.Write([]byte(token))
	return hex.EncodeToString(m.Sum(nil))
}

func buildAccessClaims(user *authModel.UserModel, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ":   "access",
		"jti":   uuid.NewString(),
		"sub":   user.ID.String(),
		"id":    user.ID.String(),
		"role":  user.Role,
		"name":  user.Name,
		"email": user.Email,
		"iat":   now.Unix(),
		"exp":   now.Add(accessTTLDefault).Unix(),
	}
}

func buildRefreshClaims(userID uuid.UUID, now time.Time) jwt.MapClaims {
	return jwt.MapClaims{
		"typ": "refresh",
		"jti": uuid.NewString(),
		"sub": userID.String(),
		"iat": now.Unix(),
		"exp": now.Add(refreshTTLDefault).Unix(),
	}
}

/* ==========================
   ISSUE TOKENS
========================== */

func (s *Service) issue(ctx context.Context, user *authModel.UserModel, userAgent string) (*dto.Session, error) {
	jwtSecret, refreshSecret, err := s.secrets()
	if err != nil {
		return nil, err
	}
	now := nowUTC()

	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildAccessClaims(user, now)).SignedString([]byte(jwtSecret))
	if err != nil {
		return nil, fault.Internal("failed to sign access token", err)
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, buildRefreshClaims(user.ID, now)).SignedString([]byte(refreshSecret))
	if err != nil {
		return nil, fault.Internal("failed to sign refresh token", err)
	}

	if err := createRefreshTokenFast(ctx, s.DB, &authModel.RefreshToken{
		UserID:    user.ID,
		TokenHash: computeRefreshHash(refreshToken, refreshSecret),
		ExpiresAt: now.Add(refreshTTLDefault),
		UserAgent: strptr(userAgent),
	}); err != nil {
		return nil, pgerr.Map(err, "refresh token")
	}

	return &dto.Session{
		User:             dto.FromUser(user),
		AccessToken:      accessToken,
		RefreshToken:     refreshToken,
		AccessExpiresAt:  now.Add(accessTTLDefault),
		RefreshExpiresAt: now.Add(refreshTTLDefault),
	}, nil
}

// Insert refresh token; di Postgres sinkronisasi commit diturunkan untuk transaksi ini saja.
func createRefreshTokenFast(ctx context.Context, db *gorm.DB, rt *authModel.RefreshToken) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if tx.Dialector.Name() == "postgres" {
			if err := tx.Exec(`SET LOCAL synchronous_commit = OFF`).Error; err != nil {
				log.Printf("[WARN] set synchronous_commit=OFF failed: %v", err)
			}
		}
		return authRepo.CreateRefreshToken(tx, rt)
	})
}

/* ==========================
   REFRESH (rotate)
========================== */

func (s *Service) Refresh(ctx context.Context, raw, userAgent string) (*dto.Session, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, fault.Unauthorized("refresh token is missing")
	}
	_, refreshSecret, err := s.secrets()
	if err != nil {
		return nil, err
	}

	tok, err := jwt.Parse(raw, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(refreshSecret), nil
	})
	if err != nil || !tok.Valid {
		return nil, fault.Unauthorized("refresh token invalid")
	}
	claims, _ := tok.Claims.(jwt.MapClaims)
	if typ, _ := claims["typ"].(string); typ != "refresh" {
		return nil, fault.Unauthorized("refresh token invalid")
	}
	sub, _ := claims["sub"].(string)
	userID, err := uuid.Parse(sub)
	if err != nil {
		return nil, fault.Unauthorized("refresh token invalid")
	}

	hash := computeRefreshHash(raw, refreshSecret)
	if _, err := authRepo.FindActiveRefreshToken(ctx, s.DB, hash); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Unauthorized("refresh token is not recognized")
		}
		return nil, pgerr.Map(err, "refresh token")
	}

	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Unauthorized("user no longer exists")
		}
		return nil, pgerr.Map(err, "user")
	}
	if !user.IsActive {
		return nil, fault.Forbidden("account has been deactivated")
	}

	// rotate: token lama hanya bisa dipakai sekali
	ok, err := authRepo.RevokeRefreshToken(ctx, s.DB, hash)
	if err != nil {
		return nil, pgerr.Map(err, "refresh token")
	}
	if !ok {
		return nil, fault.Unauthorized("refresh token already used")
	}
	return s.issue(ctx, user, userAgent)
}

/* ==========================
   LOGOUT & BLACKLIST
========================== */

// Logout idempotent: token kosong tetap sukses.
func (s *Service) Logout(ctx context.Context, accessToken, refreshToken string) error {
	if accessToken = strings.TrimSpace(accessToken); accessToken != "" {
		until := s.blacklistUntil(accessToken)
		if err := authRepo.BlacklistToken(ctx, s.DB, helperAuth.HashToken(accessToken), until); err != nil {
			log.Printf("[WARN] failed to blacklist token: %v", err)
		}
	} else {
		log.Println("[INFO] logout without access token")
	}

	if refreshToken = strings.TrimSpace(refreshToken); refreshToken != "" {
		if _, refreshSecret, err := s.secrets(); err == nil {
			if _, err := authRepo.RevokeRefreshToken(ctx, s.DB, computeRefreshHash(refreshToken, refreshSecret)); err != nil {
				log.Printf("[WARN] failed to revoke refresh token: %v", err)
			}
		}
	}
	return nil
}

// blacklistUntil: exp token + 1 menit; token tak terbaca → umur access token penuh.
func (s *Service) blacklistUntil(accessToken string) time.Time {
	fallback := nowUTC().Add(accessTTLDefault)
	secret := strings.TrimSpace(s.Cfg.JWTSecret)
	if secret == "" {
		return fallback
	}
	parser := jwt.Parser{SkipClaimsValidation: true}
	tok, err := parser.Parse(accessToken, func(t *jwt.Token) (any, error) { return []byte(secret), nil })
	if err != nil {
		return fallback
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return fallback
	}
	exp, ok := claims["exp"].(float64)
	if !ok {
		return fallback
	}
	until := time.Unix(int64(exp), 0).UTC().Add(time.Minute)
	if until.Before(nowUTC()) {
		return nowUTC().Add(time.Minute)
	}
	return until
}

func (s *Service) IsBlacklisted(ctx context.Context, accessToken string) (bool, error) {
	return authRepo.IsBlacklisted(ctx, s.DB, helperAuth.HashToken(accessToken))
}
