// internals/middlewares/auth/auth_middleware.go
package auth

import (
	"errors"
	"log"
	"time"

	"internlink_backend/internals/configs"
	authRepo "internlink_backend/internals/features/users/auth/repository"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"gorm.io/gorm"
)

const expirySkew = 30 * time.Second

// AuthMiddleware: token wajib. Gagal → 401 (atau 403 kalau akun nonaktif).
func AuthMiddleware(cfg *configs.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := helperAuth.ExtractBearerToken(c)
		if err != nil {
			return helper.FromError(c, err)
		}
		if err := authenticate(c, cfg, db, tokenString); err != nil {
			return helper.FromError(c, err)
		}
		return c.Next()
	}
}

func authenticate(c *fiber.Ctx, cfg *configs.Config, db *gorm.DB, tokenString string) error {
	// 1) secret
	secretKey := cfg.JWTSecret
	if secretKey == "" {
		log.Println("[ERROR] JWT_SECRET kosong")
		return fault.Internal("authentication is not configured", nil)
	}

	// 2) blacklist (hasil logout)
	blocked, err := authRepo.IsBlacklisted(c.Context(), db, helperAuth.HashToken(tokenString))
	if err != nil {
		log.Printf("[ERROR] blacklist lookup: %v", err)
		return fault.Internal("failed to verify token", err)
	}
	if blocked {
		return fault.Unauthorized("token has been revoked")
	}

	// 3) parse & verifikasi signature; exp dicek manual dengan skew
	claims := jwt.MapClaims{}
	parser := jwt.Parser{SkipClaimsValidation: true}
	if _, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secretKey), nil
	}); err != nil {
		return fault.Unauthorized("invalid token")
	}
	if typ, _ := claims["typ"].(string); typ != "" && typ != "access" {
		return fault.Unauthorized("invalid token type")
	}
	if err := validateTokenExpiry(claims, expirySkew); err != nil {
		return fault.Unauthorized("token expired")
	}

	// 4) user aktif
	userID, err := extractUserID(claims)
	if err != nil {
		return fault.Unauthorized("invalid or missing user id")
	}
	if err := ensureUserActive(c, db, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return fault.Unauthorized("user not found")
		}
		if errors.Is(err, errUserInactive) {
			return fault.Forbidden("account has been deactivated")
		}
		return fault.Internal("failed to load user", err)
	}

	// 5) simpan ke locals
	c.Locals(helperAuth.LocUserID, userID.String())
	c.Locals(helperAuth.LocRawToken, tokenString)
	storeBasicClaimsToLocals(c, claims)
	return nil
}
