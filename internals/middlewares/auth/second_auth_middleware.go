package auth

import (
	"log"

	"internlink_backend/internals/configs"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// OptionalAuthMiddleware: token boleh tidak ada; token invalid juga lanjut sebagai anonymous.
func OptionalAuthMiddleware(cfg *configs.Config, db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tokenString, err := helperAuth.ExtractBearerToken(c)
		if err != nil {
			return c.Next()
		}
		if err := authenticate(c, cfg, db, tokenString); err != nil {
			log.Printf("[INFO] optional auth ignored: %v", err)
			c.Locals(helperAuth.LocUserID, nil)
			c.Locals(helperAuth.LocRole, nil)
		}
		return c.Next()
	}
}
