package middlewares

import (
	"time"

	helper "internlink_backend/internals/helpers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

// newLimiter: store nil → memori bawaan limiter (per instance).
// name jadi prefix key supaya limiter yang berbagi store tidak saling hitung.
func newLimiter(name string, max int, window time.Duration, message string, store fiber.Storage) fiber.Handler {
	cfg := limiter.Config{
		Max:        max,
		Expiration: window,
		KeyGenerator: func(c *fiber.Ctx) string {
			return name + ":" + c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return helper.JsonError(c, fiber.StatusTooManyRequests, message)
		},
	}
	if store != nil {
		cfg.Storage = store
	}
	return limiter.New(cfg)
}

// Global limiter: untuk semua endpoint biasa
func GlobalRateLimiter(store fiber.Storage) fiber.Handler {
	return newLimiter("global", 100, time.Minute, "Too many requests. Please try again later.", store)
}

// Rate limiter untuk login route (lebih ketat)
func LoginRateLimiter(store fiber.Storage) fiber.Handler {
	return newLimiter("login", 5, time.Minute, "Too many login attempts. Please wait a moment.", store)
}

// Rate limiter untuk signup route
func RegisterRateLimiter(store fiber.Storage) fiber.Handler {
	return newLimiter("register", 3, 5*time.Minute, "Too many signup attempts. Please wait a few minutes.", store)
}

// Rate limiter untuk endpoint AI (biaya per request)
func AIRateLimiter(store fiber.Storage) fiber.Handler {
	return newLimiter("ai", 20, time.Minute, "Too many AI requests. Please slow down.", store)
}
