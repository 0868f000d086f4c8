// file: internals/features/users/auth/route/user_route.go
package route

import (
	controller "internlink_backend/internals/features/users/auth/controller"
	"internlink_backend/internals/features/users/auth/service"
	rateLimiter "internlink_backend/internals/middlewares"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// AuthRoutes: signup/login/refresh, tanpa token.
func AuthRoutes(public fiber.Router, svc *service.Service, v *validator.Validate, store fiber.Storage) {
	authController := controller.NewAuthController(svc, v)

	// ==========================
	// PUBLIC
	// Base: /api/auth
	// ==========================
	baseAuth := public.Group("/auth")
	baseAuth.Post("/signup", rateLimiter.RegisterRateLimiter(store), authController.Signup)
	baseAuth.Post("/login", rateLimiter.LoginRateLimiter(store), authController.Login)
	baseAuth.Post("/login-google", rateLimiter.LoginRateLimiter(store), authController.LoginGoogle)
	baseAuth.Post("/refresh-token", authController.RefreshToken)
	baseAuth.Post("/verify-email", authController.VerifyEmail)

}

// AuthUserRoutes: router sudah melewati AuthMiddleware.
func AuthUserRoutes(protected fiber.Router, svc *service.Service, v *validator.Validate) {
	authController := controller.NewAuthController(svc, v)

	me := protected.Group("/auth")
	me.Post("/logout", authController.Logout)
	me.Get("/me", authController.Me)
	me.Post("/change-password", authController.ChangePassword)
}
