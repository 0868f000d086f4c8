package controller

import (
	"strings"
	"time"

	"internlink_backend/internals/features/users/auth/dto"
	"internlink_backend/internals/features/users/auth/service"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type AuthController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewAuthController(svc *service.Service, v *validator.Validate) *AuthController {
	return &AuthController{Svc: svc, Validate: v}
}

/* ===================== COOKIES ===================== */

func setAuthCookies(c *fiber.Ctx, s *dto.Session) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    s.AccessToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  s.AccessExpiresAt,
	})
	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    s.RefreshToken,
		HTTPOnly: true,
		Secure:   true,
		SameSite: "None",
		Path:     "/",
		Expires:  s.RefreshExpiresAt,
	})
}

func clearAuthCookies(c *fiber.Ctx) {
	expired := time.Now().Add(-time.Hour)
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			HTTPOnly: true,
			Secure:   true,
			SameSite: "None",
			Path:     "/",
			Expires:  expired,
			MaxAge:   -1,
		})
	}
}

/* ===================== HANDLERS ===================== */

// POST /api/auth/signup
func (ac *AuthController) Signup(c *fiber.Ctx) error {
	var req dto.SignupRequest
	if err := helper.ParseAndValidate(c, ac.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	user, err := ac.Svc.Signup(c.Context(), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "account created", fiber.Map{
		"user": fiber.Map{"id": user.ID, "email": user.Email, "role": user.Role},
	})
}

// POST /api/auth/login
func (ac *AuthController) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := helper.ParseAndValidate(c, ac.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	sess, err := ac.Svc.Login(c.Context(), req, c.Get("User-Agent"))
	if err != nil {
		return helper.FromError(c, err)
	}
	setAuthCookies(c, sess)
	return helper.JsonOK(c, "login successful", sess)
}

// POST /api/auth/login-google
func (ac *AuthController) LoginGoogle(c *fiber.Ctx) error {
	var req dto.GoogleLoginRequest
	if err := helper.ParseAndValidate(c, ac.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	sess, err := ac.Svc.LoginGoogle(c.Context(), req, c.Get("User-Agent"))
	if err != nil {
		return helper.FromError(c, err)
	}
	setAuthCookies(c, sess)
	return helper.JsonOK(c, "login successful", sess)
}

// POST /api/auth/refresh-token (cookie atau body)
func (ac *AuthController) RefreshToken(c *fiber.Ctx) error {
	raw := strings.TrimSpace(c.Cookies("refresh_token"))
	if raw == "" {
		var req dto.RefreshRequest
		_ = c.BodyParser(&req)
		raw = req.RefreshToken
	}
	sess, err := ac.Svc.Refresh(c.Context(), raw, c.Get("User-Agent"))
	if err != nil {
		return helper.FromError(c, err)
	}
	setAuthCookies(c, sess)
	return helper.JsonOK(c, "token refreshed", sess)
}

// POST /api/auth/logout
func (ac *AuthController) Logout(c *fiber.Ctx) error {
	access, _ := c.Locals(helperAuth.LocRawToken).(string)
	if access == "" {
		access, _ = helperAuth.ExtractBearerToken(c)
	}
	refresh := strings.TrimSpace(c.Cookies("refresh_token"))
	if refresh == "" {
		var req dto.RefreshRequest
		_ = c.BodyParser(&req)
		refresh = req.RefreshToken
	}
	if err := ac.Svc.Logout(c.Context(), access, refresh); err != nil {
		return helper.FromError(c, err)
	}
	clearAuthCookies(c)
	return helper.JsonOK(c, "logout successful", nil)
}

// POST /api/auth/verify-email
func (ac *AuthController) VerifyEmail(c *fiber.Ctx) error {
	var req dto.VerifyEmailRequest
	if err := helper.ParseAndValidate(c, ac.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	user, err := ac.Svc.VerifyEmail(c.Context(), req.Token)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "email verified", fiber.Map{"user": user})
}

// GET /api/auth/me
func (ac *AuthController) Me(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ac.Svc.Me(c.Context(), userID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /api/auth/change-password
func (ac *AuthController) ChangePassword(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ChangePasswordRequest
	if err := helper.ParseAndValidate(c, ac.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	if err := ac.Svc.ChangePassword(c.Context(), userID, req); err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "password changed", nil)
}
