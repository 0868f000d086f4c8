package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"internlink_backend/internals/configs"
	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/users/auth/dto"
	authModel "internlink_backend/internals/features/users/auth/model"
	authService "internlink_backend/internals/features/users/auth/service"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

func TestAuthMiddleware(t *testing.T) {
	db := dbtest.Open(t)
	cfg := &configs.Config{JWTSecret: "access-secret", JWTRefreshSecret: "refresh-secret"}
	svc := authService.New(db, cfg)
	ctx := context.Background()

	user, err := svc.Signup(ctx, dto.SignupRequest{Email: "m@x.io", Password: "secret123", Name: "M", Role: "INTERN"})
	if err != nil {
		t.Fatal(err)
	}
	sess, err := svc.Login(ctx, dto.LoginRequest{Email: "m@x.io", Password: "secret123"}, "")
	if err != nil {
		t.Fatal(err)
	}

	app := fiber.New()
	app.Get("/intern", AuthMiddleware(cfg, db), OnlyRoles("", authModel.RoleIntern), func(c *fiber.Ctx) error {
		return c.SendString(helperAuth.GetRole(c) + ":" + c.Locals(helperAuth.LocUserID).(string))
	})
	app.Get("/company", AuthMiddleware(cfg, db), OnlyRoles("companies only", authModel.RoleCompany), func(c *fiber.Ctx) error {
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/optional", OptionalAuthMiddleware(cfg, db), func(c *fiber.Ctx) error {
		if _, ok := helperAuth.GetUserIDOptional(c); ok {
			return c.SendString("user")
		}
		return c.SendString("anonymous")
	})

	call := func(path, token string) *http.Response {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		resp, err := app.Test(req, -1)
		if err != nil {
			t.Fatal(err)
		}
		return resp
	}

	if resp := call("/intern", ""); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("no token: %d", resp.StatusCode)
	}
	if resp := call("/intern", "garbage"); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("bad token: %d", resp.StatusCode)
	}
	if resp := call("/intern", sess.AccessToken); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("valid token: %d", resp.StatusCode)
	}
	if resp := call("/company", sess.AccessToken); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("wrong role: %d", resp.StatusCode)
	}
	if resp := call("/optional", "garbage"); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("optional with bad token: %d", resp.StatusCode)
	}

	// cookie juga diterima
	req := httptest.NewRequest(http.MethodGet, "/intern", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: sess.AccessToken})
	if resp, _ := app.Test(req, -1); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("cookie token: %d", resp.StatusCode)
	}

	// nonaktif → 403
	db.Model(&authModel.UserModel{}).Where("id = ?", user.ID).Update("is_active", false)
	if resp := call("/intern", sess.AccessToken); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("inactive: %d", resp.StatusCode)
	}
	db.Model(&authModel.UserModel{}).Where("id = ?", user.ID).Update("is_active", true)

	if err := svc.Logout(ctx, sess.AccessToken, sess.RefreshToken); err != nil {
		t.Fatal(err)
	}
	if resp := call("/intern", sess.AccessToken); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("blacklisted: %d", resp.StatusCode)
	}
}
