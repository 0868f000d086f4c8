package routes

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"internlink_backend/internals/configs"
	"internlink_backend/internals/databases/dbtest"
	helper "internlink_backend/internals/helpers"
	"internlink_backend/internals/helpers/llm"
	"internlink_backend/internals/helpers/redisx"
	"internlink_backend/internals/helpers/webtext"
	routeDetails "internlink_backend/internals/route/details"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
)

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()
	db := dbtest.Open(t)
	cfg := &configs.Config{JWTSecret: "access-secret", JWTRefreshSecret: "refresh-secret"}

	app := fiber.New(fiber.Config{
		JSONEncoder:  sonic.Marshal,
		JSONDecoder:  sonic.Unmarshal,
		ErrorHandler: helper.ErrorHandler,
	})
	SetupRoutes(app, routeDetails.Deps{
		Cfg:      cfg,
		DB:       db,
		Elevated: db,
		Validate: helper.NewValidator(),
		Store:    redisx.NewStore(nil, "test", time.Minute),
		AI:       llm.New(cfg),
		Web:      webtext.NewFetcher(time.Second),
	})
	return app
}

func do(t *testing.T, app *fiber.App, method, path, body, token string) (*http.Response, map[string]any) {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, rd)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var out map[string]any
	_ = sonic.Unmarshal(raw, &out)
	return resp, out
}

func TestHealthAndDocs(t *testing.T) {
	app := newTestApp(t)

	resp, out := do(t, app, http.MethodGet, "/health", "", "")
	if resp.StatusCode != fiber.StatusOK || out["database"] != "Connected" || out["cache"] != "memory" {
		t.Fatalf("health = %d %v", resp.StatusCode, out)
	}
	if out["ai_enabled"] != false {
		t.Fatalf("ai_enabled = %v", out["ai_enabled"])
	}

	resp, out = do(t, app, http.MethodGet, "/swagger/doc.json", "", "")
	if resp.StatusCode != fiber.StatusOK || out["swagger"] != "2.0" {
		t.Fatalf("doc.json = %d %v", resp.StatusCode, out["swagger"])
	}
}

func TestPublicAndProtectedGroups(t *testing.T) {
	app := newTestApp(t)

	if resp, _ := do(t, app, http.MethodGet, "/api/opportunities", "", ""); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("public listing: %d", resp.StatusCode)
	}
	if resp, _ := do(t, app, http.MethodGet, "/api/referrals/validate/NOPE2345", "", ""); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("referral validate: %d", resp.StatusCode)
	}
	if resp, _ := do(t, app, http.MethodGet, "/api/companies/me", "", ""); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("protected without token: %d", resp.StatusCode)
	}

	resp, _ := do(t, app, http.MethodPost, "/api/auth/signup",
		`{"email":"owner@acme.io","password":"secret123","name":"Owner","role":"COMPANY","company_name":"Acme"}`, "")
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("signup: %d", resp.StatusCode)
	}
	resp, out := do(t, app, http.MethodPost, "/api/auth/login", `{"email":"owner@acme.io","password":"secret123"}`, "")
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("login: %d %v", resp.StatusCode, out)
	}
	data, _ := out["data"].(map[string]any)
	token, _ := data["access_token"].(string)

	if resp, out := do(t, app, http.MethodGet, "/api/auth/me", "", token); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("me: %d %v", resp.StatusCode, out)
	}
	if resp, _ := do(t, app, http.MethodGet, "/api/companies/me", "", token); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("company profile: %d", resp.StatusCode)
	}
	// intern-only endpoint ditolak untuk company
	if resp, _ := do(t, app, http.MethodGet, "/api/interns/me", "", token); resp.StatusCode != fiber.StatusForbidden {
		t.Fatalf("intern profile as company: %d", resp.StatusCode)
	}

	if resp, _ := do(t, app, http.MethodPost, "/api/auth/logout", "", token); resp.StatusCode != fiber.StatusOK {
		t.Fatalf("logout: %d", resp.StatusCode)
	}
	if resp, _ := do(t, app, http.MethodGet, "/api/auth/me", "", token); resp.StatusCode != fiber.StatusUnauthorized {
		t.Fatalf("blacklisted token: %d", resp.StatusCode)
	}
}

func TestVoiceWithoutProviderIsUnavailable(t *testing.T) {
	app := newTestApp(t)
	if resp, _ := do(t, app, http.MethodPost, "/api/interview/voice/tts", `{"text":"Tell me about yourself"}`, ""); resp.StatusCode != fiber.StatusServiceUnavailable {
		t.Fatalf("tts: %d", resp.StatusCode)
	}
}

func TestDeleteOpportunityReturnsSummary(t *testing.T) {
	app := newTestApp(t)

	if resp, _ := do(t, app, http.MethodPost, "/api/auth/signup",
		`{"email":"hr@acme.io","password":"secret123","name":"HR","role":"COMPANY","company_name":"Acme"}`, ""); resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("signup: %d", resp.StatusCode)
	}
	_, out := do(t, app, http.MethodPost, "/api/auth/login", `{"email":"hr@acme.io","password":"secret123"}`, "")
	data, _ := out["data"].(map[string]any)
	token, _ := data["access_token"].(string)

	resp, out := do(t, app, http.MethodPost, "/api/opportunities", `{"title":"Data Intern"}`, token)
	if resp.StatusCode != fiber.StatusCreated {
		t.Fatalf("create: %d %v", resp.StatusCode, out)
	}
	created, _ := out["data"].(map[string]any)
	id, _ := created["id"].(string)

	resp, out = do(t, app, http.MethodPost, "/api/opportunities/"+id+"/delete", "", token)
	if resp.StatusCode != fiber.StatusOK {
		t.Fatalf("delete: %d %v", resp.StatusCode, out)
	}
	data, _ = out["data"].(map[string]any)
	summary, ok := data["summary"].(map[string]any)
	if !ok {
		t.Fatalf("summary missing: %v", out)
	}
	if _, ok := summary["deletedCascade"].([]any); !ok {
		t.Fatalf("deletedCascade = %v", summary["deletedCascade"])
	}
	preserved, _ := summary["preserved"].(map[string]any)
	if preserved["acceptedUsersCount"] != float64(0) {
		t.Fatalf("preserved = %v", preserved)
	}
}
