package service

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"
	"regexp"
	"strings"
	"testing"
	"time"

	"internlink_backend/internals/configs"
	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/users/auth/dto"
	authModel "internlink_backend/internals/features/users/auth/model"
	"internlink_backend/internals/features/users/auth/scheduler"
	companyModel "internlink_backend/internals/features/users/companies/model"
	internModel "internlink_backend/internals/features/users/interns/model"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"

	"gorm.io/gorm"
)

func newService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db := dbtest.Open(t)
	cfg := &configs.Config{JWTSecret: "access-secret", JWTRefreshSecret: "refresh-secret", GoogleClientID: "client"}
	return New(db, cfg), db
}

func signup(t *testing.T, svc *Service, req dto.SignupRequest) *authModel.UserModel {
	t.Helper()
	u, err := svc.Signup(context.Background(), req)
	if err != nil {
		t.Fatalf("signup %s: %v", req.Email, err)
	}
	return u
}

func TestSignupCompanyCreatesProfile(t *testing.T) {
	svc, db := newService(t)
	u := signup(t, svc, dto.SignupRequest{
		Email: " HR@Acme.io ", Password: "secret123", Name: "Dana", Role: "company",
		CompanyName: "Acme", Website: "acme.io",
	})
	if u.Email != "hr@acme.io" || u.Role != authModel.RoleCompany {
		t.Fatalf("user = %+v", u)
	}
	var c companyModel.CompanyModel
	if err := db.First(&c, "id = ?", u.ID).Error; err != nil {
		t.Fatalf("company profile: %v", err)
	}
	if c.Name != "Acme" || c.Website == nil || *c.Website != "acme.io" {
		t.Fatalf("company = %+v", c)
	}
}

func TestSignupInternWithReferral(t *testing.T) {
	svc, db := newService(t)
	first := signup(t, svc, dto.SignupRequest{Email: "a@x.io", Password: "secret123", Name: "Ari", Role: "INTERN", School: "North High"})

	var ref internModel.InternProfileModel
	if err := db.First(&ref, "id = ?", first.ID).Error; err != nil {
		t.Fatal(err)
	}
	if len(ref.ReferralCode) != 8 || ref.ProfileCompletion == 0 {
		t.Fatalf("profile = %+v", ref)
	}

	second := signup(t, svc, dto.SignupRequest{
		Email: "b@x.io", Password: "secret123", Name: "Bo", Role: "INTERN",
		ReferralCode: strings.ToLower(ref.ReferralCode),
	})
	var p internModel.InternProfileModel
	if err := db.First(&p, "id = ?", second.ID).Error; err != nil {
		t.Fatal(err)
	}
	if p.ReferredBy == nil || *p.ReferredBy != first.ID {
		t.Fatalf("referred_by = %v", p.ReferredBy)
	}
	if p.ReferralCode == ref.ReferralCode {
		t.Fatal("referral codes must be unique")
	}
}

func TestSignupRejections(t *testing.T) {
	svc, db := newService(t)
	signup(t, svc, dto.SignupRequest{Email: "dup@x.io", Password: "secret123", Name: "A", Role: "INTERN"})

	cases := []struct {
		name string
		req  dto.SignupRequest
		kind fault.Kind
	}{
		{"duplicate", dto.SignupRequest{Email: "DUP@x.io", Password: "secret123", Name: "B", Role: "INTERN"}, fault.KindConflict},
		{"role", dto.SignupRequest{Email: "r@x.io", Password: "secret123", Name: "B", Role: "ADMIN"}, fault.KindValidation},
		{"weak password", dto.SignupRequest{Email: "w@x.io", Password: "onlyletters", Name: "B", Role: "INTERN"}, fault.KindValidation},
		{"unknown referral", dto.SignupRequest{Email: "u@x.io", Password: "secret123", Name: "B", Role: "INTERN", ReferralCode: "NOPE1234"}, fault.KindValidation},
	}
	for _, tc := range cases {
		if _, err := svc.Signup(context.Background(), tc.req); !fault.Is(err, tc.kind) {
			t.Errorf("%s: got %v", tc.name, err)
		}
	}

	var n int64
	db.Model(&authModel.UserModel{}).Count(&n)
	if n != 1 {
		t.Fatalf("rejected signups must not create users, have %d", n)
	}
}

func TestLoginAndGuards(t *testing.T) {
	svc, db := newService(t)
	u := signup(t, svc, dto.SignupRequest{Email: "l@x.io", Password: "secret123", Name: "L", Role: "INTERN"})
	ctx := context.Background()

	sess, err := svc.Login(ctx, dto.LoginRequest{Email: "L@x.io", Password: "secret123"}, "go-test")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if sess.AccessToken == "" || sess.RefreshToken == "" || sess.User.ID != u.ID {
		t.Fatalf("session = %+v", sess)
	}

	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "l@x.io", Password: "wrong123"}, ""); !fault.Is(err, fault.KindUnauthorized) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "ghost@x.io", Password: "secret123"}, ""); !fault.Is(err, fault.KindUnauthorized) {
		t.Fatalf("unknown email: %v", err)
	}

	db.Model(&authModel.UserModel{}).Where("id = ?", u.ID).Update("is_active", false)
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "l@x.io", Password: "secret123"}, ""); !fault.Is(err, fault.KindForbidden) {
		t.Fatalf("inactive: %v", err)
	}
}

func TestLoginEmailVerification(t *testing.T) {
	svc, db := newService(t)
	svc.Cfg.EmailVerificationRequired = true
	ctx := context.Background()

	u := signup(t, svc, dto.SignupRequest{Email: "v@x.io", Password: "secret123", Name: "V", Role: "COMPANY"})
	_, err := svc.Login(ctx, dto.LoginRequest{Email: "v@x.io", Password: "secret123"}, "")
	f, ok := fault.As(err)
	if !ok || f.Kind != fault.KindForbidden || f.Code != "EMAIL_NOT_VERIFIED" {
		t.Fatalf("unverified login: %v", err)
	}

	// akun lama (sebelum cutoff) lolos
	svc.Cfg.LegacyUserCutoff = time.Now().Add(time.Hour)
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "v@x.io", Password: "secret123"}, ""); err != nil {
		t.Fatalf("legacy bypass: %v", err)
	}
	svc.Cfg.LegacyUserCutoff = time.Time{}

	token := strings.Repeat("ab", 32)
	db.Model(&authModel.UserModel{}).Where("id = ?", u.ID).Update("verify_token", helperAuth.HashToken(token))
	view, err := svc.VerifyEmail(ctx, token)
	if err != nil || !view.EmailVerified {
		t.Fatalf("verify: %+v %v", view, err)
	}
	if _, err := svc.VerifyEmail(ctx, token); !fault.Is(err, fault.KindValidation) {
		t.Fatalf("token reuse: %v", err)
	}
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "v@x.io", Password: "secret123"}, ""); err != nil {
		t.Fatalf("verified login: %v", err)
	}
}

func TestRefreshRotatesAndLogoutBlacklists(t *testing.T) {
	svc, _ := newService(t)
	signup(t, svc, dto.SignupRequest{Email: "r@x.io", Password: "secret123", Name: "R", Role: "INTERN"})
	ctx := context.Background()

	sess, err := svc.Login(ctx, dto.LoginRequest{Email: "r@x.io", Password: "secret123"}, "")
	if err != nil {
		t.Fatal(err)
	}
	next, err := svc.Refresh(ctx, sess.RefreshToken, "")
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if next.RefreshToken == sess.RefreshToken {
		t.Fatal("refresh token must rotate")
	}
	if _, err := svc.Refresh(ctx, sess.RefreshToken, ""); !fault.Is(err, fault.KindUnauthorized) {
		t.Fatalf("reused refresh token: %v", err)
	}
	if _, err := svc.Refresh(ctx, next.AccessToken, ""); !fault.Is(err, fault.KindUnauthorized) {
		t.Fatalf("access token as refresh: %v", err)
	}

	if err := svc.Logout(ctx, next.AccessToken, next.RefreshToken); err != nil {
		t.Fatal(err)
	}
	blocked, err := svc.IsBlacklisted(ctx, next.AccessToken)
	if err != nil || !blocked {
		t.Fatalf("blacklisted = %v, %v", blocked, err)
	}
	if _, err := svc.Refresh(ctx, next.RefreshToken, ""); !fault.Is(err, fault.KindUnauthorized) {
		t.Fatalf("refresh after logout: %v", err)
	}
	// logout idempotent
	if err := svc.Logout(ctx, next.AccessToken, ""); err != nil {
		t.Fatal(err)
	}
}

func TestMissingSecretIsServerError(t *testing.T) {
	svc, _ := newService(t)
	signup(t, svc, dto.SignupRequest{Email: "s@x.io", Password: "secret123", Name: "S", Role: "INTERN"})
	svc.Cfg.JWTSecret = ""
	_, err := svc.Login(context.Background(), dto.LoginRequest{Email: "s@x.io", Password: "secret123"}, "")
	f, ok := fault.As(err)
	if !ok || f.Status() != 500 {
		t.Fatalf("expected 500 fault, got %v", err)
	}
}

type fakeGoogle struct {
	ident *GoogleIdentity
	err   error
}

func (f fakeGoogle) Verify(string, string) (*GoogleIdentity, error) { return f.ident, f.err }

func TestLoginGoogle(t *testing.T) {
	svc, db := newService(t)
	ctx := context.Background()

	svc.Google = fakeGoogle{err: errors.New("bad audience")}
	if _, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "x"}, ""); !fault.Is(err, fault.KindUnauthorized) {
		t.Fatalf("bad token: %v", err)
	}

	svc.Google = fakeGoogle{ident: &GoogleIdentity{Subject: "g-1", Email: "New@x.io", Name: "Nia"}}
	sess, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "x"}, "")
	if err != nil {
		t.Fatalf("google signup: %v", err)
	}
	if sess.User.Role != authModel.RoleIntern || !sess.User.EmailVerified {
		t.Fatalf("user = %+v", sess.User)
	}
	var n int64
	db.Model(&internModel.InternProfileModel{}).Where("id = ?", sess.User.ID).Count(&n)
	if n != 1 {
		t.Fatal("google signup must create the intern profile")
	}

	// email yang sudah ada ditautkan
	existing := signup(t, svc, dto.SignupRequest{Email: "old@x.io", Password: "secret123", Name: "O", Role: "COMPANY"})
	svc.Google = fakeGoogle{ident: &GoogleIdentity{Subject: "g-2", Email: "old@x.io"}}
	linked, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "x"}, "")
	if err != nil || linked.User.ID != existing.ID {
		t.Fatalf("link: %+v %v", linked, err)
	}

	svc.Cfg.GoogleClientID = ""
	if _, err := svc.LoginGoogle(ctx, dto.GoogleLoginRequest{IDToken: "x"}, ""); !fault.Is(err, fault.KindUnavailable) {
		t.Fatalf("unconfigured: %v", err)
	}
}

func TestChangePasswordAndMe(t *testing.T) {
	svc, _ := newService(t)
	u := signup(t, svc, dto.SignupRequest{Email: "c@x.io", Password: "secret123", Name: "C", Role: "COMPANY", CompanyName: "Cee"})
	ctx := context.Background()

	if err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{OldPassword: "nope1234", NewPassword: "better123"}); !fault.Is(err, fault.KindValidation) {
		t.Fatalf("wrong old password: %v", err)
	}
	if err := svc.ChangePassword(ctx, u.ID, dto.ChangePasswordRequest{OldPassword: "secret123", NewPassword: "better123"}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Login(ctx, dto.LoginRequest{Email: "c@x.io", Password: "better123"}, ""); err != nil {
		t.Fatalf("login with new password: %v", err)
	}

	me, err := svc.Me(ctx, u.ID)
	if err != nil {
		t.Fatal(err)
	}
	c, ok := me.Profile.(companyModel.CompanyModel)
	if !ok || c.Name != "Cee" {
		t.Fatalf("profile = %#v", me.Profile)
	}
}

func TestCleanupRemovesExpired(t *testing.T) {
	svc, db := newService(t)
	past := time.Now().UTC().Add(-time.Hour)
	db.Create(&authModel.TokenBlacklist{TokenHash: strings.Repeat("a", 64), ExpiredAt: past})
	db.Create(&authModel.TokenBlacklist{TokenHash: strings.Repeat("b", 64), ExpiredAt: time.Now().UTC().Add(time.Hour)})

	bl, _ := scheduler.RunCleanup(svc.DB)
	if bl != 1 {
		t.Fatalf("removed blacklist rows = %d", bl)
	}
}

func TestSignupNeverLogsRawVerificationToken(t *testing.T) {
	svc, db := newService(t)
	svc.Cfg.EmailVerificationRequired = true

	var buf bytes.Buffer
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(os.Stderr) })

	u := signup(t, svc, dto.SignupRequest{Email: "log@x.io", Password: "secret123", Name: "L", Role: "INTERN"})

	var stored authModel.UserModel
	if err := db.First(&stored, "id = ?", u.ID).Error; err != nil || stored.VerifyToken == nil {
		t.Fatalf("verify token not stored: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "fp="+TokenFingerprint(*stored.VerifyToken)) {
		t.Fatalf("fingerprint missing from log: %s", out)
	}
	if long := regexp.MustCompile(`[0-9a-f]{32,}`).FindString(out); long != "" {
		t.Fatalf("log carries a token-sized secret %q: %s", long, out)
	}
}
