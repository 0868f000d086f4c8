package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"internlink_backend/internals/configs"
	"internlink_backend/internals/features/users/auth/dto"
	authHelper "internlink_backend/internals/features/users/auth/helper"
	authModel "internlink_backend/internals/features/users/auth/model"
	authRepo "internlink_backend/internals/features/users/auth/repository"
	companyModel "internlink_backend/internals/features/users/companies/model"
	internModel "internlink_backend/internals/features/users/interns/model"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	googleAuthIDTokenVerifier "github.com/futurenda/google-auth-id-token-verifier"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

/* ==========================
   Const & Types
========================== */

const (
	accessTTLDefault  = 24 * time.Hour
	refreshTTLDefault = 7 * 24 * time.Hour

	referralAttempts = 5
)

type GoogleIdentity struct {
	Subject string
	Email   string
	Name    string
}

type GoogleVerifier interface {
	Verify(idToken, audience string) (*GoogleIdentity, error)
}

type googleIDTokenVerifier struct{}

func (googleIDTokenVerifier) Verify(idToken, audience string) (*GoogleIdentity, error) {
	v := googleAuthIDTokenVerifier.Verifier{}
	if err := v.VerifyIDToken(idToken, []string{audience}); err != nil {
		return nil, err
	}
	claimSet, err := googleAuthIDTokenVerifier.Decode(idToken)
	if err != nil {
		return nil, err
	}
	return &GoogleIdentity{Subject: claimSet.Sub, Email: claimSet.Email, Name: claimSet.Name}, nil
}

type Service struct {
	DB     *gorm.DB
	Cfg    *configs.Config
	Google GoogleVerifier
}

func New(db *gorm.DB, cfg *configs.Config) *Service {
	return &Service{DB: db, Cfg: cfg, Google: googleIDTokenVerifier{}}
}

func nowUTC() time.Time { return time.Now().UTC() }

func strptr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func normalizeEmail(e string) string { return strings.ToLower(strings.TrimSpace(e)) }

/* ==========================
   SIGNUP
========================== */

func (s *Service) Signup(ctx context.Context, req dto.SignupRequest) (*authModel.UserModel, error) {
	role := strings.ToUpper(strings.TrimSpace(req.Role))
	if !authModel.ValidRole(role) {
		return nil, fault.Validation("role must be COMPANY or INTERN")
	}
	email := normalizeEmail(req.Email)
	if !authHelper.IsValidEmail(email) {
		return nil, fault.Validation("invalid email address")
	}
	if err := authHelper.ValidatePassword(req.Password); err != nil {
		return nil, fault.Validation(err.Error())
	}

	if _, err := authRepo.FindUserByEmail(ctx, s.DB, email); err == nil {
		return nil, fault.Conflict("EMAIL_TAKEN", "Email already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pgerr.Map(err, "user")
	}

	hash, err := authHelper.HashPassword(req.Password)
	if err != nil {
		return nil, fault.Internal("failed to hash password", err)
	}

	user := &authModel.UserModel{
		Email:    email,
		Password: hash,
		Name:     strings.TrimSpace(req.Name),
		Role:     role,
		IsActive: true,
	}

	if s.Cfg.EmailVerificationRequired {
		h := helperAuth.HashToken(authHelper.RandomHex(32))
		user.VerifyToken = &h
	}

	if err := s.createAccount(ctx, user, req); err != nil {
		return nil, err
	}

	if user.VerifyToken != nil {
		// pengiriman email di luar service ini; token mentah tidak pernah di-log
		log.Printf("[INFO] verification token issued user=%s fp=%s", user.ID, TokenFingerprint(*user.VerifyToken))
	}
	log.Printf("[INFO] signup user=%s role=%s", user.ID, user.Role)
	return user, nil
}

// createAccount: user + profil dalam satu transaksi, profil gagal → user ikut rollback.
func (s *Service) createAccount(ctx context.Context, user *authModel.UserModel, req dto.SignupRequest) error {
	var referrer *uuid.UUID
	if code := strings.ToUpper(strings.TrimSpace(req.ReferralCode)); code != "" && user.Role == authModel.RoleIntern {
		var ids []uuid.UUID
		if err := s.DB.WithContext(ctx).Model(&internModel.InternProfileModel{}).
			Where("referral_code = ?", code).Limit(1).Pluck("id", &ids).Error; err != nil {
			return pgerr.Map(err, "referral code")
		}
		if len(ids) == 0 {
			return fault.Validation("invalid referral code")
		}
		referrer = &ids[0]
	}

	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			if pgerr.IsUniqueViolation(err) {
				return fault.Conflict("EMAIL_TAKEN", "Email already registered")
			}
			return pgerr.Map(err, "user")
		}

		switch user.Role {
		case authModel.RoleCompany:
			name := strings.TrimSpace(req.CompanyName)
			if name == "" {
				name = user.Name
			}
			company := companyModel.CompanyModel{
				ID:          user.ID,
				Name:        name,
				Website:     strptr(req.Website),
				Industry:    strptr(req.Industry),
				IsNonProfit: req.IsNonProfit,
			}
			if err := tx.Create(&company).Error; err != nil {
				return fault.Internal("Failed to create company profile: "+err.Error(), err)
			}

		case authModel.RoleIntern:
			code, err := uniqueReferralCode(tx)
			if err != nil {
				return fault.Internal("Failed to create intern profile: "+err.Error(), err)
			}
			profile := internModel.InternProfileModel{
				ID:           user.ID,
				FullName:     user.Name,
				School:       strptr(req.School),
				Grade:        strptr(req.Grade),
				ReferralCode: code,
				ReferredBy:   referrer,
			}
			profile.ProfileCompletion = profile.Completion()
			if err := tx.Create(&profile).Error; err != nil {
				return fault.Internal("Failed to create intern profile: "+err.Error(), err)
			}
		}
		return nil
	})
}

// uniqueReferralCode dicek dulu di tx; bentrok di INSERT tetap dijaga unique index.
func uniqueReferralCode(tx *gorm.DB) (string, error) {
	for i := 0; i < referralAttempts; i++ {
		code := authHelper.NewReferralCode()
		var n int64
		if err := tx.Model(&internModel.InternProfileModel{}).Where("referral_code = ?", code).Count(&n).Error; err != nil {
			return "", err
		}
		if n == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not allocate referral code")
}

/* ==========================
   LOGIN
========================== */

func (s *Service) Login(ctx context.Context, req dto.LoginRequest, userAgent string) (*dto.Session, error) {
	user, err := authRepo.FindUserByEmail(ctx, s.DB, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fault.Unauthorized("invalid email or password")
		}
		return nil, pgerr.Map(err, "user")
	}
	if err := authHelper.CheckPasswordHash(user.Password, req.Password); err != nil {
		return nil, fault.Unauthorized("invalid email or password")
	}
	if err := s.guard(user); err != nil {
		return nil, err
	}
	return s.issue(ctx, user, userAgent)
}

func (s *Service) guard(user *authModel.UserModel) error {
	if !user.IsActive {
		return fault.Forbidden("account has been deactivated")
	}
	if s.NeedsVerification(user) {
		return fault.Forbidden("please verify your email before logging in").WithCode("EMAIL_NOT_VERIFIED")
	}
	return nil
}

// NeedsVerification: akun lama (dibuat sebelum cutoff) lolos tanpa verifikasi.
func (s *Service) NeedsVerification(user *authModel.UserModel) bool {
	if !s.Cfg.EmailVerificationRequired || user.EmailVerifiedAt != nil {
		return false
	}
	return user.CreatedAt.After(s.Cfg.LegacyUserCutoff)
}

/* ==========================
   LOGIN GOOGLE
========================== */

func (s *Service) LoginGoogle(ctx context.Context, req dto.GoogleLoginRequest, userAgent string) (*dto.Session, error) {
	if strings.TrimSpace(s.Cfg.GoogleClientID) == "" || s.Google == nil {
		return nil, fault.Unavailable("Google sign-in is not configured")
	}
	ident, err := s.Google.Verify(req.IDToken, s.Cfg.GoogleClientID)
	if err != nil {
		log.Printf("[WARN] google id token rejected: %v", err)
		return nil, fault.Unauthorized("Invalid Google ID Token")
	}
	email := normalizeEmail(ident.Email)
	if ident.Subject == "" || email == "" {
		return nil, fault.Unauthorized("Invalid Google ID Token")
	}

	user, err := authRepo.FindUserByGoogleID(ctx, s.DB, ident.Subject)
	switch {
	case err == nil:
	case errors.Is(err, gorm.ErrRecordNotFound):
		user, err = s.linkOrCreateGoogleUser(ctx, ident, email, req.Role)
		if err != nil {
			return nil, err
		}
	default:
		return nil, pgerr.Map(err, "user")
	}

	if !user.IsActive {
		return nil, fault.Forbidden("account has been deactivated")
	}
	return s.issue(ctx, user, userAgent)
}

func (s *Service) linkOrCreateGoogleUser(ctx context.Context, ident *GoogleIdentity, email, role string) (*authModel.UserModel, error) {
	now := nowUTC()
	sub := ident.Subject

	// email sudah terdaftar: tautkan akun
	if existing, err := authRepo.FindUserByEmail(ctx, s.DB, email); err == nil {
		updates := map[string]any{"google_id": sub}
		if existing.EmailVerifiedAt == nil {
			updates["email_verified_at"] = now
			existing.EmailVerifiedAt = &now
		}
		if err := s.DB.WithContext(ctx).Model(existing).Updates(updates).Error; err != nil {
			return nil, pgerr.Map(err, "user")
		}
		existing.GoogleID = &sub
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pgerr.Map(err, "user")
	}

	role = strings.ToUpper(strings.TrimSpace(role))
	if role == "" {
		role = authModel.RoleIntern
	}
	if !authModel.ValidRole(role) {
		return nil, fault.Validation("role must be COMPANY or INTERN")
	}
	name := strings.TrimSpace(ident.Name)
	if name == "" {
		name = strings.SplitN(email, "@", 2)[0]
	}

	user := &authModel.UserModel{
		Email:           email,
		Password:        authHelper.DummyPasswordHash(),
		Name:            name,
		Role:            role,
		GoogleID:        &sub,
		EmailVerifiedAt: &now,
		IsActive:        true,
	}
	if err := s.createAccount(ctx, user, dto.SignupRequest{Role: role, Name: name}); err != nil {
		return nil, err
	}
	log.Printf("[INFO] google signup user=%s role=%s", user.ID, user.Role)
	return user, nil
}

/* ==========================
   ME
========================== */

func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*dto.MeResponse, error) {
	user, err := authRepo.FindUserByID(ctx, s.DB, userID)
	if err != nil {
		return nil, pgerr.Map(err, "user")
	}
	out := &dto.MeResponse{User: dto.FromUser(user)}

	switch user.Role {
	case authModel.RoleCompany:
		var c companyModel.CompanyModel
		if err := s.DB.WithContext(ctx).First(&c, "id = ?", user.ID).Error; err == nil {
			out.Profile = c
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pgerr.Map(err, "company profile")
		}
	case authModel.RoleIntern:
		var p internModel.InternProfileModel
		if err := s.DB.WithContext(ctx).First(&p, "id = ?", user.ID).Error; err == nil {
			out.Profile = p
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pgerr.Map(err, "intern profile")
		}
	}
	return out, nil
}

// TokenFingerprint: potongan hash untuk korelasi log, bukan kredensial.
func TokenFingerprint(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
