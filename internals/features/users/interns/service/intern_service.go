package service

import (
	"context"
	"errors"
	"strings"

	"internlink_backend/internals/features/users/interns/dto"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service struct {
	DB *gorm.DB
}

func New(db *gorm.DB) *Service { return &Service{DB: db} }

func (s *Service) Get(ctx context.Context, internID uuid.UUID) (*internModel.InternProfileModel, error) {
	var m internModel.InternProfileModel
	if err := s.DB.WithContext(ctx).First(&m, "id = ?", internID).Error; err != nil {
		return nil, pgerr.Map(err, "intern profile")
	}
	return &m, nil
}

// Update: profile_completion selalu dihitung ulang setiap simpan.
func (s *Service) Update(ctx context.Context, internID uuid.UUID, req dto.UpdateInternRequest) (*internModel.InternProfileModel, error) {
	m, err := s.Get(ctx, internID)
	if err != nil {
		return nil, err
	}
	changes, err := req.Apply(m)
	if err != nil {
		return nil, fault.Validation("invalid profile data: " + err.Error())
	}
	changes["profile_completion"] = m.Completion()

	if err := s.DB.WithContext(ctx).Model(&internModel.InternProfileModel{}).
		Where("id = ?", internID).Updates(changes).Error; err != nil {
		return nil, pgerr.Map(err, "intern profile")
	}
	return s.Get(ctx, internID)
}

/* ===================== REFERRALS ===================== */

func (s *Service) Referrals(ctx context.Context, internID uuid.UUID) (*dto.ReferralSummary, error) {
	me, err := s.Get(ctx, internID)
	if err != nil {
		return nil, err
	}
	var rows []internModel.InternProfileModel
	if err := s.DB.WithContext(ctx).
		Select("id", "full_name", "created_at").
		Where("referred_by = ?", internID).
		Order("created_at ASC").
		Find(&rows).Error; err != nil {
		return nil, pgerr.Map(err, "referrals")
	}
	out := &dto.ReferralSummary{ReferralCode: me.ReferralCode, Referred: make([]dto.ReferredIntern, 0, len(rows))}
	for _, r := range rows {
		out.Referred = append(out.Referred, dto.ReferredIntern{ID: r.ID, FullName: r.FullName, JoinedAt: r.CreatedAt})
	}
	out.Count = len(out.Referred)
	return out, nil
}

func (s *Service) ValidateReferralCode(ctx context.Context, code string) (*dto.ReferralCheck, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return &dto.ReferralCheck{}, nil
	}
	var m internModel.InternProfileModel
	err := s.DB.WithContext(ctx).Select("id", "full_name").Where("referral_code = ?", code).Take(&m).Error
	switch {
	case err == nil:
		return &dto.ReferralCheck{Valid: true, ReferrerName: m.FullName}, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &dto.ReferralCheck{}, nil
	default:
		return nil, pgerr.Map(err, "referral code")
	}
}
