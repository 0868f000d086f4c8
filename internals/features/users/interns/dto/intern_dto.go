package dto

import (
	"strings"
	"time"

	internModel "internlink_backend/internals/features/users/interns/model"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

/* =========================================================
   UPDATE PROFILE
========================================================= */

type UpdateInternRequest struct {
	FullName  *string   `json:"full_name" validate:"omitempty,min=1,max=160"`
	School    *string   `json:"school" validate:"omitempty,max=160"`
	Grade     *string   `json:"grade" validate:"omitempty,max=20"`
	City      *string   `json:"city" validate:"omitempty,max=120"`
	State     *string   `json:"state" validate:"omitempty,max=60"`
	Bio       *string   `json:"bio" validate:"omitempty,max=4000"`
	Skills    *[]string `json:"skills" validate:"omitempty,max=50,dive,max=60"`
	Interests *[]string `json:"interests" validate:"omitempty,max=50,dive,max=60"`
	Phone     *string   `json:"phone" validate:"omitempty,max=40"`
	BirthDate *string   `json:"birth_date" validate:"omitempty,datetime=2006-01-02"`
	ResumeURL *string   `json:"resume_url" validate:"omitempty,max=500"`
}

// Apply menulis perubahan ke model dan mengembalikan kolom untuk Updates.
func (r UpdateInternRequest) Apply(m *internModel.InternProfileModel) (map[string]any, error) {
	changes := map[string]any{}
	if r.FullName != nil {
		if n := strings.TrimSpace(*r.FullName); n != "" {
			m.FullName = n
			changes["full_name"] = n
		}
	}
	setOpt := func(col string, in *string, dst **string) {
		if in == nil {
			return
		}
		v := strings.TrimSpace(*in)
		if v == "" {
			*dst = nil
			changes[col] = nil
			return
		}
		*dst = &v
		changes[col] = v
	}
	setOpt("school", r.School, &m.School)
	setOpt("grade", r.Grade, &m.Grade)
	setOpt("city", r.City, &m.City)
	setOpt("state", r.State, &m.State)
	setOpt("bio", r.Bio, &m.Bio)
	setOpt("phone", r.Phone, &m.Phone)
	setOpt("resume_url", r.ResumeURL, &m.ResumeURL)

	setList := func(col string, in *[]string, dst *datatypes.JSON) error {
		if in == nil {
			return nil
		}
		clean := cleanList(*in)
		raw, err := sonic.Marshal(clean)
		if err != nil {
			return err
		}
		*dst = datatypes.JSON(raw)
		changes[col] = datatypes.JSON(raw)
		return nil
	}
	if err := setList("skills", r.Skills, &m.Skills); err != nil {
		return nil, err
	}
	if err := setList("interests", r.Interests, &m.Interests); err != nil {
		return nil, err
	}

	if r.BirthDate != nil {
		if strings.TrimSpace(*r.BirthDate) == "" {
			m.BirthDate = nil
			changes["birth_date"] = nil
		} else {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(*r.BirthDate))
			if err != nil {
				return nil, err
			}
			m.BirthDate = &t
			changes["birth_date"] = t
		}
	}
	return changes, nil
}

// cleanList: trim + dedupe (case-insensitive), urutan dipertahankan.
func cleanList(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		key := strings.ToLower(s)
		if s == "" {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, s)
	}
	return out
}

/* =========================================================
   REFERRALS
========================================================= */

type ReferredIntern struct {
	ID       uuid.UUID `json:"id"`
	FullName string    `json:"full_name"`
	JoinedAt time.Time `json:"joined_at"`
}

type ReferralSummary struct {
	ReferralCode string           `json:"referral_code"`
	Referred     []ReferredIntern `json:"referred"`
	Count        int              `json:"count"`
}

type ReferralCheck struct {
	Valid        bool   `json:"valid"`
	ReferrerName string `json:"referrer_name,omitempty"`
}
