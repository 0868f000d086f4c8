package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Kategori skor AI, urutan dipakai untuk output yang stabil.
var Categories = []string{"business", "tech", "education", "healthcare", "creative"}

// InternProfileModel: ID sama dengan users.id (1:1 dengan akun INTERN).
type InternProfileModel struct {
	ID        uuid.UUID      `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	FullName  string         `gorm:"column:full_name;size:160;not null" json:"full_name"`
	School    *string        `gorm:"column:school;size:160" json:"school,omitempty"`
	Grade     *string        `gorm:"column:grade;size:20" json:"grade,omitempty"`
	City      *string        `gorm:"column:city;size:120" json:"city,omitempty"`
	State     *string        `gorm:"column:state;size:60" json:"state,omitempty"`
	Bio       *string        `gorm:"column:bio" json:"bio,omitempty"`
	Skills    datatypes.JSON `gorm:"column:skills" json:"skills,omitempty"`
	Interests datatypes.JSON `gorm:"column:interests" json:"interests,omitempty"`
	Phone     *string        `gorm:"column:phone;size:40" json:"phone,omitempty"`
	BirthDate *time.Time     `gorm:"column:birth_date" json:"birth_date,omitempty"`
	ResumeURL *string        `gorm:"column:resume_url" json:"resume_url,omitempty"`

	// team bertahan walau opportunity / application-nya dihapus
	Team          *string    `gorm:"column:team;size:160" json:"team,omitempty"`
	TeamCompanyID *uuid.UUID `gorm:"column:team_company_id;type:uuid;index" json:"team_company_id,omitempty"`

	BusinessScore   *int `gorm:"column:business_score" json:"business_score,omitempty"`
	TechScore       *int `gorm:"column:tech_score" json:"tech_score,omitempty"`
	EducationScore  *int `gorm:"column:education_score" json:"education_score,omitempty"`
	HealthcareScore *int `gorm:"column:healthcare_score" json:"healthcare_score,omitempty"`
	CreativeScore   *int `gorm:"column:creative_score" json:"creative_score,omitempty"`

	BusinessRecommendation   *string `gorm:"column:business_recommendation" json:"business_recommendation,omitempty"`
	TechRecommendation       *string `gorm:"column:tech_recommendation" json:"tech_recommendation,omitempty"`
	EducationRecommendation  *string `gorm:"column:education_recommendation" json:"education_recommendation,omitempty"`
	HealthcareRecommendation *string `gorm:"column:healthcare_recommendation" json:"healthcare_recommendation,omitempty"`
	CreativeRecommendation   *string `gorm:"column:creative_recommendation" json:"creative_recommendation,omitempty"`

	ScoresUpdatedAt *time.Time `gorm:"column:scores_updated_at" json:"scores_updated_at,omitempty"`

	ProfileCompletion int        `gorm:"column:profile_completion;not null;default:0" json:"profile_completion"`
	ReferralCode      string     `gorm:"column:referral_code;size:16;uniqueIndex;not null" json:"referral_code"`
	ReferredBy        *uuid.UUID `gorm:"column:referred_by;type:uuid;index" json:"referred_by,omitempty"`

	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (InternProfileModel) TableName() string { return "intern_profiles" }

// StoredScores mengembalikan skor tersimpan bila lengkap.
func (p *InternProfileModel) StoredScores() (map[string]int, map[string]string, bool) {
	scores := map[string]*int{
		"business":   p.BusinessScore,
		"tech":       p.TechScore,
		"education":  p.EducationScore,
		"healthcare": p.HealthcareScore,
		"creative":   p.CreativeScore,
	}
	recs := map[string]*string{
		"business":   p.BusinessRecommendation,
		"tech":       p.TechRecommendation,
		"education":  p.EducationRecommendation,
		"healthcare": p.HealthcareRecommendation,
		"creative":   p.CreativeRecommendation,
	}
	outS := make(map[string]int, len(scores))
	outR := make(map[string]string, len(recs))
	for _, cat := range Categories {
		if scores[cat] == nil {
			return nil, nil, false
		}
		outS[cat] = *scores[cat]
		if recs[cat] != nil {
			outR[cat] = *recs[cat]
		}
	}
	return outS, outR, true
}

// ScoreColumns: map kolom untuk Updates(...)
func ScoreColumns(scores map[string]int, recs map[string]string, at time.Time) map[string]any {
	cols := map[string]any{"scores_updated_at": at}
	for _, cat := range Categories {
		cols[cat+"_score"] = scores[cat]
		cols[cat+"_recommendation"] = recs[cat]
	}
	return cols
}

// Completion: persentase field profil yang terisi (0-100).
func (p *InternProfileModel) Completion() int {
	filled := 0
	fields := []bool{
		strings.TrimSpace(p.FullName) != "",
		nonBlank(p.School),
		nonBlank(p.Grade),
		nonBlank(p.City),
		nonBlank(p.State),
		nonBlank(p.Bio),
		nonEmptyJSON(p.Skills),
		nonEmptyJSON(p.Interests),
		nonBlank(p.Phone),
		p.BirthDate != nil,
		nonBlank(p.ResumeURL),
	}
	for _, ok := range fields {
		if ok {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

func nonBlank(s *string) bool { return s != nil && strings.TrimSpace(*s) != "" }

func nonEmptyJSON(j datatypes.JSON) bool {
	switch strings.TrimSpace(string(j)) {
	case "", "null", "[]", "{}", `""`:
		return false
	}
	return true
}
