package dto

import (
	"strings"

	internModel "internlink_backend/internals/features/users/interns/model"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type SearchRequest struct {
	Query string `json:"query" validate:"required,max=500"`
}

const (
	StrategyAI      = "ai"
	StrategyKeyword = "keyword"
)

type SearchResponse struct {
	Candidates  []CandidateView `json:"candidates"`
	ResetFilter bool            `json:"resetFilter"`
	Strategy    string          `json:"strategy,omitempty"`
	Filter      string          `json:"filter,omitempty"`
	PoolSize    int             `json:"poolSize"`
	Cumulative  bool            `json:"cumulative"` // true: menyaring hasil sebelumnya
}

type CandidateView struct {
	ID                uuid.UUID      `json:"id"`
	FullName          string         `json:"full_name"`
	School            string         `json:"school,omitempty"`
	Grade             string         `json:"grade,omitempty"`
	City              string         `json:"city,omitempty"`
	State             string         `json:"state,omitempty"`
	Bio               string         `json:"bio,omitempty"`
	Skills            []string       `json:"skills"`
	Interests         []string       `json:"interests"`
	Team              string         `json:"team,omitempty"`
	ProfileCompletion int            `json:"profile_completion"`
	Scores            map[string]int `json:"scores,omitempty"`
}

func FromProfile(p internModel.InternProfileModel) CandidateView {
	v := CandidateView{
		ID:                p.ID,
		FullName:          p.FullName,
		School:            deref(p.School),
		Grade:             deref(p.Grade),
		City:              deref(p.City),
		State:             deref(p.State),
		Bio:               deref(p.Bio),
		Skills:            stringList(p.Skills),
		Interests:         stringList(p.Interests),
		Team:              deref(p.Team),
		ProfileCompletion: p.ProfileCompletion,
	}
	if scores, _, ok := p.StoredScores(); ok {
		v.Scores = scores
	}
	return v
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return strings.TrimSpace(*s)
}

// stringList: JSON array string; bentuk lain diabaikan.
func stringList(j datatypes.JSON) []string {
	out := []string{}
	if len(j) == 0 {
		return out
	}
	var raw []any
	if err := sonic.Unmarshal(j, &raw); err != nil {
		return out
	}
	for _, item := range raw {
		if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
