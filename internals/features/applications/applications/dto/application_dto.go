package dto

import (
	"encoding/json"
	"time"

	"internlink_backend/internals/features/applications/applications/model"
	formDto "internlink_backend/internals/features/forms/forms/dto"
	respDto "internlink_backend/internals/features/forms/responses/dto"

	"github.com/google/uuid"
)

/* =========================================================
   REQUEST
========================================================= */

type ApplyRequest struct {
	Fresh bool `json:"fresh"`
}

// SubmitRequest: Answers nil → tidak menyentuh jawaban; [] → hapus semua.
type SubmitRequest struct {
	Answers []respDto.AnswerEntry `json:"answers" validate:"omitempty,dive"`
}

type DecisionRequest struct {
	Decision string `json:"decision" validate:"required,oneof=accepted rejected"`
}

func (r DecisionRequest) Accepted() bool { return r.Decision == model.StatusAccepted }

/* =========================================================
   RESPONSE
========================================================= */

type ApplicationView struct {
	ID             uuid.UUID  `json:"id"`
	InternID       uuid.UUID  `json:"intern_id"`
	InternshipID   uuid.UUID  `json:"internship_id"`
	Status         string     `json:"status"`
	FormResponseID *uuid.UUID `json:"form_response_id,omitempty"`
	AppliedAt      time.Time  `json:"applied_at"`
	SubmittedAt    *time.Time `json:"submitted_at,omitempty"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
}

func FromModel(m model.ApplicationModel) ApplicationView {
	return ApplicationView{
		ID:             m.ID,
		InternID:       m.InternID,
		InternshipID:   m.InternshipID,
		Status:         m.Status,
		FormResponseID: m.FormResponseID,
		AppliedAt:      m.AppliedAt,
		SubmittedAt:    m.SubmittedAt,
		DecidedAt:      m.DecidedAt,
	}
}

type InternshipBrief struct {
	ID          uuid.UUID `json:"id"`
	Title       string    `json:"title"`
	CompanyID   uuid.UUID `json:"company_id"`
	CompanyName string    `json:"company_name,omitempty"`
	IsActive    bool      `json:"is_active"`
}

type ApplicantView struct {
	ID                uuid.UUID       `json:"id"`
	FullName          string          `json:"full_name"`
	School            *string         `json:"school,omitempty"`
	Grade             *string         `json:"grade,omitempty"`
	City              *string         `json:"city,omitempty"`
	State             *string         `json:"state,omitempty"`
	Skills            json.RawMessage `json:"skills,omitempty"`
	Team              *string         `json:"team,omitempty"`
	ProfileCompletion int             `json:"profile_completion"`
}

// ReviewQuestion: pertanyaan + jawaban applicant (nil kalau belum dijawab).
type ReviewQuestion struct {
	formDto.QuestionView
	Answer *respDto.AnswerView `json:"answer"`
}

type ReviewSection struct {
	ID          uuid.UUID        `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Questions   []ReviewQuestion `json:"questions"`
}

type ReviewForm struct {
	ID             uuid.UUID       `json:"id"`
	Title          string          `json:"title"`
	ResponseStatus string          `json:"response_status,omitempty"`
	Sections       []ReviewSection `json:"sections"`
}

// ReviewItem: Application → Internship → Applicant → Form → Sections → Questions → Answer
type ReviewItem struct {
	Application ApplicationView `json:"application"`
	Internship  InternshipBrief `json:"internship"`
	Applicant   *ApplicantView  `json:"applicant"`
	Form        *ReviewForm     `json:"form"`
}

type MineItem struct {
	Application ApplicationView `json:"application"`
	Internship  InternshipBrief `json:"internship"`
}

// NewReviewForm menggabungkan tree form dengan jawaban satu response.
func NewReviewForm(tree *formDto.FormTree, status string, answers map[uuid.UUID]respDto.AnswerView) *ReviewForm {
	if tree == nil {
		return nil
	}
	out := &ReviewForm{
		ID:             tree.ID,
		Title:          tree.Title,
		ResponseStatus: status,
		Sections:       make([]ReviewSection, 0, len(tree.Sections)),
	}
	for _, sec := range tree.Sections {
		rs := ReviewSection{
			ID:          sec.ID,
			Title:       sec.Title,
			Description: sec.Description,
			Questions:   make([]ReviewQuestion, 0, len(sec.Questions)),
		}
		for _, q := range sec.Questions {
			rq := ReviewQuestion{QuestionView: q}
			if a, ok := answers[q.ID]; ok {
				a := a
				rq.Answer = &a
			}
			rs.Questions = append(rs.Questions, rq)
		}
		out.Sections = append(out.Sections, rs)
	}
	return out
}
