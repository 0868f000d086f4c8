package dto

import (
	"strings"
	"time"

	"internlink_backend/internals/features/opportunities/internships/model"

	"github.com/google/uuid"
)

/* =========================================================
   REQUEST
========================================================= */

type CreateInternshipRequest struct {
	Title         string  `json:"title" validate:"required,max=200"`
	Position      *string `json:"position" validate:"omitempty,max=160"`
	Category      *string `json:"category" validate:"omitempty,max=60"`
	Description   *string `json:"description"`
	Requirements  *string `json:"requirements"`
	LocationCity  *string `json:"location_city" validate:"omitempty,max=120"`
	LocationState *string `json:"location_state" validate:"omitempty,max=60"`
	LocationType  string  `json:"location_type" validate:"omitempty,oneof=onsite remote hybrid"`
	Pay           *string `json:"pay" validate:"omitempty,max=60"`
	HoursPerWeek  *int    `json:"hours_per_week" validate:"omitempty,min=1,max=80"`
	IsActive      *bool   `json:"is_active"`
}

func (r CreateInternshipRequest) ToModel(companyID uuid.UUID) model.InternshipModel {
	lt := strings.ToLower(strings.TrimSpace(r.LocationType))
	if lt == "" {
		lt = model.LocationOnsite
	}
	return model.InternshipModel{
		CompanyID:     companyID,
		Title:         strings.TrimSpace(r.Title),
		Position:      trimPtr(r.Position),
		Category:      trimPtr(r.Category),
		Description:   r.Description,
		Requirements:  r.Requirements,
		LocationCity:  trimPtr(r.LocationCity),
		LocationState: trimPtr(r.LocationState),
		LocationType:  lt,
		Pay:           trimPtr(r.Pay),
		HoursPerWeek:  r.HoursPerWeek,
		IsActive:      true,
	}
}

// UpdateInternshipRequest: partial, hanya field non-nil yang diubah.
type UpdateInternshipRequest struct {
	Title         *string `json:"title" validate:"omitempty,min=1,max=200"`
	Position      *string `json:"position" validate:"omitempty,max=160"`
	Category      *string `json:"category" validate:"omitempty,max=60"`
	Description   *string `json:"description"`
	Requirements  *string `json:"requirements"`
	LocationCity  *string `json:"location_city" validate:"omitempty,max=120"`
	LocationState *string `json:"location_state" validate:"omitempty,max=60"`
	LocationType  *string `json:"location_type" validate:"omitempty,oneof=onsite remote hybrid"`
	Pay           *string `json:"pay" validate:"omitempty,max=60"`
	HoursPerWeek  *int    `json:"hours_per_week" validate:"omitempty,min=1,max=80"`
	IsActive      *bool   `json:"is_active"`
}

func (r UpdateInternshipRequest) Columns() map[string]any {
	cols := map[string]any{}
	set := func(k string, v *string) {
		if v != nil {
			cols[k] = strings.TrimSpace(*v)
		}
	}
	set("title", r.Title)
	set("position", r.Position)
	set("category", r.Category)
	set("location_city", r.LocationCity)
	set("location_state", r.LocationState)
	set("pay", r.Pay)
	if r.Description != nil {
		cols["description"] = *r.Description
	}
	if r.Requirements != nil {
		cols["requirements"] = *r.Requirements
	}
	if r.LocationType != nil {
		cols["location_type"] = strings.ToLower(strings.TrimSpace(*r.LocationType))
	}
	if r.HoursPerWeek != nil {
		cols["hours_per_week"] = *r.HoursPerWeek
	}
	if r.IsActive != nil {
		cols["is_active"] = *r.IsActive
	}
	return cols
}

type SetActiveRequest struct {
	IsActive *bool `json:"is_active" validate:"required"`
}

type ListFilter struct {
	Q            string
	Category     string
	LocationType string
	IsActive     *bool
	CompanyID    *uuid.UUID
	Limit        int
	Offset       int
}

/* =========================================================
   RESPONSE
========================================================= */

type InternshipView struct {
	ID            uuid.UUID `json:"id"`
	CompanyID     uuid.UUID `json:"company_id"`
	CompanyName   string    `json:"company_name,omitempty"`
	CompanyLogo   *string   `json:"company_logo,omitempty"`
	Title         string    `json:"title"`
	Position      *string   `json:"position,omitempty"`
	Category      *string   `json:"category,omitempty"`
	Description   *string   `json:"description,omitempty"`
	Requirements  *string   `json:"requirements,omitempty"`
	LocationCity  *string   `json:"location_city,omitempty"`
	LocationState *string   `json:"location_state,omitempty"`
	LocationType  string    `json:"location_type"`
	Pay           *string   `json:"pay,omitempty"`
	HoursPerWeek  *int      `json:"hours_per_week,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func FromModel(m model.InternshipModel) InternshipView {
	v := InternshipView{
		ID:            m.ID,
		CompanyID:     m.CompanyID,
		Title:         m.Title,
		Position:      m.Position,
		Category:      m.Category,
		Description:   m.Description,
		Requirements:  m.Requirements,
		LocationCity:  m.LocationCity,
		LocationState: m.LocationState,
		LocationType:  m.LocationType,
		Pay:           m.Pay,
		HoursPerWeek:  m.HoursPerWeek,
		IsActive:      m.IsActive,
		CreatedAt:     m.CreatedAt,
		UpdatedAt:     m.UpdatedAt,
	}
	if m.Company != nil {
		v.CompanyName = m.Company.Name
		v.CompanyLogo = m.Company.LogoURL
	}
	return v
}

func FromModels(rows []model.InternshipModel) []InternshipView {
	out := make([]InternshipView, 0, len(rows))
	for _, r := range rows {
		out = append(out, FromModel(r))
	}
	return out
}

/* =========================================================
   DELETE SUMMARY
========================================================= */

type PreservedIntern struct {
	InternID uuid.UUID `json:"internId"`
	Name     string    `json:"name"`
	Team     *string   `json:"team"`
}

type Preserved struct {
	AcceptedUsersCount int               `json:"acceptedUsersCount"`
	AcceptedUsers      []PreservedIntern `json:"acceptedUsers"`
}

type DeleteSummary struct {
	DeletedCascade []string         `json:"deletedCascade"`
	DeletedCounts  map[string]int64 `json:"deletedCounts"`
	Preserved      Preserved        `json:"preserved"`
}

func trimPtr(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
