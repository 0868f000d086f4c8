package dto

import (
	"strings"

	companyModel "internlink_backend/internals/features/users/companies/model"
)

// UpdateCompanyRequest: field nil tidak diubah, string kosong mengosongkan.
type UpdateCompanyRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=160"`
	Website     *string `json:"website" validate:"omitempty,max=255"`
	Industry    *string `json:"industry" validate:"omitempty,max=120"`
	Description *string `json:"description" validate:"omitempty,max=4000"`
	IsNonProfit *bool   `json:"is_non_profit"`
	TeamLabel   *string `json:"team_label" validate:"omitempty,max=120"`
	City        *string `json:"city" validate:"omitempty,max=120"`
	State       *string `json:"state" validate:"omitempty,max=60"`
}

// Apply mengembalikan kolom yang berubah (untuk Updates).
func (r UpdateCompanyRequest) Apply(m *companyModel.CompanyModel) map[string]any {
	changes := map[string]any{}
	if r.Name != nil {
		if n := strings.TrimSpace(*r.Name); n != "" {
			m.Name = n
			changes["name"] = n
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
	setOpt("website", r.Website, &m.Website)
	setOpt("industry", r.Industry, &m.Industry)
	setOpt("description", r.Description, &m.Description)
	setOpt("team_label", r.TeamLabel, &m.TeamLabel)
	setOpt("city", r.City, &m.City)
	setOpt("state", r.State, &m.State)
	if r.IsNonProfit != nil {
		m.IsNonProfit = *r.IsNonProfit
		changes["is_non_profit"] = *r.IsNonProfit
	}
	return changes
}

type LogoResponse struct {
	LogoURL string `json:"logo_url"`
	Size    int    `json:"size"`
}
