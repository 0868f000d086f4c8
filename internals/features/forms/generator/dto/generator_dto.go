package dto

import (
	formDto "internlink_backend/internals/features/forms/forms/dto"

	"github.com/google/uuid"
)

/* =========================================================
   REQUEST
========================================================= */

type GenerateFormRequest struct {
	FormID        *uuid.UUID `json:"formId"`
	OpportunityID *uuid.UUID `json:"opportunityId"`
	Apply         bool       `json:"apply"`
	Replace       bool       `json:"replace"` // apply: hapus section lama dulu
	Instructions  string     `json:"instructions" validate:"max=2000"`
}

type DescribeRequest struct {
	Brief string `json:"brief" validate:"required,max=4000"`
	Title string `json:"title" validate:"max=200"`
}

/* =========================================================
   RAW MODEL OUTPUT (longgar)
========================================================= */

type RawQuestion struct {
	Type         string `json:"type"`
	QuestionText string `json:"question_text"`
	Text         string `json:"text"`
	Description  string `json:"description"`
	Placeholder  string `json:"placeholder"`
	Hint         string `json:"hint"`
	Required     *bool  `json:"required"`
	Options      []any  `json:"options"`
}

type RawSection struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Questions   []RawQuestion `json:"questions"`
}

type RawForm struct {
	Summary  string       `json:"summary"`
	Sections []RawSection `json:"sections"`
}

type RawJobDescription struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements any    `json:"requirements"`
	Category     string `json:"category"`
}

/* =========================================================
   NORMALIZED
========================================================= */

type GeneratedQuestion struct {
	Type         string   `json:"type"`
	QuestionText string   `json:"question_text"`
	Description  string   `json:"description"`
	Placeholder  string   `json:"placeholder"`
	Hint         string   `json:"hint"`
	Required     bool     `json:"required"`
	Options      []string `json:"options"`
}

type GeneratedSection struct {
	Title       string              `json:"title"`
	Description string              `json:"description"`
	Questions   []GeneratedQuestion `json:"questions"`
}

type GeneratedForm struct {
	Summary     string             `json:"summary"`
	Sections    []GeneratedSection `json:"sections"`
	SourcesUsed []string           `json:"sourcesUsed"`
	Applied     *formDto.FormTree  `json:"applied,omitempty"`
}

type JobDescription struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Requirements string `json:"requirements"`
	Category     string `json:"category"`
}
