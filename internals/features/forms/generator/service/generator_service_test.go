package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"internlink_backend/internals/databases/dbtest"
	formModel "internlink_backend/internals/features/forms/forms/model"
	formService "internlink_backend/internals/features/forms/forms/service"
	"internlink_backend/internals/features/forms/generator/dto"
	bankService "internlink_backend/internals/features/forms/question_bank/service"
	companyModel "internlink_backend/internals/features/users/companies/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/llm"

	"github.com/google/uuid"
)

type fakeAI struct {
	reply string
	err   error
	last  llm.ChatRequest
}

func (f *fakeAI) Complete(_ context.Context, req llm.ChatRequest) (string, error) {
	f.last = req
	return f.reply, f.err
}

type fakeWeb struct {
	text string
	err  error
}

func (f fakeWeb) Text(context.Context, string) (string, error) { return f.text, f.err }

func boolp(b bool) *bool { return &b }

func TestNormalizeFormFillsGaps(t *testing.T) {
	out := NormalizeForm(dto.RawForm{
		Sections: []dto.RawSection{
			{Questions: []dto.RawQuestion{
				{Type: "rating", QuestionText: "Rate yourself"},
				{Type: "MULTIPLE_CHOICE", QuestionText: "Pick", Options: []any{"Only one", " "}},
			}},
			{Title: "  Skills ", Questions: []dto.RawQuestion{
				{Type: "checkboxes", Text: "Languages", Options: []any{map[string]any{"label": "Go"}, nil}},
				{Type: "dropdown"},
				{Type: "long_text", QuestionText: "Why us?", Required: boolp(true), Options: []any{"ignored"}},
			}},
		},
	})

	if out.Sections[0].Title != "Section 1" || out.Sections[1].Title != "Skills" {
		t.Fatalf("section titles = %q, %q", out.Sections[0].Title, out.Sections[1].Title)
	}
	q := out.Sections[0].Questions
	if q[0].Type != formModel.TypeShortText || q[0].Required {
		t.Errorf("unknown type not mapped: %+v", q[0])
	}
	if strings.Join(q[1].Options, "|") != "Only one|Option 2" {
		t.Errorf("options = %v", q[1].Options)
	}
	s := out.Sections[1].Questions
	if s[0].QuestionText != "Languages" || strings.Join(s[0].Options, "|") != "Go|Option 2" {
		t.Errorf("checkboxes = %+v", s[0])
	}
	if s[1].QuestionText != "Question 4" || strings.Join(s[1].Options, "|") != "Option 1|Option 2" {
		t.Errorf("blank dropdown = %+v", s[1])
	}
	if !s[2].Required || len(s[2].Options) != 0 || s[2].Hint != "" || s[2].Placeholder != "" {
		t.Errorf("long_text = %+v", s[2])
	}
}

func TestNormalizeJobDescription(t *testing.T) {
	out := NormalizeJobDescription(dto.RawJobDescription{
		Description:  "  Help our team ",
		Requirements: []any{"Curious", "- Reliable"},
		Category:     "Tech",
	}, "Data Intern")
	if out.Title != "Data Intern" || out.Description != "Help our team" || out.Category != "tech" {
		t.Fatalf("out = %+v", out)
	}
	if out.Requirements != "- Curious\n- Reliable" {
		t.Fatalf("requirements = %q", out.Requirements)
	}
	if NormalizeJobDescription(dto.RawJobDescription{Category: "space"}, "").Category != "" {
		t.Fatal("unknown category must be dropped")
	}
}

const generated = "```json\n" + `{"summary":"Form for Acme","sections":[
 {"title":"About you","questions":[
   {"type":"short_text","question_text":"Your school","required":true},
   {"type":"multiple_choice","question_text":"Grade","options":["10"]}]}]}` + "\n```"

func setup(t *testing.T, ai *fakeAI, web WebFetcher) (*Service, uuid.UUID, uuid.UUID) {
	t.Helper()
	db := dbtest.Open(t)
	company := dbtest.CreateCompany(t, db, "Acme")
	site := "acme.io"
	db.Model(&companyModel.CompanyModel{}).Where("id = ?", company.ID).Update("website", site)
	in := dbtest.CreateInternship(t, db, company.ID, "Robotics Intern")

	var completer llm.Completer
	if ai != nil {
		completer = ai
	}
	forms := formService.New(db, bankService.New(db))
	return New(db, completer, web, forms), company.ID, in.ID
}

func TestGenerateFormApplies(t *testing.T) {
	ai := &fakeAI{reply: generated}
	svc, companyID, internshipID := setup(t, ai, fakeWeb{text: "We build robots"})

	out, err := svc.GenerateForm(context.Background(), companyID, dto.GenerateFormRequest{OpportunityID: &internshipID, Apply: true})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if strings.Join(out.SourcesUsed, ",") != "company_profile,website,opportunities" {
		t.Errorf("sources = %v", out.SourcesUsed)
	}
	if !strings.Contains(ai.last.User, "We build robots") || !strings.Contains(ai.last.User, "Robotics Intern") {
		t.Errorf("prompt missing context: %s", ai.last.User)
	}
	if out.Applied == nil || len(out.Applied.Sections) != 1 {
		t.Fatalf("applied = %+v", out.Applied)
	}
	qs := out.Applied.Sections[0].Questions
	if len(qs) != 2 || !qs[0].Required || len(qs[1].Options) != 2 {
		t.Fatalf("applied questions = %+v", qs)
	}

	// replace: section lama diganti
	again, err := svc.GenerateForm(context.Background(), companyID, dto.GenerateFormRequest{FormID: &out.Applied.ID, Apply: true, Replace: true})
	if err != nil {
		t.Fatal(err)
	}
	if len(again.Applied.Sections) != 1 {
		t.Fatalf("replace kept old sections: %d", len(again.Applied.Sections))
	}
}

func TestGenerateFormPreviewToleratesWebsiteFailure(t *testing.T) {
	ai := &fakeAI{reply: generated}
	svc, companyID, _ := setup(t, ai, fakeWeb{err: errors.New("dns")})

	out, err := svc.GenerateForm(context.Background(), companyID, dto.GenerateFormRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if out.Applied != nil || len(out.Sections) != 1 {
		t.Fatalf("preview = %+v", out)
	}
	for _, s := range out.SourcesUsed {
		if s == SourceWebsite {
			t.Fatal("failed website fetch must not be listed as a source")
		}
	}
}

func TestGenerateFormErrors(t *testing.T) {
	svc, companyID, _ := setup(t, nil, nil)
	if _, err := svc.GenerateForm(context.Background(), companyID, dto.GenerateFormRequest{}); !fault.Is(err, fault.KindUnavailable) {
		t.Fatalf("expected unavailable, got %v", err)
	}

	ai := &fakeAI{reply: "sorry, I cannot help"}
	svc, companyID, _ = setup(t, ai, nil)
	if _, err := svc.GenerateForm(context.Background(), companyID, dto.GenerateFormRequest{}); !fault.Is(err, fault.KindUpstream) {
		t.Fatalf("expected upstream, got %v", err)
	}
	if _, err := svc.GenerateForm(context.Background(), companyID, dto.GenerateFormRequest{Apply: true}); !fault.Is(err, fault.KindValidation) {
		t.Fatalf("expected validation, got %v", err)
	}
}

func TestGenerateJobDescription(t *testing.T) {
	ai := &fakeAI{reply: `{"title":"","description":"Build dashboards","requirements":"SQL basics","category":"business"}`}
	svc, companyID, _ := setup(t, ai, nil)

	out, err := svc.GenerateJobDescription(context.Background(), companyID, dto.DescribeRequest{Brief: "dashboards for sales", Title: "Analytics Intern"})
	if err != nil {
		t.Fatal(err)
	}
	if out.Title != "Analytics Intern" || out.Requirements != "SQL basics" || out.Category != "business" {
		t.Fatalf("out = %+v", out)
	}
}
