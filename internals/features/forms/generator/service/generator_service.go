package service

import (
	"context"
	"fmt"
	"log"
	"strings"

	formDto "internlink_backend/internals/features/forms/forms/dto"
	formService "internlink_backend/internals/features/forms/forms/service"
	"internlink_backend/internals/features/forms/generator/dto"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"
	companyModel "internlink_backend/internals/features/users/companies/model"
	"internlink_backend/internals/helpers/fault"
	"internlink_backend/internals/helpers/llm"
	"internlink_backend/internals/helpers/pgerr"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type WebFetcher interface {
	Text(ctx context.Context, rawURL string) (string, error)
}

type Service struct {
	DB    *gorm.DB
	AI    llm.Completer // nil → 503
	Web   WebFetcher    // nil → website dilewati
	Forms *formService.Service
}

func New(db *gorm.DB, ai llm.Completer, web WebFetcher, forms *formService.Service) *Service {
	return &Service{DB: db, AI: ai, Web: web, Forms: forms}
}

const (
	SourceCompanyProfile = "company_profile"
	SourceWebsite        = "website"
	SourceOpportunities  = "opportunities"
	SourceInstructions   = "instructions"
)

const formInstruction = `You design internship application forms for high-school and college students.
Using ONLY the company context below, return a JSON object:
{"summary": string, "sections": [{"title": string, "description": string,
 "questions": [{"type": one of short_text|long_text|multiple_choice|checkboxes|dropdown|file_upload|video_upload,
 "question_text": string, "description": string, "placeholder": string, "hint": string,
 "required": boolean, "options": [string]}]}]}
Use 2-4 sections and 3-6 questions per section. Choice questions need at least 2 options.
Return JSON only.`

const describeInstruction = `You write internship postings for students.
Return a JSON object {"title": string, "description": string, "requirements": [string],
"category": one of business|tech|education|healthcare|creative}.
Keep the description under 180 words. Return JSON only.`

func (s *Service) aiReady() error {
	if s.AI == nil {
		return fault.Unavailable("AI features are not configured")
	}
	if e, ok := s.AI.(interface{ Enabled() bool }); ok && !e.Enabled() {
		return fault.Unavailable("AI features are not configured")
	}
	return nil
}

/* =========================================================
   FORM GENERATION
========================================================= */

func (s *Service) GenerateForm(ctx context.Context, companyID uuid.UUID, req dto.GenerateFormRequest) (*dto.GeneratedForm, error) {
	if err := s.aiReady(); err != nil {
		return nil, err
	}

	// target form divalidasi sebelum memanggil AI
	var targetFormID *uuid.UUID
	switch {
	case req.FormID != nil:
		if _, err := s.Forms.OwnedForm(ctx, nil, companyID, *req.FormID); err != nil {
			return nil, err
		}
		targetFormID = req.FormID
	case req.OpportunityID != nil && req.Apply:
		tree, err := s.Forms.EnsureForm(ctx, companyID, *req.OpportunityID, "")
		if err != nil {
			return nil, err
		}
		targetFormID = &tree.ID
	}
	if req.Apply && targetFormID == nil {
		return nil, fault.Validation("formId or opportunityId is required when apply=true")
	}

	var company companyModel.CompanyModel
	if err := s.DB.WithContext(ctx).First(&company, "id = ?", companyID).Error; err != nil {
		return nil, pgerr.Map(err, "company profile")
	}

	prompt, sources := s.formPrompt(ctx, &company, req)
	raw, err := s.AI.Complete(ctx, llm.ChatRequest{System: formInstruction, User: prompt, Temperature: 0.4, JSON: true})
	if err != nil {
		return nil, err
	}
	var parsed dto.RawForm
	if err := llm.Decode(raw, &parsed); err != nil {
		log.Printf("[WARN] form generation: unparsable model output: %v", err)
		return nil, fault.Upstream("AI returned an invalid form", err)
	}

	out := NormalizeForm(parsed)
	out.SourcesUsed = sources
	if !req.Apply {
		return &out, nil
	}

	applied, err := s.apply(ctx, companyID, *targetFormID, out, req.Replace)
	if err != nil {
		return nil, err
	}
	out.Applied = applied
	return &out, nil
}

func (s *Service) formPrompt(ctx context.Context, c *companyModel.CompanyModel, req dto.GenerateFormRequest) (string, []string) {
	var b strings.Builder
	sources := []string{SourceCompanyProfile}

	fmt.Fprintf(&b, "Company: %s\n", c.Name)
	writeOpt(&b, "Industry", c.Industry)
	writeOpt(&b, "Description", c.Description)
	if c.IsNonProfit {
		b.WriteString("Organization type: non-profit\n")
	}

	if s.Web != nil && c.Website != nil && strings.TrimSpace(*c.Website) != "" {
		text, err := s.Web.Text(ctx, *c.Website)
		if err != nil {
			log.Printf("[WARN] form generation: website fetch failed company=%s: %v", c.ID, err)
		} else if text != "" {
			fmt.Fprintf(&b, "\nWebsite text:\n%s\n", text)
			sources = append(sources, SourceWebsite)
		}
	}

	var titles []string
	if err := s.DB.WithContext(ctx).Model(&internshipModel.InternshipModel{}).
		Where("company_id = ?", c.ID).
		Order("created_at DESC").Limit(20).
		Pluck("title", &titles).Error; err != nil {
		log.Printf("[WARN] form generation: load opportunities: %v", err)
	}
	if len(titles) > 0 {
		fmt.Fprintf(&b, "\nExisting opportunities: %s\n", strings.Join(titles, "; "))
		sources = append(sources, SourceOpportunities)
	}

	if ins := strings.TrimSpace(req.Instructions); ins != "" {
		fmt.Fprintf(&b, "\nExtra instructions from the company: %s\n", ins)
		sources = append(sources, SourceInstructions)
	}
	return b.String(), sources
}

func writeOpt(b *strings.Builder, label string, v *string) {
	if v != nil && strings.TrimSpace(*v) != "" {
		fmt.Fprintf(b, "%s: %s\n", label, strings.TrimSpace(*v))
	}
}

// apply menulis hasil normalisasi lewat Form Schema Store.
func (s *Service) apply(ctx context.Context, companyID, formID uuid.UUID, gen dto.GeneratedForm, replace bool) (*formDto.FormTree, error) {
	req := formDto.UpsertQuestionsRequest{}
	if replace {
		current, err := s.Forms.GetForm(ctx, formID)
		if err != nil {
			return nil, err
		}
		for _, sec := range current.Sections {
			req.DeletedSectionIDs = append(req.DeletedSectionIDs, sec.ID)
		}
	}
	for si, sec := range gen.Sections {
		key := fmt.Sprintf("ai-%d", si+1)
		req.Sections = append(req.Sections, formDto.SectionInput{
			Key:         key,
			Title:       sec.Title,
			Description: sec.Description,
			OrderIndex:  si + 1,
		})
		for qi, q := range sec.Questions {
			req.Questions = append(req.Questions, formDto.QuestionInput{
				SectionKey:   key,
				Type:         q.Type,
				QuestionText: q.QuestionText,
				Required:     q.Required,
				OrderIndex:   qi + 1,
				Description:  q.Description,
				Hint:         q.Hint,
				Placeholder:  q.Placeholder,
				Options:      q.Options,
			})
		}
	}
	if _, err := s.Forms.UpsertQuestions(ctx, companyID, formID, req); err != nil {
		return nil, err
	}
	return s.Forms.GetForm(ctx, formID)
}

/* =========================================================
   JOB DESCRIPTION
========================================================= */

func (s *Service) GenerateJobDescription(ctx context.Context, companyID uuid.UUID, req dto.DescribeRequest) (*dto.JobDescription, error) {
	if err := s.aiReady(); err != nil {
		return nil, err
	}
	var company companyModel.CompanyModel
	if err := s.DB.WithContext(ctx).First(&company, "id = ?", companyID).Error; err != nil {
		return nil, pgerr.Map(err, "company profile")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Company: %s\n", company.Name)
	writeOpt(&b, "Industry", company.Industry)
	if t := strings.TrimSpace(req.Title); t != "" {
		fmt.Fprintf(&b, "Working title: %s\n", t)
	}
	fmt.Fprintf(&b, "Brief from the company:\n%s\n", strings.TrimSpace(req.Brief))

	raw, err := s.AI.Complete(ctx, llm.ChatRequest{System: describeInstruction, User: b.String(), Temperature: 0.5, JSON: true})
	if err != nil {
		return nil, err
	}
	var parsed dto.RawJobDescription
	if err := llm.Decode(raw, &parsed); err != nil {
		return nil, fault.Upstream("AI returned an invalid job description", err)
	}
	out := NormalizeJobDescription(parsed, req.Title)
	return &out, nil
}
