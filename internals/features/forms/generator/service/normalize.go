package service

import (
	"fmt"
	"strings"

	formModel "internlink_backend/internals/features/forms/forms/model"
	"internlink_backend/internals/features/forms/generator/dto"
	internModel "internlink_backend/internals/features/users/interns/model"
)

// NormalizeForm selalu dijalankan pada output model sebelum dipakai:
// tidak ada field kosong, tipe selalu valid, pilihan minimal 2 opsi.
func NormalizeForm(raw dto.RawForm) dto.GeneratedForm {
	out := dto.GeneratedForm{
		Summary:  strings.TrimSpace(raw.Summary),
		Sections: make([]dto.GeneratedSection, 0, len(raw.Sections)),
	}
	n := 0
	for si, rs := range raw.Sections {
		sec := dto.GeneratedSection{
			Title:       strings.TrimSpace(rs.Title),
			Description: strings.TrimSpace(rs.Description),
			Questions:   make([]dto.GeneratedQuestion, 0, len(rs.Questions)),
		}
		if sec.Title == "" {
			sec.Title = fmt.Sprintf("Section %d", si+1)
		}
		for _, rq := range rs.Questions {
			n++
			sec.Questions = append(sec.Questions, normalizeQuestion(rq, n))
		}
		out.Sections = append(out.Sections, sec)
	}
	return out
}

func normalizeQuestion(rq dto.RawQuestion, n int) dto.GeneratedQuestion {
	q := dto.GeneratedQuestion{
		Type:         strings.ToLower(strings.TrimSpace(rq.Type)),
		QuestionText: strings.TrimSpace(rq.QuestionText),
		Description:  strings.TrimSpace(rq.Description),
		Placeholder:  strings.TrimSpace(rq.Placeholder),
		Hint:         strings.TrimSpace(rq.Hint),
		Options:      []string{},
	}
	if rq.Required != nil {
		q.Required = *rq.Required
	}
	if !formModel.ValidQuestionType(q.Type) {
		q.Type = formModel.TypeShortText
	}
	if q.QuestionText == "" {
		q.QuestionText = strings.TrimSpace(rq.Text)
	}
	if q.QuestionText == "" {
		q.QuestionText = fmt.Sprintf("Question %d", n)
	}
	if formModel.IsChoiceType(q.Type) {
		q.Options = padOptions(optionLabels(rq.Options))
	}
	return q
}

func optionLabels(in []any) []string {
	out := make([]string, 0, len(in))
	for _, o := range in {
		var label string
		switch v := o.(type) {
		case string:
			label = v
		case map[string]any:
			// {"label": "..."} atau {"text": "..."}
			for _, k := range []string{"label", "text", "value"} {
				if s, ok := v[k].(string); ok {
					label = s
					break
				}
			}
		case nil:
		default:
			label = fmt.Sprint(v)
		}
		if label = strings.TrimSpace(label); label != "" {
			out = append(out, label)
		}
	}
	return out
}

func padOptions(opts []string) []string {
	for len(opts) < formModel.MinChoiceOptions {
		opts = append(opts, fmt.Sprintf("Option %d", len(opts)+1))
	}
	return opts
}

// NormalizeJobDescription: title jatuh ke hint lalu "Internship",
// requirements array digabung jadi bullet, kategori di luar daftar → "".
func NormalizeJobDescription(raw dto.RawJobDescription, titleHint string) dto.JobDescription {
	out := dto.JobDescription{
		Title:        strings.TrimSpace(raw.Title),
		Description:  strings.TrimSpace(raw.Description),
		Requirements: requirementsText(raw.Requirements),
		Category:     strings.ToLower(strings.TrimSpace(raw.Category)),
	}
	if out.Title == "" {
		out.Title = strings.TrimSpace(titleHint)
	}
	if out.Title == "" {
		out.Title = "Internship"
	}
	known := false
	for _, c := range internModel.Categories {
		if c == out.Category {
			known = true
			break
		}
	}
	if !known {
		out.Category = ""
	}
	return out
}

func requirementsText(v any) string {
	switch r := v.(type) {
	case string:
		return strings.TrimSpace(r)
	case []any:
		lines := make([]string, 0, len(r))
		for _, item := range r {
			s := strings.TrimSpace(fmt.Sprint(item))
			if s != "" && item != nil {
				lines = append(lines, "- "+strings.TrimPrefix(s, "- "))
			}
		}
		return strings.Join(lines, "\n")
	}
	return ""
}
