package service

import (
	"context"
	"testing"

	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/forms/forms/dto"
	"internlink_backend/internals/features/forms/forms/model"
	bankModel "internlink_backend/internals/features/forms/question_bank/model"
	bankService "internlink_backend/internals/features/forms/question_bank/service"
	"internlink_backend/internals/helpers/fault"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	svc       *Service
	companyID uuid.UUID
	form      *dto.FormTree
}

func setup(t *testing.T) fixture {
	t.Helper()
	db := dbtest.Open(t)
	svc := New(db, bankService.New(db))
	company := dbtest.CreateCompany(t, db, "Acme")
	in := dbtest.CreateInternship(t, db, company.ID, "Design Intern")
	form, err := svc.EnsureForm(context.Background(), company.ID, in.ID, "")
	if err != nil {
		t.Fatalf("ensure form: %v", err)
	}
	return fixture{db: db, svc: svc, companyID: company.ID, form: form}
}

func TestEnsureFormIsIdempotent(t *testing.T) {
	f := setup(t)
	again, err := f.svc.EnsureForm(context.Background(), f.companyID, f.form.InternshipID, "Other title")
	if err != nil {
		t.Fatal(err)
	}
	if again.ID != f.form.ID {
		t.Fatalf("second EnsureForm created a new form")
	}
	if again.Title != "Design Intern Application" {
		t.Errorf("title = %q", again.Title)
	}
}

func TestGetFormOrdersSectionsAndQuestions(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Sections: []dto.SectionInput{
			{Key: "late", Title: "Late", OrderIndex: 40},
			{Key: "early", Title: "Early", OrderIndex: -3},
		},
		Questions: []dto.QuestionInput{
			{SectionKey: "early", Type: model.TypeShortText, QuestionText: "Q3", OrderIndex: 100},
			{SectionKey: "early", Type: model.TypeShortText, QuestionText: "Q1", OrderIndex: 7},
			{SectionKey: "late", Type: model.TypeDropdown, QuestionText: "Pick", Options: []string{"a", " ", "b", "c"}},
		},
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}

	tree, err := f.svc.GetForm(ctx, f.form.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Sections) != 2 || tree.Sections[0].Title != "Early" || tree.Sections[1].Title != "Late" {
		t.Fatalf("section order wrong: %+v", tree.Sections)
	}
	early := tree.Sections[0].Questions
	if len(early) != 2 || early[0].QuestionText != "Q1" || early[1].QuestionText != "Q3" {
		t.Fatalf("question order wrong: %+v", early)
	}
	pick := tree.Sections[1].Questions[0]
	if len(pick.Options) != 3 || pick.Options[0] != "a" || pick.Options[2] != "c" {
		t.Fatalf("options = %v", pick.Options)
	}
	if pick.QuestionBankID == nil {
		t.Fatal("new question should be linked to the question bank")
	}
}

func TestUpsertRejectsForeignSection(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	other := setupOtherForm(t, f)
	_, err := f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Questions: []dto.QuestionInput{
			{SectionID: &other, Type: model.TypeShortText, QuestionText: "Sneaky"},
		},
	})
	flt, ok := fault.As(err)
	if !ok || flt.Code != fault.CodeInvalidSection {
		t.Fatalf("expected InvalidSection, got %v", err)
	}

	var n int64
	f.db.Model(&model.FormQuestionModel{}).Count(&n)
	if n != 0 {
		t.Fatalf("rejected payload wrote %d questions", n)
	}
}

func setupOtherForm(t *testing.T, f fixture) uuid.UUID {
	t.Helper()
	in := dbtest.CreateInternship(t, f.db, f.companyID, "Other")
	form, err := f.svc.EnsureForm(context.Background(), f.companyID, in.ID, "")
	if err != nil {
		t.Fatal(err)
	}
	sec := model.FormSectionModel{FormID: form.ID, Title: "Elsewhere"}
	if err := f.db.Create(&sec).Error; err != nil {
		t.Fatal(err)
	}
	return sec.ID
}

func TestUpsertRejectsSingleOptionChoice(t *testing.T) {
	f := setup(t)
	_, err := f.svc.UpsertQuestions(context.Background(), f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Sections:  []dto.SectionInput{{Key: "s", Title: "S"}},
		Questions: []dto.QuestionInput{{SectionKey: "s", Type: model.TypeMultipleChoice, QuestionText: "Yes?", Options: []string{"Yes", ""}}},
	})
	if !fault.Is(err, fault.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	var sections int64
	f.db.Model(&model.FormSectionModel{}).Count(&sections)
	if sections != 0 {
		t.Fatal("validation failure must not write sections")
	}
}

func TestUpsertRejectsUnknownType(t *testing.T) {
	f := setup(t)
	_, err := f.svc.UpsertQuestions(context.Background(), f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Sections:  []dto.SectionInput{{Key: "s"}},
		Questions: []dto.QuestionInput{{SectionKey: "s", Type: "rating", QuestionText: "Rate us"}},
	})
	if !fault.Is(err, fault.KindValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteQuestionThenItsSection(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	qs, err := f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Sections: []dto.SectionInput{{Key: "a", Title: "A"}, {Key: "b", Title: "B"}},
		Questions: []dto.QuestionInput{
			{SectionKey: "a", Type: model.TypeShortText, QuestionText: "A1"},
			{SectionKey: "a", Type: model.TypeCheckboxes, QuestionText: "A2", Options: []string{"x", "y"}},
			{SectionKey: "b", Type: model.TypeShortText, QuestionText: "B1"},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	sectionA := qs[0].SectionID

	_, err = f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		DeletedQuestionIDs: []uuid.UUID{qs[0].ID, uuid.New()},
		DeletedSectionIDs:  []uuid.UUID{sectionA},
	})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}

	tree, err := f.svc.GetForm(ctx, f.form.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(tree.Sections) != 1 || tree.Sections[0].Title != "B" {
		t.Fatalf("sections after delete: %+v", tree.Sections)
	}
	var opts int64
	f.db.Model(&model.FormQuestionOptionModel{}).Count(&opts)
	if opts != 0 {
		t.Errorf("orphaned options: %d", opts)
	}
}

func TestDeleteIgnoresOtherFormsIDs(t *testing.T) {
	f := setup(t)
	other := setupOtherForm(t, f)

	if _, err := f.svc.UpsertQuestions(context.Background(), f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		DeletedSectionIDs: []uuid.UUID{other},
	}); err != nil {
		t.Fatal(err)
	}
	var n int64
	f.db.Model(&model.FormSectionModel{}).Where("id = ?", other).Count(&n)
	if n != 1 {
		t.Fatal("section from another form was deleted")
	}
}

func TestUpsertRequiresOwnership(t *testing.T) {
	f := setup(t)
	stranger := dbtest.CreateCompany(t, f.db, "Stranger")
	_, err := f.svc.UpsertQuestions(context.Background(), stranger.ID, f.form.ID, dto.UpsertQuestionsRequest{})
	if !fault.Is(err, fault.KindForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestNewQuestionsReuseBankEntries(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
			Sections:  []dto.SectionInput{{Key: "s", Title: "S"}},
			Questions: []dto.QuestionInput{{SectionKey: "s", Type: model.TypeLongText, QuestionText: "Tell us about yourself"}},
		}); err != nil {
			t.Fatal(err)
		}
	}

	var entries []bankModel.QuestionBankModel
	if err := f.db.Find(&entries).Error; err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].UsageCount != 2 {
		t.Fatalf("bank entries = %+v", entries)
	}

	// reuse by reference
	qs, err := f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Sections:  []dto.SectionInput{{Key: "s2", Title: "S2"}},
		Questions: []dto.QuestionInput{{SectionKey: "s2", Type: model.TypeLongText, QuestionBankID: &entries[0].ID}},
	})
	if err != nil {
		t.Fatal(err)
	}
	if qs[0].QuestionText != "Tell us about yourself" {
		t.Errorf("text not copied from bank: %q", qs[0].QuestionText)
	}
	var after bankModel.QuestionBankModel
	f.db.First(&after, "id = ?", entries[0].ID)
	if after.UsageCount != 3 {
		t.Errorf("usage_count = %d, want 3", after.UsageCount)
	}
}

func TestUpdateWithBlankTextKeepsStoredText(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	qs, err := f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Sections:  []dto.SectionInput{{Key: "s", Title: "About"}},
		Questions: []dto.QuestionInput{{SectionKey: "s", Type: model.TypeShortText, QuestionText: "Your school"}},
	})
	if err != nil {
		t.Fatal(err)
	}

	updated, err := f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Questions: []dto.QuestionInput{{ID: &qs[0].ID, Type: model.TypeShortText, Required: true, OrderIndex: 5}},
	})
	if err != nil {
		t.Fatalf("update with blank text: %v", err)
	}
	if len(updated) != 1 || updated[0].QuestionText != "Your school" || !updated[0].Required || updated[0].OrderIndex != 5 {
		t.Fatalf("updated = %+v", updated)
	}

	_, err = f.svc.UpsertQuestions(ctx, f.companyID, f.form.ID, dto.UpsertQuestionsRequest{
		Questions: []dto.QuestionInput{{SectionID: &qs[0].SectionID, Type: model.TypeShortText}},
	})
	if !fault.Is(err, fault.KindValidation) {
		t.Fatalf("insert without text: %v", err)
	}
}
