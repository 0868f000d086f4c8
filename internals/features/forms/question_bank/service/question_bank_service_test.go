package service

import (
	"context"
	"testing"

	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/forms/question_bank/dto"
	"internlink_backend/internals/features/forms/question_bank/model"
)

func TestGetOrCreateQuestionReusesEntry(t *testing.T) {
	db := dbtest.Open(t)
	svc := New(db)
	ctx := context.Background()
	company := dbtest.CreateCompany(t, db, "Acme")

	first, err := svc.GetOrCreateQuestion(ctx, nil, company.ID, "short_text", "  Why do you want   this role? ", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := svc.GetOrCreateQuestion(ctx, nil, company.ID, "long_text", "Why do you want this role?", nil)
	if err != nil {
		t.Fatalf("reuse: %v", err)
	}
	if first != second {
		t.Fatalf("expected reuse, got %s and %s", first, second)
	}

	var m model.QuestionBankModel
	if err := db.First(&m, "id = ?", first).Error; err != nil {
		t.Fatal(err)
	}
	if m.UsageCount != 2 {
		t.Errorf("usage_count = %d, want 2", m.UsageCount)
	}
	if m.Type != "short_text" || m.QuestionText != "Why do you want this role?" {
		t.Errorf("entry mutated on reuse: %+v", m)
	}

	var count int64
	db.Model(&model.QuestionBankModel{}).Count(&count)
	if count != 1 {
		t.Errorf("rows = %d, want 1", count)
	}
}

func TestGetOrCreateQuestionIsScopedPerCompany(t *testing.T) {
	db := dbtest.Open(t)
	svc := New(db)
	ctx := context.Background()
	a := dbtest.CreateCompany(t, db, "A")
	b := dbtest.CreateCompany(t, db, "B")

	idA, err := svc.GetOrCreateQuestion(ctx, nil, a.ID, "short_text", "Your name?", nil)
	if err != nil {
		t.Fatal(err)
	}
	idB, err := svc.GetOrCreateQuestion(ctx, nil, b.ID, "short_text", "Your name?", nil)
	if err != nil {
		t.Fatal(err)
	}
	if idA == idB {
		t.Fatal("companies must not share bank entries implicitly")
	}
}

func TestUseRespectsPrivacy(t *testing.T) {
	db := dbtest.Open(t)
	svc := New(db)
	ctx := context.Background()
	owner := dbtest.CreateCompany(t, db, "Owner")
	other := dbtest.CreateCompany(t, db, "Other")

	priv, err := svc.Create(ctx, owner.ID, dto.CreateQuestionBankRequest{Type: "short_text", QuestionText: "Secret?", IsPrivate: true})
	if err != nil {
		t.Fatal(err)
	}
	pub, err := svc.Create(ctx, owner.ID, dto.CreateQuestionBankRequest{Type: "short_text", QuestionText: "Public?"})
	if err != nil {
		t.Fatal(err)
	}

	if _, err := svc.Use(ctx, nil, other.ID, priv.ID); err == nil {
		t.Fatal("other company used a private entry")
	}
	used, err := svc.Use(ctx, nil, other.ID, pub.ID)
	if err != nil {
		t.Fatalf("use public: %v", err)
	}
	if used.UsageCount != 2 {
		t.Errorf("usage_count = %d, want 2", used.UsageCount)
	}

	rows, total, err := svc.List(ctx, other.ID, dto.ListFilter{})
	if err != nil {
		t.Fatal(err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != pub.ID {
		t.Fatalf("other company should only see the public entry, got %d rows", len(rows))
	}
}
