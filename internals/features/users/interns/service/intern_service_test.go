package service

import (
	"context"
	"testing"

	"internlink_backend/internals/databases/dbtest"
	"internlink_backend/internals/features/users/interns/dto"
	internModel "internlink_backend/internals/features/users/interns/model"
	"internlink_backend/internals/helpers/fault"
)

func strp(s string) *string { return &s }

func TestUpdateRecomputesCompletion(t *testing.T) {
	db := dbtest.Open(t)
	p := dbtest.CreateIntern(t, db, "Ada")
	svc := New(db)
	ctx := context.Background()

	skills := []string{" Go ", "go", "SQL", ""}
	m, err := svc.Update(ctx, p.ID, dto.UpdateInternRequest{
		School:    strp("North High"),
		City:      strp("Austin"),
		Skills:    &skills,
		BirthDate: strp("2008-04-02"),
	})
	if err != nil {
		t.Fatal(err)
	}
	// full_name, school, city, skills, birth_date = 5/11
	if m.ProfileCompletion != 45 {
		t.Fatalf("completion = %d", m.ProfileCompletion)
	}
	if string(m.Skills) != `["Go","SQL"]` {
		t.Fatalf("skills = %s", m.Skills)
	}

	m, err = svc.Update(ctx, p.ID, dto.UpdateInternRequest{City: strp(" ")})
	if err != nil {
		t.Fatal(err)
	}
	if m.City != nil || m.ProfileCompletion != 36 {
		t.Fatalf("clearing city: city=%v completion=%d", m.City, m.ProfileCompletion)
	}

	if _, err := svc.Update(ctx, p.ID, dto.UpdateInternRequest{BirthDate: strp("02/04/2008")}); !fault.Is(err, fault.KindValidation) {
		t.Fatalf("bad date: %v", err)
	}
}

func TestReferrals(t *testing.T) {
	db := dbtest.Open(t)
	ref := dbtest.CreateIntern(t, db, "Ref")
	a := dbtest.CreateIntern(t, db, "A")
	dbtest.CreateIntern(t, db, "Other")
	db.Model(&internModel.InternProfileModel{}).Where("id = ?", a.ID).Update("referred_by", ref.ID)

	svc := New(db)
	ctx := context.Background()
	sum, err := svc.Referrals(ctx, ref.ID)
	if err != nil {
		t.Fatal(err)
	}
	if sum.Count != 1 || sum.Referred[0].ID != a.ID || sum.ReferralCode != ref.ReferralCode {
		t.Fatalf("summary = %+v", sum)
	}

	db.Model(&internModel.InternProfileModel{}).Where("id = ?", ref.ID).Update("referral_code", "ABCD2345")
	ok, err := svc.ValidateReferralCode(ctx, " abcd2345 ")
	if err != nil || !ok.Valid || ok.ReferrerName != "Ref" {
		t.Fatalf("valid code: %+v %v", ok, err)
	}
	bad, err := svc.ValidateReferralCode(ctx, "ZZZZ9999")
	if err != nil || bad.Valid {
		t.Fatalf("unknown code: %+v %v", bad, err)
	}
}
