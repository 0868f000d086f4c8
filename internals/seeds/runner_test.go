package seeds

import (
	"context"
	"testing"

	"internlink_backend/internals/configs"
	"internlink_backend/internals/databases/dbtest"
	formModel "internlink_backend/internals/features/forms/forms/model"
	internModel "internlink_backend/internals/features/users/interns/model"
)

func TestRunAllSeedsIsIdempotent(t *testing.T) {
	db := dbtest.Open(t)
	cfg := &configs.Config{JWTSecret: "seed", EmailVerificationRequired: true}
	ctx := context.Background()

	res, err := RunAllSeeds(ctx, db, cfg, ".")
	if err != nil {
		t.Fatalf("seed: %v", err)
	}
	if res.Accounts != 4 || res.Opportunities != 2 {
		t.Fatalf("first run = %+v", res)
	}

	var interns []internModel.InternProfileModel
	db.Find(&interns)
	for _, in := range interns {
		if in.ReferralCode == "" {
			t.Fatalf("intern %s has no referral code", in.ID)
		}
	}
	var questions int64
	db.Model(&formModel.FormQuestionModel{}).Count(&questions)
	if questions != 6 {
		t.Fatalf("questions = %d", questions)
	}

	again, err := RunAllSeeds(ctx, db, cfg, ".")
	if err != nil {
		t.Fatal(err)
	}
	if again.Accounts != 0 || again.Opportunities != 0 {
		t.Fatalf("second run = %+v", again)
	}
}
