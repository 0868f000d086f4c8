package seeds

import (
	"context"
	"log"
	"path/filepath"

	"internlink_backend/internals/configs"
	formService "internlink_backend/internals/features/forms/forms/service"
	bankService "internlink_backend/internals/features/forms/question_bank/service"
	internshipService "internlink_backend/internals/features/opportunities/internships/service"
	authService "internlink_backend/internals/features/users/auth/service"
	"internlink_backend/internals/seeds/accounts"
	"internlink_backend/internals/seeds/opportunities"

	"gorm.io/gorm"
)

const DefaultDir = "internals/seeds"

type Result struct {
	Accounts      int
	Opportunities int
}

// RunAllSeeds: akun dulu, lalu lowongan milik company yang baru dibuat.
func RunAllSeeds(ctx context.Context, db *gorm.DB, cfg *configs.Config, dir string) (Result, error) {
	var res Result

	//* Accounts
	seedCfg := *cfg
	seedCfg.EmailVerificationRequired = false
	n, err := accounts.SeedAccountsFromJSON(ctx, authService.New(db, &seedCfg), filepath.Join(dir, "accounts", "data_accounts.json"))
	res.Accounts = n
	if err != nil {
		return res, err
	}

	//* Opportunities + forms
	forms := formService.New(db, bankService.New(db))
	n, err = opportunities.SeedOpportunitiesFromJSON(ctx, db, internshipService.New(db, db), forms, filepath.Join(dir, "opportunities", "data_opportunities.json"))
	res.Opportunities = n
	if err != nil {
		return res, err
	}

	log.Printf("[INFO] seed selesai: %d akun, %d lowongan", res.Accounts, res.Opportunities)
	return res, nil
}
