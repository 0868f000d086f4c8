package opportunities

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	formDto "internlink_backend/internals/features/forms/forms/dto"
	formService "internlink_backend/internals/features/forms/forms/service"
	"internlink_backend/internals/features/opportunities/internships/dto"
	internshipModel "internlink_backend/internals/features/opportunities/internships/model"
	internshipService "internlink_backend/internals/features/opportunities/internships/service"
	authModel "internlink_backend/internals/features/users/auth/model"

	"github.com/bytedance/sonic"
	"gorm.io/gorm"
)

type OpportunitySeed struct {
	CompanyEmail string                          `json:"company_email"`
	Internship   dto.CreateInternshipRequest     `json:"internship"`
	Form         *formDto.UpsertQuestionsRequest `json:"form"`
}

// SeedOpportunitiesFromJSON: lowongan + form aplikasi. Lowongan dengan
// judul sama di company yang sama dilewati.
func SeedOpportunitiesFromJSON(ctx context.Context, db *gorm.DB, internships *internshipService.Service, forms *formService.Service, filePath string) (int, error) {
	log.Println("📥 Membaca file lowongan:", filePath)

	file, err := os.ReadFile(filePath)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", filePath, err)
	}
	var inputs []OpportunitySeed
	if err := sonic.Unmarshal(file, &inputs); err != nil {
		return 0, fmt.Errorf("decode %s: %w", filePath, err)
	}

	created := 0
	for _, in := range inputs {
		var owner authModel.UserModel
		err := db.WithContext(ctx).
			Where("email = ? AND role = ?", strings.ToLower(in.CompanyEmail), authModel.RoleCompany).
			First(&owner).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			log.Printf("⚠️ Company '%s' belum ada, lowongan '%s' dilewati.", in.CompanyEmail, in.Internship.Title)
			continue
		}
		if err != nil {
			return created, err
		}

		var n int64
		if err := db.WithContext(ctx).Model(&internshipModel.InternshipModel{}).
			Where("company_id = ? AND title = ?", owner.ID, strings.TrimSpace(in.Internship.Title)).
			Count(&n).Error; err != nil {
			return created, err
		}
		if n > 0 {
			log.Printf("ℹ️ Lowongan '%s' sudah ada, dilewati.", in.Internship.Title)
			continue
		}

		view, err := internships.Create(ctx, owner.ID, in.Internship)
		if err != nil {
			return created, fmt.Errorf("seed internship %q: %w", in.Internship.Title, err)
		}
		if in.Form != nil {
			tree, err := forms.EnsureForm(ctx, owner.ID, view.ID, "")
			if err != nil {
				return created, err
			}
			if _, err := forms.UpsertQuestions(ctx, owner.ID, tree.ID, *in.Form); err != nil {
				return created, fmt.Errorf("seed form %q: %w", in.Internship.Title, err)
			}
		}
		created++
		log.Printf("✅ Berhasil insert lowongan '%s'", in.Internship.Title)
	}
	return created, nil
}
