package dbtest

import (
	"fmt"
	"testing"

	internshipModel "internlink_backend/internals/features/opportunities/internships/model"
	authModel "internlink_backend/internals/features/users/auth/model"
	companyModel "internlink_backend/internals/features/users/companies/model"
	internModel "internlink_backend/internals/features/users/interns/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func CreateCompany(t testing.TB, db *gorm.DB, name string) *companyModel.CompanyModel {
	t.Helper()
	u := authModel.UserModel{
		Email:    fmt.Sprintf("%s-%s@example.com", name, uuid.NewString()[:8]),
		Password: "x",
		Name:     name,
		Role:     authModel.RoleCompany,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create company user: %v", err)
	}
	c := companyModel.CompanyModel{ID: u.ID, Name: name}
	if err := db.Create(&c).Error; err != nil {
		t.Fatalf("create company: %v", err)
	}
	return &c
}

func CreateIntern(t testing.TB, db *gorm.DB, name string) *internModel.InternProfileModel {
	t.Helper()
	u := authModel.UserModel{
		Email:    fmt.Sprintf("intern-%s@example.com", uuid.NewString()[:8]),
		Password: "x",
		Name:     name,
		Role:     authModel.RoleIntern,
		IsActive: true,
	}
	if err := db.Create(&u).Error; err != nil {
		t.Fatalf("create intern user: %v", err)
	}
	p := internModel.InternProfileModel{
		ID:           u.ID,
		FullName:     name,
		ReferralCode: uuid.NewString()[:8],
	}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("create intern profile: %v", err)
	}
	return &p
}

func CreateInternship(t testing.TB, db *gorm.DB, companyID uuid.UUID, title string) *internshipModel.InternshipModel {
	t.Helper()
	m := internshipModel.InternshipModel{
		CompanyID:    companyID,
		Title:        title,
		LocationType: internshipModel.LocationRemote,
		IsActive:     true,
	}
	if err := db.Create(&m).Error; err != nil {
		t.Fatalf("create internship: %v", err)
	}
	return &m
}
