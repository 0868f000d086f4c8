package details

import (
	authRoute "internlink_backend/internals/features/users/auth/route"
	companyRoute "internlink_backend/internals/features/users/companies/route"
	internRoute "internlink_backend/internals/features/users/interns/route"

	"github.com/gofiber/fiber/v2"
)

// AccountPublicRoutes: /api/auth/* tanpa token + cek kode referral.
func AccountPublicRoutes(public fiber.Router, d Deps, s *Services) {
	authRoute.AuthRoutes(public, s.Auth, d.Validate, d.Store)
	internRoute.ReferralPublicRoutes(public, s.Interns, d.Validate)
}

func AccountUserRoutes(protected fiber.Router, d Deps, s *Services) {
	authRoute.AuthUserRoutes(protected, s.Auth, d.Validate)
	companyRoute.CompanyRoutes(protected, s.Companies, d.Validate)
	internRoute.InternRoutes(protected, s.Interns, d.Validate)
}
