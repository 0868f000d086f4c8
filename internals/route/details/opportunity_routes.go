package details

import (
	applicationRoute "internlink_backend/internals/features/applications/applications/route"
	formRoute "internlink_backend/internals/features/forms/forms/route"
	generatorRoute "internlink_backend/internals/features/forms/generator/route"
	bankRoute "internlink_backend/internals/features/forms/question_bank/route"
	responseRoute "internlink_backend/internals/features/forms/responses/route"
	internshipRoute "internlink_backend/internals/features/opportunities/internships/route"
	authMw "internlink_backend/internals/middlewares/auth"

	"github.com/gofiber/fiber/v2"
)

// OpportunityPublicRoutes: listing + detail terbuka; tulis tetap cek role
// di controller (auth opsional mengisi locals kalau token ada).
func OpportunityPublicRoutes(public fiber.Router, d Deps, s *Services) {
	optional := authMw.OptionalAuthMiddleware(d.Cfg, d.DB)
	internshipRoute.InternshipRoutes(public, s.Internships, d.Validate, optional)
	formRoute.FormPublicRoutes(public, s.Forms, d.Validate)
}

func OpportunityUserRoutes(protected fiber.Router, d Deps, s *Services) {
	formRoute.FormRoutes(protected, s.Forms, d.Validate)
	bankRoute.QuestionBankRoutes(protected, s.Bank, d.Validate)
	responseRoute.ResponseRoutes(protected, s.Responses, d.Validate)
	applicationRoute.ApplicationRoutes(protected, s.Applications, d.Validate)
	generatorRoute.GeneratorRoutes(protected, s.Generator, d.Validate)
}
