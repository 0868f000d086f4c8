package route

import (
	"internlink_backend/internals/features/users/companies/controller"
	"internlink_backend/internals/features/users/companies/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func CompanyRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewCompanyController(svc, v)

	g := r.Group("/companies/me")
	g.Get("/", ctrl.GetMe)
	g.Put("/", ctrl.UpdateMe)
	g.Post("/logo", ctrl.UploadLogo)
}
