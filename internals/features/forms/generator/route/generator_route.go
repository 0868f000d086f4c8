package route

import (
	"internlink_backend/internals/features/forms/generator/controller"
	"internlink_backend/internals/features/forms/generator/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func GeneratorRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewGeneratorController(svc, v)

	companies := r.Group("/companies")
	companies.Post("/forms/ai-generate", ctrl.GenerateForm)
	companies.Post("/opportunities/ai-describe", ctrl.Describe)
}
