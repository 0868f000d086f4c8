package route

import (
	"internlink_backend/internals/features/forms/forms/controller"
	"internlink_backend/internals/features/forms/forms/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// FormPublicRoutes: baca skema form tanpa login (halaman apply).
func FormPublicRoutes(public fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewFormController(svc, v)

	public.Get("/forms/:formId/questions", ctrl.GetQuestions)
	public.Get("/opportunities/:id/form", ctrl.GetByOpportunity)
}

// FormRoutes: tulis skema, hanya company pemilik.
func FormRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewFormController(svc, v)

	r.Post("/forms/:formId/questions", ctrl.UpsertQuestions)
	r.Post("/opportunities/:id/form", ctrl.EnsureForOpportunity)
}
