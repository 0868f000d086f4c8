package route

import (
	"internlink_backend/internals/features/applications/applications/controller"
	"internlink_backend/internals/features/applications/applications/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func ApplicationRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewApplicationController(svc, v)

	r.Post("/opportunities/:id/apply", ctrl.Apply)
	r.Get("/opportunities/:id/applications", ctrl.ListForOpportunity)

	g := r.Group("/applications")
	g.Get("/me", ctrl.ListMine)
	g.Post("/:id/submit", ctrl.Submit)
	g.Post("/:id/decision", ctrl.Decide)
}
