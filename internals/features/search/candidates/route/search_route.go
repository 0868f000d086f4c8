package route

import (
	"internlink_backend/internals/features/search/candidates/controller"
	"internlink_backend/internals/features/search/candidates/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func SearchRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewSearchController(svc, v)
	r.Post("/search/candidates", ctrl.Candidates)
}
