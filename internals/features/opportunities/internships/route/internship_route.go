package route

import (
	"internlink_backend/internals/features/opportunities/internships/controller"
	"internlink_backend/internals/features/opportunities/internships/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// InternshipRoutes: mw dipasang per route (mis. auth opsional), handler
// tulis tetap memeriksa role sendiri.
func InternshipRoutes(r fiber.Router, svc *service.Service, v *validator.Validate, mw ...fiber.Handler) {
	ctrl := controller.NewInternshipController(svc, v)
	with := func(h fiber.Handler) []fiber.Handler { return append(append([]fiber.Handler{}, mw...), h) }

	g := r.Group("/opportunities")
	g.Get("/", with(ctrl.List)...)
	g.Post("/", with(ctrl.Create)...)
	g.Get("/:id", with(ctrl.Get)...)
	g.Put("/:id", with(ctrl.Update)...)
	g.Patch("/:id/active", with(ctrl.SetActive)...)
	g.Post("/:id/delete", with(ctrl.Delete)...)
	g.Delete("/:id", with(ctrl.Delete)...)
}
