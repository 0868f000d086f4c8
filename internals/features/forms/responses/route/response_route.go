package route

import (
	"internlink_backend/internals/features/forms/responses/controller"
	"internlink_backend/internals/features/forms/responses/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func ResponseRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewResponseController(svc, v)

	g := r.Group("/responses")
	g.Get("/:id", ctrl.Get)
	g.Put("/:id/answers", ctrl.SaveAnswers)
	g.Post("/:id/questions/:questionId/file", ctrl.UploadFile)
}
