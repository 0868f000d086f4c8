package route

import (
	"internlink_backend/internals/features/forms/question_bank/controller"
	"internlink_backend/internals/features/forms/question_bank/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// QuestionBankRoutes: router sudah melewati AuthJWT.
func QuestionBankRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewQuestionBankController(svc, v)

	g := r.Group("/question-bank")
	g.Get("/", ctrl.List)
	g.Post("/", ctrl.Create)
	g.Post("/:id/use", ctrl.Use)
}
