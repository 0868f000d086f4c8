package route

import (
	"internlink_backend/internals/features/messaging/conversations/controller"
	"internlink_backend/internals/features/messaging/conversations/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func ConversationRoutes(r fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewConversationController(svc, v)

	g := r.Group("/conversations")
	g.Post("/", ctrl.Open)
	g.Get("/", ctrl.List)
	g.Get("/:id/messages", ctrl.Messages)
	g.Post("/:id/messages", ctrl.Post)
}
