package route

import (
	"internlink_backend/internals/features/interview/scoring/controller"
	"internlink_backend/internals/features/interview/scoring/service"

	"github.com/gofiber/fiber/v2"
)

func ScoringRoutes(r fiber.Router, svc *service.Service) {
	ctrl := controller.NewScoringController(svc)
	r.Post("/interview/regenerate-ai-scores", ctrl.Regenerate)
}
