package controller

import (
	"internlink_backend/internals/features/interview/scoring/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/gofiber/fiber/v2"
)

type ScoringController struct {
	Svc *service.Service
}

func NewScoringController(svc *service.Service) *ScoringController {
	return &ScoringController{Svc: svc}
}

// POST /api/interview/regenerate-ai-scores
func (ctrl *ScoringController) Regenerate(c *fiber.Ctx) error {
	internID, err := helperAuth.RequireRole(c, authModel.RoleIntern)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.RegenerateScores(c.Context(), internID)
	if err != nil {
		return helper.FromError(c, err)
	}
	msg := "scores regenerated"
	if out.Fallback {
		msg = "AI scoring unavailable, returning fallback scores"
	}
	return helper.JsonOK(c, msg, out)
}
