package controller

import (
	"internlink_backend/internals/features/messaging/conversations/dto"
	"internlink_backend/internals/features/messaging/conversations/service"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ConversationController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewConversationController(svc *service.Service, v *validator.Validate) *ConversationController {
	return &ConversationController{Svc: svc, Validate: v}
}

// POST /api/conversations
func (ctrl *ConversationController) Open(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.OpenRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	conv, created, err := ctrl.Svc.Open(c.Context(), userID, helperAuth.GetRole(c), req)
	if err != nil {
		return helper.FromError(c, err)
	}
	if created {
		return helper.JsonCreated(c, "conversation created", dto.FromConversation(*conv))
	}
	return helper.JsonOK(c, "ok", dto.FromConversation(*conv))
}

// GET /api/conversations
func (ctrl *ConversationController) List(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.ListForUser(c.Context(), userID, helperAuth.GetRole(c))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/conversations/:id/messages
func (ctrl *ConversationController) Messages(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "conversation id")
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Messages(c.Context(), id, userID, helperAuth.GetRole(c))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// POST /api/conversations/:id/messages {"content": "..."}
func (ctrl *ConversationController) Post(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "conversation id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.PostMessageRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	msg, err := ctrl.Svc.PostMessageAs(c.Context(), id, userID, helperAuth.GetRole(c), req.Content)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "message sent", dto.FromMessage(*msg))
}
