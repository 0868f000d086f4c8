package controller

import (
	"internlink_backend/internals/features/forms/responses/dto"
	"internlink_backend/internals/features/forms/responses/service"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ResponseController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewResponseController(svc *service.Service, v *validator.Validate) *ResponseController {
	return &ResponseController{Svc: svc, Validate: v}
}

// GET /api/responses/:id
func (ctrl *ResponseController) Get(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "response id")
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Get(c.Context(), userID, helperAuth.GetRole(c), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PUT /api/responses/:id/answers
func (ctrl *ResponseController) SaveAnswers(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "response id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SaveAnswersRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.SaveAnswersForUser(c.Context(), userID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "answers saved", out)
}

// POST /api/responses/:id/questions/:questionId/file (multipart: file)
func (ctrl *ResponseController) UploadFile(c *fiber.Ctx) error {
	userID, err := helperAuth.GetUserID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "response id")
	if err != nil {
		return helper.FromError(c, err)
	}
	qid, err := helper.ParseUUIDParam(c, "questionId", "question id")
	if err != nil {
		return helper.FromError(c, err)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		return helper.FromError(c, fault.Validation("multipart field 'file' is required"))
	}
	out, err := ctrl.Svc.UploadAnswerFile(c.Context(), userID, id, qid, fh)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "file uploaded", out)
}
