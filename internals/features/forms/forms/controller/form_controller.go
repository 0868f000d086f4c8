package controller

import (
	"internlink_backend/internals/features/forms/forms/dto"
	"internlink_backend/internals/features/forms/forms/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type FormController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewFormController(svc *service.Service, v *validator.Validate) *FormController {
	return &FormController{Svc: svc, Validate: v}
}

// GET /api/forms/:formId/questions
func (ctrl *FormController) GetQuestions(c *fiber.Ctx) error {
	formID, err := helper.ParseUUIDParam(c, "formId", "form id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tree, err := ctrl.Svc.GetForm(c.Context(), formID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", tree)
}

// POST /api/forms/:formId/questions
func (ctrl *FormController) UpsertQuestions(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	formID, err := helper.ParseUUIDParam(c, "formId", "form id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpsertQuestionsRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.UpsertQuestions(c.Context(), companyID, formID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "questions saved", fiber.Map{"questions": out})
}

// GET /api/opportunities/:id/form
func (ctrl *FormController) GetByOpportunity(c *fiber.Ctx) error {
	internshipID, err := helper.ParseUUIDParam(c, "id", "opportunity id")
	if err != nil {
		return helper.FromError(c, err)
	}
	tree, err := ctrl.Svc.GetFormByInternship(c.Context(), internshipID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", tree)
}

// POST /api/opportunities/:id/form
func (ctrl *FormController) EnsureForOpportunity(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	internshipID, err := helper.ParseUUIDParam(c, "id", "opportunity id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.EnsureFormRequest
	if len(c.Body()) > 0 {
		if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	tree, err := ctrl.Svc.EnsureForm(c.Context(), companyID, internshipID, req.Title)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", tree)
}
