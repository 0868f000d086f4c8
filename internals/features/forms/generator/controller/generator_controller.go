package controller

import (
	"internlink_backend/internals/features/forms/generator/dto"
	"internlink_backend/internals/features/forms/generator/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type GeneratorController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewGeneratorController(svc *service.Service, v *validator.Validate) *GeneratorController {
	return &GeneratorController{Svc: svc, Validate: v}
}

// POST /api/companies/forms/ai-generate
func (ctrl *GeneratorController) GenerateForm(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.GenerateFormRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.GenerateForm(c.Context(), companyID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	msg := "form generated"
	if out.Applied != nil {
		msg = "form generated and applied"
	}
	return helper.JsonOK(c, msg, out)
}

// POST /api/companies/opportunities/ai-describe
func (ctrl *GeneratorController) Describe(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.DescribeRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.GenerateJobDescription(c.Context(), companyID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
