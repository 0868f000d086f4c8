package controller

import (
	authModel "internlink_backend/internals/features/users/auth/model"
	"internlink_backend/internals/features/users/interns/dto"
	"internlink_backend/internals/features/users/interns/service"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type InternController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewInternController(svc *service.Service, v *validator.Validate) *InternController {
	return &InternController{Svc: svc, Validate: v}
}

// GET /api/interns/me
func (ctrl *InternController) GetMe(c *fiber.Ctx) error {
	internID, err := helperAuth.RequireRole(c, authModel.RoleIntern)
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.Svc.Get(c.Context(), internID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// PUT /api/interns/me
func (ctrl *InternController) UpdateMe(c *fiber.Ctx) error {
	internID, err := helperAuth.RequireRole(c, authModel.RoleIntern)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateInternRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.Svc.Update(c.Context(), internID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "profile updated", m)
}

// GET /api/interns/:id (company)
func (ctrl *InternController) GetByID(c *fiber.Ctx) error {
	if _, err := helperAuth.RequireRole(c, authModel.RoleCompany); err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "intern id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.Svc.Get(c.Context(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// GET /api/referrals/me
func (ctrl *InternController) MyReferrals(c *fiber.Ctx) error {
	internID, err := helperAuth.RequireRole(c, authModel.RoleIntern)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Referrals(c.Context(), internID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// GET /api/referrals/validate/:code (public)
func (ctrl *InternController) ValidateReferral(c *fiber.Ctx) error {
	out, err := ctrl.Svc.ValidateReferralCode(c.Context(), c.Params("code"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
