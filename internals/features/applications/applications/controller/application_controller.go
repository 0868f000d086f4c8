package controller

import (
	"internlink_backend/internals/features/applications/applications/dto"
	"internlink_backend/internals/features/applications/applications/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type ApplicationController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewApplicationController(svc *service.Service, v *validator.Validate) *ApplicationController {
	return &ApplicationController{Svc: svc, Validate: v}
}

// POST /api/opportunities/:id/apply  body opsional: {"fresh": true}
func (ctrl *ApplicationController) Apply(c *fiber.Ctx) error {
	internID, err := helperAuth.RequireRole(c, authModel.RoleIntern)
	if err != nil {
		return helper.FromError(c, err)
	}
	internshipID, err := helper.ParseUUIDParam(c, "id", "opportunity id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.ApplyRequest
	if len(c.Body()) > 0 {
		if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	if c.QueryBool("fresh") {
		req.Fresh = true
	}

	app, created, err := ctrl.Svc.Start(c.Context(), internID, internshipID, req.Fresh)
	if err != nil {
		return helper.FromError(c, err)
	}
	if created {
		return helper.JsonCreated(c, "application started", dto.FromModel(*app))
	}
	return helper.JsonOK(c, "application already exists", dto.FromModel(*app))
}

// POST /api/applications/:id/submit
func (ctrl *ApplicationController) Submit(c *fiber.Ctx) error {
	internID, err := helperAuth.RequireRole(c, authModel.RoleIntern)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "application id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SubmitRequest
	if len(c.Body()) > 0 {
		if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
			return helper.FromError(c, err)
		}
	}
	app, err := ctrl.Svc.Submit(c.Context(), internID, id, req.Answers)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "application submitted", dto.FromModel(*app))
}

// POST /api/applications/:id/decision {"decision":"accepted"|"rejected"}
func (ctrl *ApplicationController) Decide(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "application id")
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.DecisionRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	app, err := ctrl.Svc.Decide(c.Context(), companyID, id, req.Accepted())
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "application "+app.Status, dto.FromModel(*app))
}

// GET /api/opportunities/:id/applications?status=
func (ctrl *ApplicationController) ListForOpportunity(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	internshipID, err := helper.ParseUUIDParam(c, "id", "opportunity id")
	if err != nil {
		return helper.FromError(c, err)
	}
	items, err := ctrl.Svc.ListForInternship(c.Context(), companyID, internshipID, c.Query("status"))
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", items, nil)
}

// GET /api/applications/me
func (ctrl *ApplicationController) ListMine(c *fiber.Ctx) error {
	internID, err := helperAuth.RequireRole(c, authModel.RoleIntern)
	if err != nil {
		return helper.FromError(c, err)
	}
	items, err := ctrl.Svc.ListMine(c.Context(), internID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", items, nil)
}
