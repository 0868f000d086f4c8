package controller

import (
	"strconv"
	"strings"

	"internlink_backend/internals/features/opportunities/internships/dto"
	"internlink_backend/internals/features/opportunities/internships/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type InternshipController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewInternshipController(svc *service.Service, v *validator.Validate) *InternshipController {
	return &InternshipController{Svc: svc, Validate: v}
}

func parseID(c *fiber.Ctx) (uuid.UUID, error) {
	return helper.ParseUUIDParam(c, "id", "opportunity id")
}

// POST /api/opportunities
func (ctrl *InternshipController) Create(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateInternshipRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Create(c.Context(), companyID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "opportunity created", out)
}

// GET /api/opportunities?q=&category=&location_type=&is_active=&company_id=&mine=
func (ctrl *InternshipController) List(c *fiber.Ctx) error {
	paging := helper.ResolvePaging(c, 20, 100)
	f := dto.ListFilter{
		Q:            c.Query("q"),
		Category:     c.Query("category"),
		LocationType: c.Query("location_type"),
		Limit:        paging.Limit,
		Offset:       paging.Offset,
	}
	if v := strings.TrimSpace(c.Query("is_active")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "is_active must be a boolean")
		}
		f.IsActive = &b
	}
	if v := strings.TrimSpace(c.Query("company_id")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return helper.JsonError(c, fiber.StatusBadRequest, "invalid company_id")
		}
		f.CompanyID = &id
	}
	if c.QueryBool("mine") {
		companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
		if err != nil {
			return helper.FromError(c, err)
		}
		f.CompanyID = &companyID
	}
	// intern hanya melihat lowongan aktif
	if helperAuth.GetRole(c) != authModel.RoleCompany {
		active := true
		f.IsActive = &active
	}

	rows, total, err := ctrl.Svc.List(c.Context(), f)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows), helper.BuildPagination(total, paging))
}

// GET /api/opportunities/:id
func (ctrl *InternshipController) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Get(c.Context(), id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}

// PUT /api/opportunities/:id
func (ctrl *InternshipController) Update(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateInternshipRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Update(c.Context(), companyID, id, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "opportunity updated", out)
}

// PATCH /api/opportunities/:id/active
func (ctrl *InternshipController) SetActive(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SetActiveRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.SetActive(c.Context(), companyID, id, *req.IsActive)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "opportunity updated", out)
}

// POST /api/opportunities/:id/delete  &  DELETE /api/opportunities/:id
func (ctrl *InternshipController) Delete(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := parseID(c)
	if err != nil {
		return helper.FromError(c, err)
	}
	summary, err := ctrl.Svc.DeleteOpportunity(c.Context(), id, companyID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonDeleted(c, "opportunity deleted", fiber.Map{"summary": summary})
}
