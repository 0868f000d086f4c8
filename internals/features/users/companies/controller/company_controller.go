package controller

import (
	authModel "internlink_backend/internals/features/users/auth/model"
	"internlink_backend/internals/features/users/companies/dto"
	"internlink_backend/internals/features/users/companies/service"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"
	helperOSS "internlink_backend/internals/helpers/oss"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type CompanyController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewCompanyController(svc *service.Service, v *validator.Validate) *CompanyController {
	return &CompanyController{Svc: svc, Validate: v}
}

// GET /api/companies/me
func (ctrl *CompanyController) GetMe(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.Svc.Get(c.Context(), companyID)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", m)
}

// PUT /api/companies/me
func (ctrl *CompanyController) UpdateMe(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.UpdateCompanyRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.Svc.Update(c.Context(), companyID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "company profile updated", m)
}

// POST /api/companies/me/logo (multipart: logo)
func (ctrl *CompanyController) UploadLogo(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	fh, err := c.FormFile("logo")
	if err != nil {
		return helper.FromError(c, fault.Validation("logo file is required"))
	}
	if fh.Size > service.MaxLogoBytes {
		return helper.FromError(c, fault.Validation("logo too large (max 5 MB)"))
	}
	src, err := fh.Open()
	if err != nil {
		return helper.FromError(c, fault.Validation("cannot read uploaded file"))
	}
	defer src.Close()
	data, err := helperOSS.ReadAllLimited(src, service.MaxLogoBytes)
	if err != nil {
		return helper.FromError(c, fault.Validation(err.Error()))
	}
	out, err := ctrl.Svc.UploadLogo(c.Context(), companyID, data)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonUpdated(c, "logo updated", out)
}
