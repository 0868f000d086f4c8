package controller

import (
	"internlink_backend/internals/features/search/candidates/dto"
	"internlink_backend/internals/features/search/candidates/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type SearchController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewSearchController(svc *service.Service, v *validator.Validate) *SearchController {
	return &SearchController{Svc: svc, Validate: v}
}

// POST /api/search/candidates {"query": "..."}
func (ctrl *SearchController) Candidates(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.SearchRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	out, err := ctrl.Svc.Search(c.Context(), companyID, req.Query)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", out)
}
