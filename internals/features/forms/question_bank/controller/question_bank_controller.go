package controller

import (
	"strings"

	formModel "internlink_backend/internals/features/forms/forms/model"
	"internlink_backend/internals/features/forms/question_bank/dto"
	"internlink_backend/internals/features/forms/question_bank/service"
	authModel "internlink_backend/internals/features/users/auth/model"
	helper "internlink_backend/internals/helpers"
	helperAuth "internlink_backend/internals/helpers/auth"
	"internlink_backend/internals/helpers/fault"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type QuestionBankController struct {
	Svc      *service.Service
	Validate *validator.Validate
}

func NewQuestionBankController(svc *service.Service, v *validator.Validate) *QuestionBankController {
	return &QuestionBankController{Svc: svc, Validate: v}
}

// GET /api/question-bank?q=&type=&category=&page=&per_page=
func (ctrl *QuestionBankController) List(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	paging := helper.ResolvePaging(c, 50, 200)
	rows, total, err := ctrl.Svc.List(c.Context(), companyID, dto.ListFilter{
		Q:        c.Query("q"),
		Type:     c.Query("type"),
		Category: c.Query("category"),
		Limit:    paging.Limit,
		Offset:   paging.Offset,
	})
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonList(c, "ok", dto.FromModels(rows, companyID), helper.BuildPagination(total, paging))
}

// POST /api/question-bank
func (ctrl *QuestionBankController) Create(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	var req dto.CreateQuestionBankRequest
	if err := helper.ParseAndValidate(c, ctrl.Validate, &req); err != nil {
		return helper.FromError(c, err)
	}
	req.Type = strings.TrimSpace(req.Type)
	if !formModel.ValidQuestionType(req.Type) {
		return helper.FromError(c, fault.Validation("unknown question type: "+req.Type))
	}
	m, err := ctrl.Svc.Create(c.Context(), companyID, req)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonCreated(c, "question saved to bank", dto.FromModel(*m, companyID))
}

// POST /api/question-bank/:id/use
func (ctrl *QuestionBankController) Use(c *fiber.Ctx) error {
	companyID, err := helperAuth.RequireRole(c, authModel.RoleCompany)
	if err != nil {
		return helper.FromError(c, err)
	}
	id, err := helper.ParseUUIDParam(c, "id", "question bank id")
	if err != nil {
		return helper.FromError(c, err)
	}
	m, err := ctrl.Svc.Use(c.Context(), nil, companyID, id)
	if err != nil {
		return helper.FromError(c, err)
	}
	return helper.JsonOK(c, "ok", dto.FromModel(*m, companyID))
}
