package route

import (
	"internlink_backend/internals/features/users/interns/controller"
	"internlink_backend/internals/features/users/interns/service"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

func ReferralPublicRoutes(public fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewInternController(svc, v)
	public.Get("/referrals/validate/:code", ctrl.ValidateReferral)
}

func InternRoutes(protected fiber.Router, svc *service.Service, v *validator.Validate) {
	ctrl := controller.NewInternController(svc, v)

	protected.Get("/interns/me", ctrl.GetMe)
	protected.Put("/interns/me", ctrl.UpdateMe)
	protected.Get("/interns/:id", ctrl.GetByID)
	protected.Get("/referrals/me", ctrl.MyReferrals)
}
