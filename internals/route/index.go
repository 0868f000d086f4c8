// file: internals/route/index.go
package routes

import (
	"log"
	"time"

	middlewares "internlink_backend/internals/middlewares"
	authMw "internlink_backend/internals/middlewares/auth"
	routeDetails "internlink_backend/internals/route/details"

	"github.com/gofiber/fiber/v2"
)

var startTime time.Time

// SetupRoutes: urutan penting. Route publik didaftarkan dulu, baru group
// protected (Use AuthMiddleware di /api berlaku untuk route sesudahnya).
func SetupRoutes(app *fiber.App, d routeDetails.Deps) *routeDetails.Services {
	startTime = time.Now()

	BaseRoutes(app, d)

	svc := routeDetails.BuildServices(d)
	aiLimiter := middlewares.AIRateLimiter(d.Store)

	api := app.Group("/api")

	// ===================== PUBLIC =====================
	log.Println("[INFO] Mounting public routes...")
	routeDetails.AccountPublicRoutes(api, d, svc)
	routeDetails.OpportunityPublicRoutes(api, d, svc)
	api.Use("/interview", aiLimiter)
	routeDetails.InterviewPublicRoutes(api, d, svc)

	// ===================== PROTECTED =====================
	log.Println("[INFO] Mounting protected routes...")
	protected := api.Group("", authMw.AuthMiddleware(d.Cfg, d.DB))
	protected.Use("/search", aiLimiter)
	protected.Use("/companies/forms/ai-generate", aiLimiter)
	protected.Use("/companies/opportunities/ai-describe", aiLimiter)

	routeDetails.AccountUserRoutes(protected, d, svc)
	routeDetails.OpportunityUserRoutes(protected, d, svc)
	routeDetails.TalentUserRoutes(protected, d, svc)

	return svc
}
