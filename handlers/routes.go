// handlers/routes.go
package handlers

import (
	"recycling-rewards-backend/middleware"
	"recycling-rewards-backend/models"
	"recycling-rewards-backend/services"

	"github.com/gofiber/fiber/v2"
)

// Services bundles what the routes call into.
type Services struct {
	Users       *services.UserService
	Ledger      *services.PointsLedger
	Activities  *services.ActivityService
	Vouchers    *services.VoucherLifecycle
	Leaderboard *services.LeaderboardRanker
	Catalog     *services.CatalogService
	Content     *services.ContentService
}

// SetupRoutes mounts public routes at the root, user routes under /s and
// catalog administration under /s/admin.
func SetupRoutes(app *fiber.App, svc Services) {
	secured := app.Group("/s", middleware.UserContextMiddleware())
	admin := secured.Group("/admin", middleware.RequireCapability(models.CapManageCatalog))

	SetupUserRoutes(app, secured, admin, svc.Users, svc.Ledger)
	SetupActivityRoutes(secured, svc.Activities)
	SetupVoucherRoutes(secured, svc.Vouchers)
	SetupLeaderboardRoutes(app, svc.Leaderboard)
	SetupCatalogRoutes(app, admin, svc.Catalog)
	SetupContentRoutes(app, admin, svc.Content)
}
