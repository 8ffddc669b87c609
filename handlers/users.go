// handlers/users.go
package handlers

import (
	"recycling-rewards-backend/middleware"
	"recycling-rewards-backend/models"
	"recycling-rewards-backend/services"

	"github.com/gofiber/fiber/v2"
)

type roleRequest struct {
	Role string `json:"role" validate:"required"`
}

func SetupUserRoutes(public, secured, admin fiber.Router, users *services.UserService, ledger *services.PointsLedger) {
	public.Post("/users/register", func(c *fiber.Ctx) error {
		var in services.RegisterInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		u, err := users.Register(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(u)
	})

	secured.Get("/users/me", func(c *fiber.Ctx) error {
		profile, err := users.Profile(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(profile)
	})

	secured.Get("/points", func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		total, err := ledger.GetTotal(c.UserContext(), userID)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"user_id": userID, "total_points": total})
	})

	secured.Get("/points/stream", StreamPoints(ledger))

	admin.Patch("/users/:id/role", middleware.RequireCapability(models.CapManageUsers), func(c *fiber.Ctx) error {
		var req roleRequest
		if err := bindJSON(c, &req); err != nil {
			return badRequest(c, err.Error())
		}
		role, err := models.ParseRole(req.Role)
		if err != nil {
			return badRequest(c, err.Error())
		}
		if err := users.SetRole(c.UserContext(), middleware.UserRole(c), c.Params("id"), role); err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"id": c.Params("id"), "role": role})
	})
}
