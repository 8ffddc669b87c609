// handlers/activities.go
package handlers

import (
	"recycling-rewards-backend/middleware"
	"recycling-rewards-backend/models"
	"recycling-rewards-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupActivityRoutes(secured fiber.Router, activities *services.ActivityService) {
	secured.Post("/activities", middleware.RequireCapability(models.CapRecordActivity), func(c *fiber.Ctx) error {
		var in services.ActivityInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		res, err := activities.Record(c.UserContext(), middleware.UserID(c), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(res)
	})

	secured.Get("/activities", func(c *fiber.Ctx) error {
		page, size := pageParams(c)
		res, err := activities.History(c.UserContext(), middleware.UserID(c), page, size)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})
}
