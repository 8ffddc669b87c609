// handlers/content.go
package handlers

import (
	"recycling-rewards-backend/models"
	"recycling-rewards-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupContentRoutes(public, admin fiber.Router, content *services.ContentService) {
	public.Get("/content", func(c *fiber.Ctx) error {
		page, size := pageParams(c)
		res, err := content.List(c.UserContext(), c.Query("q"), models.ContentKind(c.Query("kind")), page, size)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})

	public.Get("/content/:slug", func(c *fiber.Ctx) error {
		item, err := content.GetBySlug(c.UserContext(), c.Params("slug"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(item)
	})

	admin.Post("/content", func(c *fiber.Ctx) error {
		var in services.ContentInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		item, err := content.Create(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(item)
	})

	admin.Put("/content/:slug", func(c *fiber.Ctx) error {
		var in services.ContentInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		item, err := content.Update(c.UserContext(), c.Params("slug"), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(item)
	})

	admin.Delete("/content/:slug", func(c *fiber.Ctx) error {
		if err := content.Delete(c.UserContext(), c.Params("slug")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Post("/content/:slug/image", func(c *fiber.Ctx) error {
		filename, contentType, body, err := readImage(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		item, err := content.AttachImage(c.UserContext(), c.Params("slug"), filename, contentType, body)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(item)
	})
}
