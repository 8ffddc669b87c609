// handlers/catalog.go
package handlers

import (
	"recycling-rewards-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCatalogRoutes(public, admin fiber.Router, catalog *services.CatalogService) {
	// 🔓 Public reference data
	public.Get("/centers", func(c *fiber.Ctx) error {
		page, size := pageParams(c)
		res, err := catalog.ListCenters(c.UserContext(), c.Query("county"), page, size)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})

	public.Get("/centers/:id", func(c *fiber.Ctx) error {
		center, err := catalog.GetCenter(c.UserContext(), c.Params("id"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(center)
	})

	public.Get("/materials", func(c *fiber.Ctx) error {
		items, err := catalog.ListMaterials(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	})

	public.Get("/materials/:name", func(c *fiber.Ctx) error {
		m, err := catalog.MaterialByName(c.UserContext(), c.Params("name"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(m)
	})

	public.Get("/voucher-types", func(c *fiber.Ctx) error {
		items, err := catalog.ListVoucherTypes(c.UserContext())
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(items)
	})

	// 🔐 Administration
	admin.Post("/centers", func(c *fiber.Ctx) error {
		var in services.CenterInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		center, err := catalog.CreateCenter(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(center)
	})

	admin.Put("/centers/:id", func(c *fiber.Ctx) error {
		var in services.CenterInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		center, err := catalog.UpdateCenter(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(center)
	})

	admin.Delete("/centers/:id", func(c *fiber.Ctx) error {
		if err := catalog.DeleteCenter(c.UserContext(), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Post("/materials", func(c *fiber.Ctx) error {
		var in services.MaterialInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		m, err := catalog.CreateMaterial(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(m)
	})

	admin.Put("/materials/:id", func(c *fiber.Ctx) error {
		var in services.MaterialInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		m, err := catalog.UpdateMaterial(c.UserContext(), c.Params("id"), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(m)
	})

	admin.Delete("/materials/:id", func(c *fiber.Ctx) error {
		if err := catalog.DeleteMaterial(c.UserContext(), c.Params("id")); err != nil {
			return respondError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	admin.Post("/materials/:id/image", func(c *fiber.Ctx) error {
		filename, contentType, body, err := readImage(c)
		if err != nil {
			return badRequest(c, err.Error())
		}
		m, err := catalog.SetMaterialImage(c.UserContext(), c.Params("id"), filename, contentType, body)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(m)
	})

	admin.Post("/voucher-types", func(c *fiber.Ctx) error {
		var in services.VoucherTypeInput
		if err := bindJSON(c, &in); err != nil {
			return badRequest(c, err.Error())
		}
		vt, err := catalog.CreateVoucherType(c.UserContext(), in)
		if err != nil {
			return respondError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(vt)
	})
}
