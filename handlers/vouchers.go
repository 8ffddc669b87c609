// handlers/vouchers.go
package handlers

import (
	"recycling-rewards-backend/middleware"
	"recycling-rewards-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupVoucherRoutes(secured fiber.Router, vouchers *services.VoucherLifecycle) {
	secured.Get("/vouchers", func(c *fiber.Ctx) error {
		redeemed, err := optionalBool(c, "redeemed")
		if err != nil {
			return badRequest(c, "redeemed must be true or false")
		}
		expired, err := optionalBool(c, "expired")
		if err != nil {
			return badRequest(c, "expired must be true or false")
		}
		page, size := pageParams(c)

		res, err := vouchers.Search(c.UserContext(), services.VoucherQuery{
			UserID:    middleware.UserID(c),
			Code:      c.Query("code"),
			Redeemed:  redeemed,
			Expired:   expired,
			Page:      page,
			Size:      size,
			SortBy:    c.Query("sortBy"),
			SortOrder: c.Query("sortOrder"),
		})
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(res)
	})

	// registered before /vouchers/:code so "unretrieved" is not read as a code
	secured.Get("/vouchers/unretrieved/count", func(c *fiber.Ctx) error {
		n, err := vouchers.CountUnretrieved(c.UserContext(), middleware.UserID(c))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"count": n})
	})

	secured.Get("/vouchers/:code", func(c *fiber.Ctx) error {
		v, err := vouchers.Get(c.UserContext(), middleware.UserID(c), c.Params("code"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(v)
	})

	secured.Post("/vouchers/:code/redeem", func(c *fiber.Ctx) error {
		v, err := vouchers.Redeem(c.UserContext(), middleware.UserID(c), c.Params("code"))
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(v)
	})
}
