// handlers/leaderboard.go
package handlers

import (
	"recycling-rewards-backend/services"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(public fiber.Router, ranker *services.LeaderboardRanker) {
	public.Get("/leaderboard", func(c *fiber.Ctx) error {
		page, size := pageParams(c)
		res, err := ranker.Rank(c.UserContext(), services.LeaderboardQuery{
			County:    c.Query("county"),
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
}
