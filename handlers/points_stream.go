// handlers/points_stream.go
package handlers

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"recycling-rewards-backend/middleware"
	"recycling-rewards-backend/services"
	"recycling-rewards-backend/utils"

	"github.com/gofiber/fiber/v2"
)

const pointsPollInterval = 2 * time.Second

type pointsEvent struct {
	UserID      string    `json:"user_id"`
	TotalPoints int64     `json:"total_points"`
	At          time.Time `json:"at"`
}

// StreamPoints pushes a "points" event whenever the caller's total changes.
func StreamPoints(ledger *services.PointsLedger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := middleware.UserID(c)
		done := c.Context().Done()

		c.Set("Content-Type", "text/event-stream")
		c.Set("Cache-Control", "no-cache")
		c.Set("Connection", "keep-alive")
		c.Set("X-Accel-Buffering", "no")

		c.Context().SetBodyStreamWriter(func(w *bufio.Writer) {
			ticker := time.NewTicker(pointsPollInterval)
			defer ticker.Stop()

			last := int64(-1)
			send := func() bool {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				total, err := ledger.GetTotal(ctx, userID)
				cancel()
				if err != nil {
					utils.LogWarn("[SSE] points lookup for %s failed: %v", userID, err)
					return true
				}
				if total == last {
					return true
				}
				last = total
				payload, _ := json.Marshal(pointsEvent{UserID: userID, TotalPoints: total, At: time.Now()})
				fmt.Fprintf(w, "event: points\ndata: %s\n\n", payload)
				// a failed flush means the client went away
				return w.Flush() == nil
			}

			if !send() {
				return
			}
			for {
				select {
				case <-ticker.C:
					if !send() {
						return
					}
				case <-done:
					return
				}
			}
		})
		return nil
	}
}
