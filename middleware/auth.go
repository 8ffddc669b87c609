// middleware/auth.go
package middleware

import (
	"strings"

	"recycling-rewards-backend/models"
	"recycling-rewards-backend/utils"

	"github.com/gofiber/fiber/v2"
)

const (
	localUserID   = "user_id"
	localUserRole = "user_role"
)

// UserContextMiddleware reads the identity the gateway forwards. X-User-Role
// holds one role; X-User-Roles, a comma list, is honoured when it is absent and
// the most privileged entry wins. Unknown roles fall back to USER.
func UserContextMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := strings.TrimSpace(c.Get("X-User-ID"))
		if userID == "" {
			utils.LogWarn("[USER_CTX] X-User-ID missing on secured route %s", c.Path())
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "missing X-User-ID, request must come through gateway with auth context",
			})
		}

		role := models.RoleUser
		if raw := c.Get("X-User-Role"); raw != "" {
			if r, err := models.ParseRole(raw); err == nil {
				role = r
			}
		} else {
			for _, raw := range strings.Split(c.Get("X-User-Roles"), ",") {
				r, err := models.ParseRole(raw)
				if err == nil && privilege(r) > privilege(role) {
					role = r
				}
			}
		}

		c.Locals(localUserID, userID)
		c.Locals(localUserRole, role)
		return c.Next()
	}
}

func privilege(r models.Role) int {
	switch r {
	case models.RoleSysAdmin:
		return 2
	case models.RoleAdmin:
		return 1
	}
	return 0
}

// RequireCapability rejects callers whose role lacks capability.
func RequireCapability(capability models.Capability) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if role := UserRole(c); !role.Can(capability) {
			utils.LogWarn("[USER_CTX] %s (%s) denied %s on %s", UserID(c), role, capability, c.Path())
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error": "forbidden",
			})
		}
		return c.Next()
	}
}

func UserID(c *fiber.Ctx) string {
	id, _ := c.Locals(localUserID).(string)
	return id
}

func UserRole(c *fiber.Ctx) models.Role {
	role, ok := c.Locals(localUserRole).(models.Role)
	if !ok {
		return models.RoleUser
	}
	return role
}
