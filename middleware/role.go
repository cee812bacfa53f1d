package middleware

import (
	"github.com/gofiber/fiber/v2"
)

// RequireRoles returns a middleware that checks the caller's role claim
// against the allowed roles for the endpoint
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, ok := c.Locals("role").(string)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"success": false,
				"message": "Unauthorized: role not found",
				"data":    nil,
			})
		}

		for _, r := range roles {
			if r == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
			"success": false,
			"message": "You do not have permission to access this resource!",
			"data":    nil,
		})
	}
}
