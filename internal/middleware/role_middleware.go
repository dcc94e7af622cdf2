package middleware

import (
	"catalog/internal/models"

	"github.com/gofiber/fiber/v2"
)

// HeaderUserRole carries the caller's declared role. There is no token or
// session layer; the header value is the whole identity.
const HeaderUserRole = "X-User-Role"

// localsRoleKey is where the resolved role is stored for downstream handlers.
const localsRoleKey = "userRole"

// AdminOnly is a Fiber middleware allowing only the admin role. A caller
// presenting the user role is recognized but refused (403); anything else is
// treated as unauthenticated (401).
func AdminOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		switch c.Get(HeaderUserRole) {
		case models.RoleAdmin:
			c.Locals(localsRoleKey, models.RoleAdmin)
			return c.Next()
		case models.RoleUser:
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success": false,
				"message": "You do not have permission to perform this action.",
				"error": fiber.Map{
					"code":    "FORBIDDEN",
					"details": "Admin role required for this operation.",
				},
			})
		default:
			return unauthorized(c)
		}
	}
}

// AdminOrUser is a Fiber middleware allowing both known roles.
func AdminOrUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := c.Get(HeaderUserRole)
		if role == models.RoleAdmin || role == models.RoleUser {
			c.Locals(localsRoleKey, role)
			return c.Next()
		}
		return unauthorized(c)
	}
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
		"success": false,
		"message": "Authentication required.",
		"error": fiber.Map{
			"code":    "UNAUTHORIZED",
			"details": "X-User-Role header is missing or invalid.",
		},
	})
}

// RoleFromContext returns the role a gate resolved for this request, or an
// empty string when no gate ran.
func RoleFromContext(c *fiber.Ctx) string {
	role, _ := c.Locals(localsRoleKey).(string)
	return role
}
