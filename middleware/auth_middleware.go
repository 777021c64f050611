package middleware

import (
	"github.com/gofiber/fiber/v2"
)

const RoleAdmin = "admin"

// CheckRole verifies the caller has one of the given roles. It must run after JWT.
func CheckRole(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userRole, ok := c.Locals("userRole").(string)
		if !ok {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Role not found in token"})
		}

		for _, role := range roles {
			if userRole == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Insufficient permissions"})
	}
}

// SellerRequired admits sellers and admins.
func SellerRequired() fiber.Handler {
	return CheckRole("seller", RoleAdmin)
}

// RetailerRequired admits retailers and admins.
func RetailerRequired() fiber.Handler {
	return CheckRole("retailer", RoleAdmin)
}
