package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/utils"
)

// RequireRole rejects callers whose token role is not one of roles. It must
// run after Protected. Services still re-check the stored role.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := Role(c)
		for _, r := range roles {
			if role == r {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(utils.ErrorResponse{
			Error: "You don't have the required role to perform this action",
		})
	}
}
