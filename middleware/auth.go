package middleware

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v3"
	"github.com/golang-jwt/jwt/v4"

	"github.com/meinhoongagan/senior-care-app/logging"
	"github.com/meinhoongagan/senior-care-app/models"
	"github.com/meinhoongagan/senior-care-app/utils"
)

const (
	localUserID = "userID"
	localRole   = "role"
)

// Protected verifies the bearer access token and stores the principal in
// the request locals. Refresh tokens are rejected here.
func Protected(secret []byte) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:     secret,
		SigningMethod:  jwtware.HS256,
		ErrorHandler:   jwtError,
		SuccessHandler: principal,
	})
}

func principal(c *fiber.Ctx) error {
	token, ok := c.Locals("user").(*jwt.Token)
	if !ok {
		return unauthorized(c, "Invalid token")
	}
	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return unauthorized(c, "Invalid token claims")
	}
	if claims["type"] != utils.TokenTypeAccess {
		return unauthorized(c, "Invalid token type")
	}

	userID, err := utils.ClaimUserID(claims)
	if err != nil {
		logging.Debug().Err(err).Msg("Rejected token without a usable id claim")
		return unauthorized(c, "Invalid user ID in token")
	}
	role, _ := claims["role"].(string)
	if !models.Role(role).Valid() {
		return unauthorized(c, "Invalid role in token")
	}

	c.Locals(localUserID, userID)
	c.Locals(localRole, models.Role(role))
	return c.Next()
}

// UserID returns the verified caller id, or 0 on unprotected routes.
func UserID(c *fiber.Ctx) uint {
	id, _ := c.Locals(localUserID).(uint)
	return id
}

// Role returns the verified caller role.
func Role(c *fiber.Ctx) models.Role {
	role, _ := c.Locals(localRole).(models.Role)
	return role
}

func unauthorized(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(utils.ErrorResponse{Error: msg})
}

func jwtError(c *fiber.Ctx, err error) error {
	if err.Error() == "Missing or malformed JWT" {
		return unauthorized(c, "No authentication token")
	}
	return unauthorized(c, "Invalid or expired token")
}

// Optional runs Protected only when the request carries a bearer token, so
// public routes can still tell who the caller is.
func Optional(secret []byte) fiber.Handler {
	protected := Protected(secret)
	return func(c *fiber.Ctx) error {
		if c.Get(fiber.HeaderAuthorization) == "" {
			return c.Next()
		}
		return protected(c)
	}
}
