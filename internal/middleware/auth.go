package middleware

import (
	"strings"

	"github.com/chodocu/chodocu-backend/internal/models"
	"github.com/chodocu/chodocu-backend/pkg/jwt"
	"github.com/gofiber/fiber/v2"
)

const (
	localUserID = "user_id"
	localRole   = "role"
)

// Protected validates the bearer token and stores the caller's id and role
// in the request locals.
func Protected() fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get("Authorization")
		if header == "" {
			// Websocket clients cannot set headers, so the token may
			// arrive as a query parameter.
			if token := c.Query("token"); token != "" {
				header = "Bearer " + token
			}
		}
		if !strings.HasPrefix(header, "Bearer ") {
			return c.Status(fiber.StatusUnauthorized).JSON(
				models.ErrorResponse("missing or malformed token"))
		}

		claims, err := jwt.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(
				models.ErrorResponse("invalid or expired token"))
		}

		userID, ok := claims["user_id"].(float64)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(
				models.ErrorResponse("invalid token claims"))
		}
		role, _ := claims["role"].(string)

		c.Locals(localUserID, uint(userID))
		c.Locals(localRole, models.Role(role))
		return c.Next()
	}
}

// RequireRole rejects callers whose role is not in the allowed set.
func RequireRole(roles ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role := RoleFromCtx(c)
		for _, allowed := range roles {
			if role == allowed {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(
			models.ErrorResponse("insufficient permissions"))
	}
}

func UserIDFromCtx(c *fiber.Ctx) uint {
	if id, ok := c.Locals(localUserID).(uint); ok {
		return id
	}
	return 0
}

func RoleFromCtx(c *fiber.Ctx) models.Role {
	if role, ok := c.Locals(localRole).(models.Role); ok {
		return role
	}
	return ""
}

func IsAdmin(c *fiber.Ctx) bool {
	return RoleFromCtx(c) == models.RoleAdmin
}
