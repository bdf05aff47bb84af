package auth

import (
	"fmt"
	"strings"

	"warehouse-backend/internal/config"
	"warehouse-backend/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
)

const (
	CtxUserIDKey    = "user_id"
	CtxUserEmailKey = "user_email"
	CtxUserRoleKey  = "user_role"
)

func JWTMiddleware(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing Authorization header")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return fiber.NewError(fiber.StatusUnauthorized, "Authorization must be 'Bearer <token>'")
		}

		token, err := jwt.ParseWithClaims(parts[1], &JWTCustomClaims{}, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method")
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid or expired token")
		}

		claims, ok := token.Claims.(*JWTCustomClaims)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "could not parse token claims")
		}

		c.Locals(CtxUserIDKey, claims.UserID)
		c.Locals(CtxUserEmailKey, claims.Email)
		c.Locals(CtxUserRoleKey, claims.Role)

		return c.Next()
	}
}

func RequireRole(allowedRoles ...models.UserRole) fiber.Handler {
	return func(c *fiber.Ctx) error {
		roleVal := c.Locals(CtxUserRoleKey)
		role, ok := roleVal.(models.UserRole)
		if !ok {
			return fiber.NewError(fiber.StatusForbidden, "missing role information")
		}

		for _, r := range allowedRoles {
			if r == role {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, "insufficient permissions")
	}
}

// UserIDFromCtx returns the authenticated user id, nil when unauthenticated.
func UserIDFromCtx(c *fiber.Ctx) *uint {
	if id, ok := c.Locals(CtxUserIDKey).(uint); ok {
		return &id
	}
	return nil
}

// EmailFromCtx returns the authenticated user email, empty when absent.
func EmailFromCtx(c *fiber.Ctx) string {
	if email, ok := c.Locals(CtxUserEmailKey).(string); ok {
		return email
	}
	return ""
}
