package middleware

import (
	"strings"

	"lets/internal/auth"
	"lets/internal/models"

	"github.com/gofiber/fiber/v2"
)

var tokens *auth.TokenProvider

// InitMiddleware initializes authentication middleware with the token provider.
func InitMiddleware(p *auth.TokenProvider) {
	tokens = p
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" header.
func bearerToken(c *fiber.Ctx) string {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// AuthRequired is a middleware that enforces authentication for protected routes.
func AuthRequired(c *fiber.Ctx) error {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Authorization required"))
	}

	userID, err := tokens.ParseAccessUserID(tokenString)
	if err != nil {
		return models.RespondWithError(c, fiber.StatusUnauthorized,
			models.NewUnauthorizedError("Invalid or expired token"))
	}

	c.Locals("userID", userID)
	return c.Next()
}

// OptionalUserID attempts to extract the caller's user ID from the
// Authorization header but does not enforce it. Public reads use this so
// authenticated callers still get per-user behavior (seen-markers, view
// counting).
func OptionalUserID(c *fiber.Ctx) (uint, bool) {
	tokenString := bearerToken(c)
	if tokenString == "" {
		return 0, false
	}
	userID, err := tokens.ParseAccessUserID(tokenString)
	if err != nil {
		return 0, false
	}
	return userID, true
}
