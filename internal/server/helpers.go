package server

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"

	"lets/internal/models"
)

// refreshCookieName is the httpOnly cookie carrying the refresh token for
// the silent-refresh flow.
const refreshCookieName = "refresh_token"

// parseID reads a positive integer route parameter.
func parseID(c *fiber.Ctx, name string) (uint, error) {
	raw := c.Params(name)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, models.NewValidationError("invalid " + name + " parameter")
	}
	return uint(id), nil
}

// parsePagination reads page/size query parameters with sane bounds.
func parsePagination(c *fiber.Ctx) (page, size int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	size = c.QueryInt("size", 20)
	if size < 1 || size > 100 {
		size = 20
	}
	return page, size
}

// currentUserID returns the authenticated user set by the auth middleware.
func currentUserID(c *fiber.Ctx) uint {
	userID, _ := c.Locals("userID").(uint)
	return userID
}

// setRefreshCookie attaches the refresh token as an httpOnly cookie scoped
// to the auth endpoints.
func (s *Server) setRefreshCookie(c *fiber.Ctx, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    token,
		Path:     "/api/auth",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Secure:   s.Config.Env == "production" || s.Config.Env == "prod",
		Expires:  time.Now().Add(s.Config.RefreshTokenTTL),
	})
}

// clearRefreshCookie expires the refresh cookie.
func (s *Server) clearRefreshCookie(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     refreshCookieName,
		Value:    "",
		Path:     "/api/auth",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
		Expires:  time.Now().Add(-time.Hour),
	})
}
