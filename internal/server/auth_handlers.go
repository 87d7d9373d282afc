package server

import (
	"github.com/gofiber/fiber/v2"

	"lets/internal/models"
	"lets/internal/service"
)

type signInRequest struct {
	SocialLoginID string `json:"social_login_id"`
	AuthProvider  string `json:"auth_provider"`
}

type tokenResponse struct {
	AccessToken string       `json:"access_token"`
	User        *models.User `json:"user"`
}

// Signup registers a new account and signs it in. The refresh token rides
// in an httpOnly cookie; the access token is returned in the body.
func (s *Server) Signup(c *fiber.Ctx) error {
	var input service.SignupInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondError(c, models.NewValidationError("invalid request body"))
	}

	user, pair, err := s.auths.Signup(c.Context(), input)
	if err != nil {
		return models.RespondError(c, err)
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return c.Status(fiber.StatusCreated).JSON(tokenResponse{
		AccessToken: pair.AccessToken,
		User:        user,
	})
}

// SignIn authenticates a social login pair. Unknown pairs return 404 so the
// client can route the user into sign-up.
func (s *Server) SignIn(c *fiber.Ctx) error {
	var req signInRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c, models.NewValidationError("invalid request body"))
	}
	if req.SocialLoginID == "" || req.AuthProvider == "" {
		return models.RespondError(c, models.NewValidationError("social login ID and auth provider are required"))
	}

	user, pair, err := s.auths.SignIn(c.Context(), req.SocialLoginID, req.AuthProvider)
	if err != nil {
		return models.RespondError(c, err)
	}

	s.setRefreshCookie(c, pair.RefreshToken)
	return c.JSON(tokenResponse{
		AccessToken: pair.AccessToken,
		User:        user,
	})
}

// SilentRefresh exchanges the refresh cookie for a fresh access token. A
// missing cookie is a client bug and returns 400; an invalid or revoked
// token returns 401.
func (s *Server) SilentRefresh(c *fiber.Ctx) error {
	refreshToken := c.Cookies(refreshCookieName)
	if refreshToken == "" {
		return models.RespondError(c, models.NewValidationError("refresh token cookie is missing"))
	}

	accessToken, err := s.auths.Refresh(c.Context(), refreshToken)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"access_token": accessToken})
}

// Logout revokes the refresh token and clears its cookie.
func (s *Server) Logout(c *fiber.Ctx) error {
	if err := s.auths.Logout(c.Context(), c.Cookies(refreshCookieName)); err != nil {
		return models.RespondError(c, err)
	}
	s.clearRefreshCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// Signout deletes the caller's account and everything it owns.
func (s *Server) Signout(c *fiber.Ctx) error {
	userID := currentUserID(c)
	if err := s.auths.Signout(c.Context(), userID, c.Cookies(refreshCookieName)); err != nil {
		return models.RespondError(c, err)
	}
	s.clearRefreshCookie(c)
	return c.SendStatus(fiber.StatusNoContent)
}

// NicknameExists checks nickname availability for the sign-up form.
func (s *Server) NicknameExists(c *fiber.Ctx) error {
	nickname := c.Query("nickname")
	if nickname == "" {
		return models.RespondError(c, models.NewValidationError("nickname query parameter is required"))
	}
	if err := s.users.ValidateNickname(nickname); err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"available": true})
}
