package server

import (
	"github.com/gofiber/fiber/v2"

	"lets/internal/models"
	"lets/internal/service"
)

// GetSettings returns the caller's profile settings.
func (s *Server) GetSettings(c *fiber.Ctx) error {
	settings, err := s.users.GetSettings(currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(settings)
}

// UpdateSettings applies a profile settings change.
func (s *Server) UpdateSettings(c *fiber.Ctx) error {
	var input service.UpdateSettingsInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondError(c, models.NewValidationError("invalid request body"))
	}

	settings, err := s.users.UpdateSettings(currentUserID(c), input)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(settings)
}
