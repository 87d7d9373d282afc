package server

import (
	"github.com/gofiber/fiber/v2"

	"lets/internal/models"
)

type createCommentRequest struct {
	Content string `json:"content"`
}

// CreateComment adds a comment to a post.
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}

	var req createCommentRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondError(c, models.NewValidationError("invalid request body"))
	}

	comment, err := s.comments.Create(currentUserID(c), postID, req.Content)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(comment)
}

// ListComments returns a post's comments oldest first.
func (s *Server) ListComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}

	comments, err := s.comments.ListByPost(postID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"comments": comments})
}

// DeleteComment removes the caller's own comment.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "commentId")
	if err != nil {
		return models.RespondError(c, err)
	}
	if err := s.comments.Delete(commentID, currentUserID(c)); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
