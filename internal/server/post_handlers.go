package server

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"lets/internal/middleware"
	"lets/internal/models"
	"lets/internal/repository"
	"lets/internal/service"
)

// CreatePost stores a new listing authored by the caller.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var input service.PostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondError(c, models.NewValidationError("invalid request body"))
	}

	post, err := s.posts.Create(currentUserID(c), input)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(post)
}

// GetPost returns a listing. Authenticated viewers get the per-user view
// and like behavior; anonymous reads are side-effect free.
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}

	var viewerID *uint
	if userID, ok := middleware.OptionalUserID(c); ok {
		viewerID = &userID
	}

	post, err := s.posts.GetPost(postID, viewerID)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// UpdatePost rewrites the caller's listing.
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}

	var input service.PostInput
	if err := c.BodyParser(&input); err != nil {
		return models.RespondError(c, models.NewValidationError("invalid request body"))
	}

	post, err := s.posts.Update(postID, currentUserID(c), input)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(post)
}

// DeletePost removes the caller's listing and its dependents.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}
	if err := s.posts.Delete(postID, currentUserID(c)); err != nil {
		return models.RespondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SearchPosts lists listings filtered by status and tags, paginated.
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page, size := parsePagination(c)

	filter := repository.SearchFilter{
		Sort: c.Query("sort", "created_at"),
		Page: page,
		Size: size,
	}

	switch status := c.Query("status"); status {
	case "":
	case string(models.PostStatusRecruiting):
		filter.Status = models.PostStatusRecruiting
	case string(models.PostStatusComplete):
		filter.Status = models.PostStatusComplete
	default:
		return models.RespondError(c, models.NewValidationError("status must be RECRUITING or COMPLETE"))
	}

	filter.Tags = splitTags(c.Query("tags"))

	posts, total, err := s.posts.Search(filter)
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{
		"posts": posts,
		"total": total,
		"page":  page,
		"size":  size,
	})
}

// ChangePostStatus toggles the caller's listing between open and filled.
func (s *Server) ChangePostStatus(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}

	status, err := s.posts.ChangeStatus(postID, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}

// ChangeLikeStatus toggles the caller's like on a post they have viewed.
func (s *Server) ChangeLikeStatus(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}

	status, err := s.posts.ChangeLikeStatus(postID, currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"status": status})
}

// RecommendPosts returns listings related to the given post by tag overlap.
func (s *Server) RecommendPosts(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return models.RespondError(c, err)
	}

	posts, err := s.posts.Recommend(postID, splitTags(c.Query("tags")))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// MyPosts lists the caller's own listings.
func (s *Server) MyPosts(c *fiber.Ctx) error {
	posts, err := s.posts.FindUserPosts(currentUserID(c))
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"posts": posts})
}

// ListTags returns the tag vocabulary.
func (s *Server) ListTags(c *fiber.Ctx) error {
	tags, err := s.tags.ListAll(c.Context())
	if err != nil {
		return models.RespondError(c, err)
	}
	return c.JSON(fiber.Map{"tags": tags})
}

// splitTags parses a comma-separated tags query parameter.
func splitTags(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, 0, len(parts))
	for _, part := range parts {
		if part = strings.TrimSpace(part); part != "" {
			tags = append(tags, part)
		}
	}
	return tags
}
