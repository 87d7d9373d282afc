package service

import (
	"strings"

	"gorm.io/gorm"

	"lets/internal/avatar"
	"lets/internal/models"
	"lets/internal/repository"
)

// CommentService handles replies on posts.
type CommentService struct {
	db       *gorm.DB
	comments repository.CommentRepository
	posts    repository.PostRepository
	avatars  avatar.Store
}

// NewCommentService creates a comment service with its dependencies.
func NewCommentService(
	db *gorm.DB,
	comments repository.CommentRepository,
	posts repository.PostRepository,
	avatars avatar.Store,
) *CommentService {
	return &CommentService{db: db, comments: comments, posts: posts, avatars: avatars}
}

// Create adds a comment to an existing post.
func (s *CommentService) Create(userID, postID uint, content string) (*models.Comment, error) {
	if strings.TrimSpace(content) == "" {
		return nil, models.NewValidationError("comment content is required")
	}
	if _, err := s.posts.FindByID(postID); err != nil {
		return nil, err
	}

	comment := models.NewComment(userID, postID, content)
	if err := s.comments.Create(comment); err != nil {
		return nil, models.NewInternalError(err)
	}
	return comment, nil
}

// ListByPost returns the post's comments oldest first.
func (s *CommentService) ListByPost(postID uint) ([]models.Comment, error) {
	if _, err := s.posts.FindByID(postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.FindByPostID(postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range comments {
		comments[i].Profile = s.avatars.URL(comments[i].User.PublicID)
	}
	return comments, nil
}

// CountByPost returns the number of comments on a post.
func (s *CommentService) CountByPost(postID uint) (int64, error) {
	if _, err := s.posts.FindByID(postID); err != nil {
		return 0, err
	}
	count, err := s.comments.CountByPostID(postID)
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}

// Delete removes a comment. Only the author may delete it.
func (s *CommentService) Delete(commentID, userID uint) error {
	comment, err := s.comments.FindByID(commentID)
	if err != nil {
		return err
	}
	if !comment.IsOwnedBy(userID) {
		return models.NewUnauthorizedError("only the author can delete this comment")
	}
	if err := s.comments.Delete(commentID); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
