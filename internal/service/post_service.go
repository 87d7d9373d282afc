package service

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"lets/internal/avatar"
	"lets/internal/cache"
	"lets/internal/models"
	"lets/internal/repository"
)

// RecommendLimit caps the related-posts list.
const RecommendLimit = 4

// PostInput carries the writable fields of a listing.
type PostInput struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Tags    []string `json:"tags"`
}

func (in PostInput) validate() error {
	if strings.TrimSpace(in.Title) == "" {
		return models.NewValidationError("title is required")
	}
	if strings.TrimSpace(in.Content) == "" {
		return models.NewValidationError("content is required")
	}
	return nil
}

// PostService handles recruitment listings: CRUD, search, likes, views,
// status changes, and recommendations.
type PostService struct {
	db         *gorm.DB
	posts      repository.PostRepository
	comments   repository.CommentRepository
	likes      repository.LikePostRepository
	tags       repository.TagRepository
	techStacks repository.TechStackRepository
	avatars    avatar.Store
}

// NewPostService creates a post service with its dependencies.
func NewPostService(
	db *gorm.DB,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	likes repository.LikePostRepository,
	tags repository.TagRepository,
	techStacks repository.TechStackRepository,
	avatars avatar.Store,
) *PostService {
	return &PostService{
		db:         db,
		posts:      posts,
		comments:   comments,
		likes:      likes,
		tags:       tags,
		techStacks: techStacks,
		avatars:    avatars,
	}
}

// Create stores a new listing with its tag set. Unknown tag names are added
// to the vocabulary.
func (s *PostService) Create(userID uint, input PostInput) (*models.Post, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}
	input.Tags = normalizeTags(input.Tags)

	post := models.NewPost(userID, input.Title, input.Content)
	err := inTx(s.db, func(tx *gorm.DB) error {
		if err := s.posts.WithTx(tx).Create(post); err != nil {
			return err
		}
		return s.replacePostTags(tx, post.ID, input.Tags)
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.Invalidate(context.Background(), cache.TagsKey)

	post.Tags = input.Tags
	return post, nil
}

// Update rewrites the listing's title, content, and tag set. Only the author
// may update.
func (s *PostService) Update(postID, userID uint, input PostInput) (*models.Post, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	post, err := s.posts.FindByIDWithUser(postID)
	if err != nil {
		return nil, err
	}
	if !post.IsOwnedBy(userID) {
		return nil, models.NewUnauthorizedError("only the author can update this post")
	}
	input.Tags = normalizeTags(input.Tags)

	post.Title = input.Title
	post.Content = input.Content
	err = inTx(s.db, func(tx *gorm.DB) error {
		if err := s.posts.WithTx(tx).Update(post); err != nil {
			return err
		}
		return s.replacePostTags(tx, postID, input.Tags)
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.Invalidate(context.Background(), cache.TagsKey)

	if err := s.decorate(post, nil); err != nil {
		return nil, err
	}
	return post, nil
}

// Delete removes the listing together with its comments, like rows, and tag
// links. Only the author may delete.
func (s *PostService) Delete(postID, userID uint) error {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return err
	}
	if !post.IsOwnedBy(userID) {
		return models.NewUnauthorizedError("only the author can delete this post")
	}

	err = inTx(s.db, func(tx *gorm.DB) error {
		if err := s.comments.WithTx(tx).DeleteAllByPost(postID); err != nil {
			return err
		}
		if err := s.likes.WithTx(tx).DeleteAllByPost(postID); err != nil {
			return err
		}
		if err := s.techStacks.WithTx(tx).DeleteAllByPost(postID); err != nil {
			return err
		}
		return s.posts.WithTx(tx).Delete(postID)
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// FindOneByID fetches a listing without any view-count side effect.
func (s *PostService) FindOneByID(postID uint) (*models.Post, error) {
	post, err := s.posts.FindByIDWithUser(postID)
	if err != nil {
		return nil, err
	}
	if err := s.decorate(post, nil); err != nil {
		return nil, err
	}
	return post, nil
}

// GetPost fetches a listing for display. When the viewer is authenticated
// and has never seen the post, an INACTIVE like row is created and the view
// counter moves by one. Repeat views by the same user change nothing.
func (s *PostService) GetPost(postID uint, viewerID *uint) (*models.Post, error) {
	post, err := s.posts.FindByIDWithUser(postID)
	if err != nil {
		return nil, err
	}

	if viewerID != nil {
		row, err := s.likes.FindByUserAndPost(*viewerID, postID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if row == nil {
			err = inTx(s.db, func(tx *gorm.DB) error {
				if err := s.likes.WithTx(tx).Create(models.NewLikePost(*viewerID, postID)); err != nil {
					return err
				}
				return s.posts.WithTx(tx).IncrementViewCount(postID)
			})
			if err != nil {
				return nil, models.NewInternalError(err)
			}
			post.AddView()
		}
	}

	if err := s.decorate(post, viewerID); err != nil {
		return nil, err
	}

	comments, err := s.comments.FindByPostID(postID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	for i := range comments {
		comments[i].Profile = s.avatars.URL(comments[i].User.PublicID)
	}
	post.Comments = comments
	return post, nil
}

// FindUserPosts lists the listings authored by userID, newest first.
func (s *PostService) FindUserPosts(userID uint) ([]models.Post, error) {
	posts, err := s.posts.FindByUserID(userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.decorateAll(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// Search lists listings matching the filter and returns the total match
// count for pagination.
func (s *PostService) Search(filter repository.SearchFilter) ([]models.Post, int64, error) {
	posts, total, err := s.posts.Search(filter)
	if err != nil {
		return nil, 0, models.NewInternalError(err)
	}
	if err := s.decorateAll(posts); err != nil {
		return nil, 0, err
	}
	return posts, total, nil
}

// ChangeStatus toggles the listing between RECRUITING and COMPLETE. Only the
// author may change it; toggling twice restores the original state.
func (s *PostService) ChangeStatus(postID, userID uint) (models.PostStatus, error) {
	post, err := s.posts.FindByID(postID)
	if err != nil {
		return "", err
	}
	if !post.IsOwnedBy(userID) {
		return "", models.NewUnauthorizedError("only the author can change the post status")
	}

	status := post.ToggleStatus()
	if err := s.posts.Update(post); err != nil {
		return "", models.NewInternalError(err)
	}
	return status, nil
}

// ChangeLikeStatus toggles the caller's like on a post they have already
// viewed. Without a prior view there is no like row and the call fails with
// not found. The post's like counter moves with the toggle.
func (s *PostService) ChangeLikeStatus(postID, userID uint) (models.LikePostStatus, error) {
	if _, err := s.posts.FindByID(postID); err != nil {
		return "", err
	}

	row, err := s.likes.FindByUserAndPost(userID, postID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	if row == nil {
		return "", models.NewNotFoundMessageError("post has not been viewed by this user")
	}

	status := row.Toggle()
	delta := 1
	if status == models.LikePostStatusInactive {
		delta = -1
	}

	err = inTx(s.db, func(tx *gorm.DB) error {
		if err := s.likes.WithTx(tx).Update(row); err != nil {
			return err
		}
		return s.posts.WithTx(tx).UpdateLikeCount(postID, delta)
	})
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return status, nil
}

// Recommend returns up to four listings related by tag overlap. With no tags
// given, the post's own tags drive the match. The post itself is excluded.
func (s *PostService) Recommend(postID uint, tags []string) ([]models.Post, error) {
	if _, err := s.posts.FindByID(postID); err != nil {
		return nil, err
	}

	tags = normalizeTags(tags)
	if len(tags) == 0 {
		own, err := s.techStacks.TagNamesForPost(postID)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		tags = own
	}

	posts, err := s.posts.Recommend(postID, tags, RecommendLimit)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.decorateAll(posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// decorate fills the computed fields of a single post.
func (s *PostService) decorate(post *models.Post, viewerID *uint) error {
	tags, err := s.techStacks.TagNamesForPost(post.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	post.Tags = tags

	count, err := s.comments.CountByPostID(post.ID)
	if err != nil {
		return models.NewInternalError(err)
	}
	post.CommentCount = count
	post.Profile = s.avatars.URL(post.User.PublicID)

	if viewerID != nil {
		row, err := s.likes.FindByUserAndPost(*viewerID, post.ID)
		if err != nil {
			return models.NewInternalError(err)
		}
		post.Liked = row != nil && row.Status == models.LikePostStatusActive
	}
	return nil
}

// decorateAll fills computed fields for a listing page in two batched
// queries instead of one pair per post.
func (s *PostService) decorateAll(posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	ids := make([]uint, 0, len(posts))
	for _, post := range posts {
		ids = append(ids, post.ID)
	}

	tagsByPost, err := s.techStacks.TagNamesForPosts(ids)
	if err != nil {
		return models.NewInternalError(err)
	}
	countsByPost, err := s.comments.CountByPostIDs(ids)
	if err != nil {
		return models.NewInternalError(err)
	}

	for i := range posts {
		tags := tagsByPost[posts[i].ID]
		if tags == nil {
			tags = []string{}
		}
		posts[i].Tags = tags
		posts[i].CommentCount = countsByPost[posts[i].ID]
		posts[i].Profile = s.avatars.URL(posts[i].User.PublicID)
	}
	return nil
}

func (s *PostService) replacePostTags(tx *gorm.DB, postID uint, names []string) error {
	tags, err := s.tags.WithTx(tx).FindOrCreateByNames(names)
	if err != nil {
		return err
	}
	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	return s.techStacks.WithTx(tx).ReplaceForPost(postID, tagIDs)
}

// normalizeTags trims, drops empties, and de-duplicates while keeping order.
func normalizeTags(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
