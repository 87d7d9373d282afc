package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"lets/internal/models"
)

// SearchFilter narrows and orders a post listing. Zero values mean "any".
type SearchFilter struct {
	Status models.PostStatus
	Tags   []string
	Sort   string
	Page   int
	Size   int
}

// sortColumns whitelists the ORDER BY targets accepted from clients.
var sortColumns = map[string]string{
	"created_at": "posts.created_at",
	"like_count": "posts.like_count",
	"view_count": "posts.view_count",
}

// PostRepository handles post persistence.
type PostRepository interface {
	Create(post *models.Post) error
	FindByID(id uint) (*models.Post, error)
	FindByIDWithUser(id uint) (*models.Post, error)
	FindByUserID(userID uint) ([]models.Post, error)
	Search(filter SearchFilter) ([]models.Post, int64, error)
	Recommend(postID uint, tags []string, limit int) ([]models.Post, error)
	Update(post *models.Post) error
	IncrementViewCount(id uint) error
	UpdateLikeCount(id uint, delta int) error
	Delete(id uint) error
	DeleteAllByUser(userID uint) error
	WithTx(tx *gorm.DB) PostRepository
}

type postRepository struct {
	db *gorm.DB
}

// NewPostRepository creates a new post repository.
func NewPostRepository(db *gorm.DB) PostRepository {
	return &postRepository{db: db}
}

func (r *postRepository) WithTx(tx *gorm.DB) PostRepository {
	if tx == nil {
		return r
	}
	return &postRepository{db: tx}
}

func (r *postRepository) Create(post *models.Post) error {
	return r.db.Create(post).Error
}

func (r *postRepository) FindByID(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByIDWithUser(id uint) (*models.Post, error) {
	var post models.Post
	if err := r.db.Preload("User").First(&post, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post", id)
		}
		return nil, err
	}
	return &post, nil
}

func (r *postRepository) FindByUserID(userID uint) ([]models.Post, error) {
	var posts []models.Post
	err := r.db.Preload("User").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&posts).Error
	return posts, err
}

// Search lists posts matching the filter, newest first unless the filter
// names another whitelisted sort column. Tag filtering requires a post to
// carry at least one of the given tags.
func (r *postRepository) Search(filter SearchFilter) ([]models.Post, int64, error) {
	q := r.db.Model(&models.Post{})

	if filter.Status != "" {
		q = q.Where("posts.status = ?", filter.Status)
	}
	if len(filter.Tags) > 0 {
		q = q.Joins("JOIN post_tech_stacks pts ON pts.post_id = posts.id").
			Joins("JOIN tags ON tags.id = pts.tag_id").
			Where("tags.name IN ?", filter.Tags).
			Distinct("posts.*")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Distinct("posts.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	column, ok := sortColumns[filter.Sort]
	if !ok {
		column = sortColumns["created_at"]
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.Size
	if size < 1 || size > 100 {
		size = 20
	}

	var posts []models.Post
	err := q.Preload("User").
		Order(fmt.Sprintf("%s DESC", column)).
		Offset((page - 1) * size).
		Limit(size).
		Find(&posts).Error
	return posts, total, err
}

// Recommend returns up to limit posts sharing at least one of the given
// tags, excluding postID, ordered by tag overlap then recency.
func (r *postRepository) Recommend(postID uint, tags []string, limit int) ([]models.Post, error) {
	if len(tags) == 0 || limit < 1 {
		return []models.Post{}, nil
	}

	var posts []models.Post
	err := r.db.Model(&models.Post{}).
		Joins("JOIN post_tech_stacks pts ON pts.post_id = posts.id").
		Joins("JOIN tags ON tags.id = pts.tag_id").
		Where("tags.name IN ?", tags).
		Where("posts.id <> ?", postID).
		Group("posts.id").
		Order("COUNT(tags.id) DESC, MAX(posts.created_at) DESC").
		Limit(limit).
		Preload("User").
		Find(&posts).Error
	return posts, err
}

func (r *postRepository) Update(post *models.Post) error {
	return r.db.Save(post).Error
}

func (r *postRepository) IncrementViewCount(id uint) error {
	return r.db.Model(&models.Post{}).
		Where("id = ?", id).
		UpdateColumn("view_count", gorm.Expr("view_count + 1")).Error
}

// UpdateLikeCount applies delta atomically and never lets the counter go
// below zero.
func (r *postRepository) UpdateLikeCount(id uint, delta int) error {
	if delta >= 0 {
		return r.db.Model(&models.Post{}).
			Where("id = ?", id).
			UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
	}
	return r.db.Model(&models.Post{}).
		Where("id = ? AND like_count > 0", id).
		UpdateColumn("like_count", gorm.Expr("like_count + ?", delta)).Error
}

func (r *postRepository) Delete(id uint) error {
	return r.db.Delete(&models.Post{}, id).Error
}

func (r *postRepository) DeleteAllByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.Post{}).Error
}
