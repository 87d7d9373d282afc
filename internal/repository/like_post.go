package repository

import (
	"errors"

	"gorm.io/gorm"

	"lets/internal/models"
)

// LikePostRepository handles the per-user like/seen rows.
type LikePostRepository interface {
	Create(lp *models.LikePost) error
	FindByUserAndPost(userID, postID uint) (*models.LikePost, error)
	Update(lp *models.LikePost) error
	DeleteAllByPost(postID uint) error
	DeleteAllByUser(userID uint) error
	WithTx(tx *gorm.DB) LikePostRepository
}

type likePostRepository struct {
	db *gorm.DB
}

// NewLikePostRepository creates a new like repository.
func NewLikePostRepository(db *gorm.DB) LikePostRepository {
	return &likePostRepository{db: db}
}

func (r *likePostRepository) WithTx(tx *gorm.DB) LikePostRepository {
	if tx == nil {
		return r
	}
	return &likePostRepository{db: tx}
}

func (r *likePostRepository) Create(lp *models.LikePost) error {
	return r.db.Create(lp).Error
}

// FindByUserAndPost returns nil, nil when no row exists so callers can
// distinguish "never seen" from a real error.
func (r *likePostRepository) FindByUserAndPost(userID, postID uint) (*models.LikePost, error) {
	var lp models.LikePost
	err := r.db.Where("user_id = ? AND post_id = ?", userID, postID).First(&lp).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &lp, nil
}

func (r *likePostRepository) Update(lp *models.LikePost) error {
	return r.db.Save(lp).Error
}

func (r *likePostRepository) DeleteAllByPost(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.LikePost{}).Error
}

func (r *likePostRepository) DeleteAllByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.LikePost{}).Error
}
