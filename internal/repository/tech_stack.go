package repository

import (
	"gorm.io/gorm"

	"lets/internal/models"
)

// TechStackRepository manages the user-tag and post-tag join rows.
type TechStackRepository interface {
	ReplaceForUser(userID uint, tagIDs []uint) error
	ReplaceForPost(postID uint, tagIDs []uint) error
	TagNamesForUser(userID uint) ([]string, error)
	TagNamesForPost(postID uint) ([]string, error)
	TagNamesForPosts(postIDs []uint) (map[uint][]string, error)
	DeleteAllByUser(userID uint) error
	DeleteAllByPost(postID uint) error
	WithTx(tx *gorm.DB) TechStackRepository
}

type techStackRepository struct {
	db *gorm.DB
}

// NewTechStackRepository creates a new tech stack repository.
func NewTechStackRepository(db *gorm.DB) TechStackRepository {
	return &techStackRepository{db: db}
}

func (r *techStackRepository) WithTx(tx *gorm.DB) TechStackRepository {
	if tx == nil {
		return r
	}
	return &techStackRepository{db: tx}
}

// ReplaceForUser swaps the user's tag set for the given IDs.
func (r *techStackRepository) ReplaceForUser(userID uint, tagIDs []uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.UserTechStack{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.UserTechStack, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.UserTechStack{UserID: userID, TagID: tagID})
	}
	return r.db.Create(&rows).Error
}

// ReplaceForPost swaps the post's tag set for the given IDs.
func (r *techStackRepository) ReplaceForPost(postID uint, tagIDs []uint) error {
	if err := r.db.Where("post_id = ?", postID).Delete(&models.PostTechStack{}).Error; err != nil {
		return err
	}
	if len(tagIDs) == 0 {
		return nil
	}
	rows := make([]models.PostTechStack, 0, len(tagIDs))
	for _, tagID := range tagIDs {
		rows = append(rows, models.PostTechStack{PostID: postID, TagID: tagID})
	}
	return r.db.Create(&rows).Error
}

func (r *techStackRepository) TagNamesForUser(userID uint) ([]string, error) {
	var names []string
	err := r.db.Model(&models.UserTechStack{}).
		Joins("JOIN tags ON tags.id = user_tech_stacks.tag_id").
		Where("user_tech_stacks.user_id = ?", userID).
		Order("tags.name ASC").
		Pluck("tags.name", &names).Error
	return names, err
}

func (r *techStackRepository) TagNamesForPost(postID uint) ([]string, error) {
	var names []string
	err := r.db.Model(&models.PostTechStack{}).
		Joins("JOIN tags ON tags.id = post_tech_stacks.tag_id").
		Where("post_tech_stacks.post_id = ?", postID).
		Order("tags.name ASC").
		Pluck("tags.name", &names).Error
	return names, err
}

// TagNamesForPosts resolves tag names for many posts in one query.
func (r *techStackRepository) TagNamesForPosts(postIDs []uint) (map[uint][]string, error) {
	out := make(map[uint][]string, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	var rows []struct {
		PostID uint
		Name   string
	}
	err := r.db.Model(&models.PostTechStack{}).
		Select("post_tech_stacks.post_id, tags.name").
		Joins("JOIN tags ON tags.id = post_tech_stacks.tag_id").
		Where("post_tech_stacks.post_id IN ?", postIDs).
		Order("tags.name ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.PostID] = append(out[row.PostID], row.Name)
	}
	return out, nil
}

func (r *techStackRepository) DeleteAllByUser(userID uint) error {
	return r.db.Where("user_id = ?", userID).Delete(&models.UserTechStack{}).Error
}

func (r *techStackRepository) DeleteAllByPost(postID uint) error {
	return r.db.Where("post_id = ?", postID).Delete(&models.PostTechStack{}).Error
}
