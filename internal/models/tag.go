package models

import (
	"time"
)

// Tag is a canonical technology label ("spring", "go", ...). The vocabulary
// grows ad hoc: unknown names are created on first use.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"uniqueIndex;not null" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// UserTechStack associates a tag with a user (a skill).
type UserTechStack struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	TagID     uint      `gorm:"not null" json:"tag_id"`
	Tag       Tag       `gorm:"foreignKey:TagID" json:"tag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PostTechStack associates a tag with a post (a required skill).
type PostTechStack struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	PostID    uint      `gorm:"not null;index" json:"post_id"`
	TagID     uint      `gorm:"not null" json:"tag_id"`
	Tag       Tag       `gorm:"foreignKey:TagID" json:"tag"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
