package models

import (
	"time"
)

// Comment is a reply on a post. It has no independent lifecycle: deleting
// the parent post (or the author) removes it.
type Comment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Content   string    `gorm:"not null" json:"content"`
	UserID    uint      `gorm:"not null" json:"user_id"`
	PostID    uint      `gorm:"not null" json:"post_id"`
	User      User      `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// Computed at query time; never persisted.
	Profile string `gorm:"-" json:"profile,omitempty"`
}

// NewComment builds a comment by the given author on the given post.
func NewComment(userID, postID uint, content string) *Comment {
	return &Comment{
		Content: content,
		UserID:  userID,
		PostID:  postID,
	}
}

// IsOwnedBy reports whether userID authored the comment.
func (c *Comment) IsOwnedBy(userID uint) bool {
	return c.UserID == userID
}
