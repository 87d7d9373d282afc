package models

import (
	"time"
)

// LikePostStatus is the two-value state of a user's interest marker.
type LikePostStatus string

const (
	// LikePostStatusActive means the user currently likes the post.
	LikePostStatusActive LikePostStatus = "ACTIVE"
	// LikePostStatusInactive means the user has seen the post but does not
	// currently like it.
	LikePostStatusInactive LikePostStatus = "INACTIVE"
)

// LikePost records a user's relation to a post. A row is created in
// INACTIVE state the first time an authenticated user views the post, so
// the table doubles as the per-(user, post) seen-marker that keeps view
// counting idempotent. Toggling flips the status and moves the post's like
// counter by one.
type LikePost struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;uniqueIndex:idx_like_user_post" json:"user_id"`
	PostID    uint           `gorm:"not null;uniqueIndex:idx_like_user_post" json:"post_id"`
	Status    LikePostStatus `gorm:"not null;default:INACTIVE" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
	Post Post `gorm:"foreignKey:PostID" json:"-"`
}

// NewLikePost builds the seen-marker row in its initial INACTIVE state.
func NewLikePost(userID, postID uint) *LikePost {
	return &LikePost{
		UserID: userID,
		PostID: postID,
		Status: LikePostStatusInactive,
	}
}

// Toggle flips the like status and returns the new value.
func (l *LikePost) Toggle() LikePostStatus {
	if l.Status == LikePostStatusActive {
		l.Status = LikePostStatusInactive
	} else {
		l.Status = LikePostStatusActive
	}
	return l.Status
}
