package models

import (
	"time"
)

// PostStatus is the lifecycle state of a recruitment listing.
type PostStatus string

const (
	// PostStatusRecruiting marks a listing that is still open.
	PostStatusRecruiting PostStatus = "RECRUITING"
	// PostStatusComplete marks a listing whose team is filled.
	PostStatusComplete PostStatus = "COMPLETE"
)

// Post is a project/recruitment listing.
type Post struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Title     string     `gorm:"not null" json:"title"`
	Content   string     `gorm:"not null" json:"content"`
	LikeCount int64      `gorm:"not null;default:0" json:"like_count"`
	ViewCount int64      `gorm:"not null;default:0" json:"view_count"`
	Status    PostStatus `gorm:"not null;default:RECRUITING" json:"status"`
	UserID    uint       `gorm:"not null" json:"user_id"`
	User      User       `gorm:"foreignKey:UserID" json:"user"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`

	// Computed at query time; never persisted.
	Tags         []string  `gorm:"-" json:"tags"`
	CommentCount int64     `gorm:"-" json:"comment_count"`
	Profile      string    `gorm:"-" json:"profile,omitempty"`
	Liked        bool      `gorm:"-" json:"liked"`
	Comments     []Comment `gorm:"-" json:"comments,omitempty"`
}

// NewPost builds a listing in its initial state: recruiting, zero counts.
func NewPost(userID uint, title, content string) *Post {
	return &Post{
		Title:   title,
		Content: content,
		Status:  PostStatusRecruiting,
		UserID:  userID,
	}
}

// ToggleStatus flips the listing between RECRUITING and COMPLETE and
// returns the new status.
func (p *Post) ToggleStatus() PostStatus {
	if p.Status == PostStatusComplete {
		p.Status = PostStatusRecruiting
	} else {
		p.Status = PostStatusComplete
	}
	return p.Status
}

// AddView increments the view counter.
func (p *Post) AddView() {
	p.ViewCount++
}

// AddLike increments the like counter.
func (p *Post) AddLike() {
	p.LikeCount++
}

// RemoveLike decrements the like counter, never below zero.
func (p *Post) RemoveLike() {
	if p.LikeCount > 0 {
		p.LikeCount--
	}
}

// IsOwnedBy reports whether userID is the author of the post.
func (p *Post) IsOwnedBy(userID uint) bool {
	return p.UserID == userID
}
