package models

import (
	"time"
)

// DefaultPublicID is the avatar sentinel for users who have not uploaded
// a profile image.
const DefaultPublicID = "default"

// User is a member account. There are no passwords; identity comes from a
// social login pair (provider plus the provider's opaque user ID).
type User struct {
	ID            uint      `gorm:"primaryKey" json:"id"`
	Nickname      string    `gorm:"uniqueIndex;not null" json:"nickname"`
	SocialLoginID string    `gorm:"not null;uniqueIndex:idx_social_provider" json:"-"`
	AuthProvider  string    `gorm:"not null;uniqueIndex:idx_social_provider" json:"-"`
	PublicID      string    `gorm:"not null;default:default" json:"public_id"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	Posts []Post `gorm:"foreignKey:UserID" json:"-"`
}

// NewUser builds an account with the default avatar.
func NewUser(nickname, socialLoginID, authProvider string) *User {
	return &User{
		Nickname:      nickname,
		SocialLoginID: socialLoginID,
		AuthProvider:  authProvider,
		PublicID:      DefaultPublicID,
	}
}

// HasCustomAvatar reports whether the user uploaded their own image.
func (u *User) HasCustomAvatar() bool {
	return u.PublicID != "" && u.PublicID != DefaultPublicID
}
