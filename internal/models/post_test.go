package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPostStartsRecruiting(t *testing.T) {
	post := NewPost(1, "title", "content")

	assert.Equal(t, PostStatusRecruiting, post.Status)
	assert.Zero(t, post.LikeCount)
	assert.Zero(t, post.ViewCount)
}

func TestToggleStatusIsSymmetric(t *testing.T) {
	post := NewPost(1, "title", "content")

	assert.Equal(t, PostStatusComplete, post.ToggleStatus())
	assert.Equal(t, PostStatusRecruiting, post.ToggleStatus())
	assert.Equal(t, PostStatusRecruiting, post.Status)
}

func TestRemoveLikeNeverGoesNegative(t *testing.T) {
	post := NewPost(1, "title", "content")

	post.RemoveLike()
	assert.Zero(t, post.LikeCount)

	post.AddLike()
	post.RemoveLike()
	post.RemoveLike()
	assert.Zero(t, post.LikeCount)
}

func TestLikePostToggle(t *testing.T) {
	row := NewLikePost(1, 2)
	assert.Equal(t, LikePostStatusInactive, row.Status)

	assert.Equal(t, LikePostStatusActive, row.Toggle())
	assert.Equal(t, LikePostStatusInactive, row.Toggle())
}

func TestHasCustomAvatar(t *testing.T) {
	user := NewUser("someone", "social-1", "google")
	assert.False(t, user.HasCustomAvatar())

	user.PublicID = "abc-123"
	assert.True(t, user.HasCustomAvatar())
}
