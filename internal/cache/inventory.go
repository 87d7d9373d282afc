package cache

import (
	"time"
)

// Key inventory. Every Redis key the application writes is declared here.
const (
	// RefreshTokenKeyPrefix maps a refresh token value to the owning user ID.
	RefreshTokenKeyPrefix = "refresh_token:"
	// TagsKey caches the full tag vocabulary.
	TagsKey = "tags:all"
)

// TagsTTL bounds staleness of the cached tag vocabulary.
const TagsTTL = 10 * time.Minute

// RefreshTokenKey returns the store key for a refresh token value.
func RefreshTokenKey(token string) string {
	return RefreshTokenKeyPrefix + token
}
