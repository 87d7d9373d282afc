// Package testutil provides shared test fixtures: an in-memory database,
// a fake Redis, and a fake avatar store.
package testutil

import (
	"fmt"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"lets/internal/database"
)

// NewTestDB opens a fresh in-memory SQLite database with the full schema
// migrated. Each call gets its own database, so tests stay independent.
func NewTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(database.Models()...); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// NewTestRedis starts a miniredis instance and returns a client bound to it.
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client
}

// FakeAvatarStore implements avatar.Store without touching the filesystem.
type FakeAvatarStore struct {
	Saved   []string
	Deleted []string
	SaveErr error
	next    int
}

func (f *FakeAvatarStore) Save(payload string) (string, error) {
	if f.SaveErr != nil {
		return "", f.SaveErr
	}
	f.next++
	id := fmt.Sprintf("avatar-%d", f.next)
	f.Saved = append(f.Saved, id)
	return id, nil
}

func (f *FakeAvatarStore) Delete(publicID string) error {
	f.Deleted = append(f.Deleted, publicID)
	return nil
}

func (f *FakeAvatarStore) URL(publicID string) string {
	if publicID == "" {
		publicID = "default"
	}
	return "/static/avatars/" + publicID + ".webp"
}
