package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lets/internal/cache"
	"lets/internal/repository"
	"lets/internal/service"
	"lets/internal/testutil"
)

func TestListTagsServesFromCache(t *testing.T) {
	cache.SetClient(testutil.NewTestRedis(t))
	t.Cleanup(func() { cache.SetClient(nil) })

	f := newFixture(t)
	tags := service.NewTagService(repository.NewTagRepository(f.db))
	ctx := context.Background()

	author := f.signup(t, "author")
	f.createPost(t, author.ID, "go")

	names, err := tags.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, names)

	// The second read comes from the cache, not the table.
	require.NoError(t, f.db.Exec("DELETE FROM tags").Error)
	names, err = tags.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go"}, names)
}

func TestListTagsReflectsVocabularyGrowth(t *testing.T) {
	cache.SetClient(testutil.NewTestRedis(t))
	t.Cleanup(func() { cache.SetClient(nil) })

	f := newFixture(t)
	tags := service.NewTagService(repository.NewTagRepository(f.db))
	ctx := context.Background()

	names, err := tags.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, names)

	// A write that grows the vocabulary drops the cached list.
	author := f.signup(t, "author")
	f.createPost(t, author.ID, "go", "redis")

	names, err = tags.ListAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "redis"}, names)
}
