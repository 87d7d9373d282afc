package repository_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"lets/internal/models"
	"lets/internal/repository"
	"lets/internal/testutil"
)

func seedUser(t *testing.T, db *gorm.DB, nickname string) *models.User {
	t.Helper()
	user := models.NewUser(nickname, "social-"+nickname, "google")
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedPost(t *testing.T, db *gorm.DB, userID uint, title string) *models.Post {
	t.Helper()
	post := models.NewPost(userID, title, "content of "+title)
	require.NoError(t, db.Create(post).Error)
	return post
}

func tagPost(t *testing.T, db *gorm.DB, postID uint, names ...string) {
	t.Helper()
	tags, err := repository.NewTagRepository(db).FindOrCreateByNames(names)
	require.NoError(t, err)
	for _, tag := range tags {
		require.NoError(t, db.Create(&models.PostTechStack{PostID: postID, TagID: tag.ID}).Error)
	}
}

func TestUserRepositorySocialLookup(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	user := seedUser(t, db, "finder")

	found, err := repo.FindBySocial(user.SocialLoginID, "google")
	require.NoError(t, err)
	assert.Equal(t, user.ID, found.ID)

	_, err = repo.FindBySocial(user.SocialLoginID, "kakao")
	require.Error(t, err)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestUserRepositoryExistence(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewUserRepository(db)

	seedUser(t, db, "taken")

	exists, err := repo.ExistsByNickname("taken")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNickname("free")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestPostSearchFiltersByStatus(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")

	open := seedPost(t, db, user.ID, "open")
	done := seedPost(t, db, user.ID, "done")
	done.Status = models.PostStatusComplete
	require.NoError(t, repo.Update(done))

	posts, total, err := repo.Search(repository.SearchFilter{Status: models.PostStatusRecruiting})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, open.ID, posts[0].ID)
}

func TestPostSearchFiltersByTags(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")

	goPost := seedPost(t, db, user.ID, "go project")
	tagPost(t, db, goPost.ID, "go", "redis")
	javaPost := seedPost(t, db, user.ID, "java project")
	tagPost(t, db, javaPost.ID, "java")
	seedPost(t, db, user.ID, "untagged")

	posts, total, err := repo.Search(repository.SearchFilter{Tags: []string{"go"}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, posts, 1)
	assert.Equal(t, goPost.ID, posts[0].ID)
}

func TestPostSearchSortsByLikeCount(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")

	cold := seedPost(t, db, user.ID, "cold")
	hot := seedPost(t, db, user.ID, "hot")
	require.NoError(t, repo.UpdateLikeCount(hot.ID, 5))

	posts, _, err := repo.Search(repository.SearchFilter{Sort: "like_count"})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, hot.ID, posts[0].ID)
	assert.Equal(t, cold.ID, posts[1].ID)
}

func TestPostSearchRejectsUnknownSortColumn(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")
	seedPost(t, db, user.ID, "anything")

	// An unknown sort silently falls back to created_at instead of being
	// interpolated into the query.
	posts, _, err := repo.Search(repository.SearchFilter{Sort: "id; DROP TABLE posts"})
	require.NoError(t, err)
	assert.Len(t, posts, 1)
}

func TestPostSearchPaginates(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")

	for i := 0; i < 5; i++ {
		seedPost(t, db, user.ID, "post")
	}

	posts, total, err := repo.Search(repository.SearchFilter{Page: 2, Size: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 5, total)
	assert.Len(t, posts, 2)
}

func TestRecommendOrdersByOverlapAndExcludesSelf(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")

	source := seedPost(t, db, user.ID, "source")
	tagPost(t, db, source.ID, "go", "redis", "docker")

	twoShared := seedPost(t, db, user.ID, "two shared")
	tagPost(t, db, twoShared.ID, "go", "redis")
	oneShared := seedPost(t, db, user.ID, "one shared")
	tagPost(t, db, oneShared.ID, "go")
	unrelated := seedPost(t, db, user.ID, "unrelated")
	tagPost(t, db, unrelated.ID, "java")

	posts, err := repo.Recommend(source.ID, []string{"go", "redis", "docker"}, 4)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, twoShared.ID, posts[0].ID)
	assert.Equal(t, oneShared.ID, posts[1].ID)
	for _, p := range posts {
		assert.NotEqual(t, source.ID, p.ID)
	}
}

func TestRecommendHonorsLimit(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")

	source := seedPost(t, db, user.ID, "source")
	for i := 0; i < 6; i++ {
		p := seedPost(t, db, user.ID, "related")
		tagPost(t, db, p.ID, "go")
	}

	posts, err := repo.Recommend(source.ID, []string{"go"}, 4)
	require.NoError(t, err)
	assert.Len(t, posts, 4)
}

func TestLikeCountNeverGoesNegative(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewPostRepository(db)
	user := seedUser(t, db, "author")
	post := seedPost(t, db, user.ID, "post")

	require.NoError(t, repo.UpdateLikeCount(post.ID, -1))

	got, err := repo.FindByID(post.ID)
	require.NoError(t, err)
	assert.Zero(t, got.LikeCount)
}

func TestLikePostFindReturnsNilWithoutRow(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewLikePostRepository(db)

	row, err := repo.FindByUserAndPost(1, 2)
	require.NoError(t, err)
	assert.Nil(t, row)
}

func TestTagFindOrCreateIsIdempotent(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewTagRepository(db)

	first, err := repo.FindOrCreateByNames([]string{"go", "redis"})
	require.NoError(t, err)
	require.Len(t, first, 2)

	second, err := repo.FindOrCreateByNames([]string{"go", "redis", "go"})
	require.NoError(t, err)
	require.Len(t, second, 2)

	all, err := repo.FindAll()
	require.NoError(t, err)
	assert.Len(t, all, 2)
	for _, tag := range second {
		assert.NotZero(t, tag.ID)
	}
}

func TestTechStackReplaceForPost(t *testing.T) {
	db := testutil.NewTestDB(t)
	tags := repository.NewTagRepository(db)
	stacks := repository.NewTechStackRepository(db)
	user := seedUser(t, db, "author")
	post := seedPost(t, db, user.ID, "post")

	created, err := tags.FindOrCreateByNames([]string{"go", "redis", "java"})
	require.NoError(t, err)
	byName := map[string]uint{}
	for _, tag := range created {
		byName[tag.Name] = tag.ID
	}

	require.NoError(t, stacks.ReplaceForPost(post.ID, []uint{byName["go"], byName["redis"]}))
	names, err := stacks.TagNamesForPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "redis"}, names)

	require.NoError(t, stacks.ReplaceForPost(post.ID, []uint{byName["java"]}))
	names, err = stacks.TagNamesForPost(post.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"java"}, names)
}

func TestCommentCountsByPostIDs(t *testing.T) {
	db := testutil.NewTestDB(t)
	comments := repository.NewCommentRepository(db)
	user := seedUser(t, db, "author")
	postA := seedPost(t, db, user.ID, "a")
	postB := seedPost(t, db, user.ID, "b")

	require.NoError(t, comments.Create(models.NewComment(user.ID, postA.ID, "one")))
	require.NoError(t, comments.Create(models.NewComment(user.ID, postA.ID, "two")))

	counts, err := comments.CountByPostIDs([]uint{postA.ID, postB.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 2, counts[postA.ID])
	assert.EqualValues(t, 0, counts[postB.ID])
}
