// Package seed fills a database with plausible development data.
package seed

import (
	"fmt"
	"math/rand"

	"github.com/brianvoe/gofakeit/v6"
	"gorm.io/gorm"

	"lets/internal/models"
)

// tagPool is the starting tag vocabulary for seeded data.
var tagPool = []string{
	"go", "java", "kotlin", "python", "typescript", "react", "vue",
	"spring", "fiber", "postgres", "redis", "docker", "kubernetes",
	"android", "ios", "ml", "devops",
}

// Options bounds how much data Run generates.
type Options struct {
	Users           int
	PostsPerUser    int
	CommentsPerPost int
}

// DefaultOptions is a small but varied data set.
func DefaultOptions() Options {
	return Options{Users: 10, PostsPerUser: 3, CommentsPerPost: 2}
}

// Run populates the database. It is not idempotent; run it against an empty
// development database.
func Run(db *gorm.DB, opts Options) error {
	tags, err := seedTags(db)
	if err != nil {
		return fmt.Errorf("seed tags: %w", err)
	}

	users, err := seedUsers(db, opts.Users, tags)
	if err != nil {
		return fmt.Errorf("seed users: %w", err)
	}

	posts, err := seedPosts(db, users, tags, opts.PostsPerUser)
	if err != nil {
		return fmt.Errorf("seed posts: %w", err)
	}

	if err := seedComments(db, users, posts, opts.CommentsPerPost); err != nil {
		return fmt.Errorf("seed comments: %w", err)
	}

	if err := seedLikes(db, users, posts); err != nil {
		return fmt.Errorf("seed likes: %w", err)
	}
	return nil
}

func seedTags(db *gorm.DB) ([]models.Tag, error) {
	tags := make([]models.Tag, 0, len(tagPool))
	for _, name := range tagPool {
		tags = append(tags, models.Tag{Name: name})
	}
	if err := db.Create(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func seedUsers(db *gorm.DB, count int, tags []models.Tag) ([]models.User, error) {
	users := make([]models.User, 0, count)
	for i := 0; i < count; i++ {
		nickname := fmt.Sprintf("%s%d", gofakeit.Username(), i)
		if len(nickname) > 20 {
			nickname = nickname[:20]
		}
		user := models.NewUser(nickname, gofakeit.UUID(), pick("google", "kakao"))
		if err := db.Create(user).Error; err != nil {
			return nil, err
		}

		for _, tag := range sample(tags, 1+rand.Intn(3)) {
			row := models.UserTechStack{UserID: user.ID, TagID: tag.ID}
			if err := db.Create(&row).Error; err != nil {
				return nil, err
			}
		}
		users = append(users, *user)
	}
	return users, nil
}

func seedPosts(db *gorm.DB, users []models.User, tags []models.Tag, perUser int) ([]models.Post, error) {
	var posts []models.Post
	for _, user := range users {
		for i := 0; i < perUser; i++ {
			post := models.NewPost(
				user.ID,
				gofakeit.Sentence(5),
				gofakeit.Paragraph(2, 4, 8, " "),
			)
			if rand.Intn(4) == 0 {
				post.Status = models.PostStatusComplete
			}
			if err := db.Create(post).Error; err != nil {
				return nil, err
			}

			for _, tag := range sample(tags, 1+rand.Intn(4)) {
				row := models.PostTechStack{PostID: post.ID, TagID: tag.ID}
				if err := db.Create(&row).Error; err != nil {
					return nil, err
				}
			}
			posts = append(posts, *post)
		}
	}
	return posts, nil
}

func seedComments(db *gorm.DB, users []models.User, posts []models.Post, perPost int) error {
	for _, post := range posts {
		for i := 0; i < perPost; i++ {
			author := users[rand.Intn(len(users))]
			comment := models.NewComment(author.ID, post.ID, gofakeit.Sentence(8))
			if err := db.Create(comment).Error; err != nil {
				return err
			}
		}
	}
	return nil
}

// seedLikes creates view/like rows and keeps the post counters consistent
// with them.
func seedLikes(db *gorm.DB, users []models.User, posts []models.Post) error {
	for _, post := range posts {
		viewers := sampleUsers(users, rand.Intn(len(users)+1))
		var likeCount int64
		for _, viewer := range viewers {
			row := models.NewLikePost(viewer.ID, post.ID)
			if rand.Intn(2) == 0 {
				row.Status = models.LikePostStatusActive
				likeCount++
			}
			if err := db.Create(row).Error; err != nil {
				return err
			}
		}
		err := db.Model(&models.Post{}).
			Where("id = ?", post.ID).
			Updates(map[string]any{
				"view_count": len(viewers),
				"like_count": likeCount,
			}).Error
		if err != nil {
			return err
		}
	}
	return nil
}

func pick(values ...string) string {
	return values[rand.Intn(len(values))]
}

func sample(tags []models.Tag, n int) []models.Tag {
	idx := rand.Perm(len(tags))
	if n > len(tags) {
		n = len(tags)
	}
	out := make([]models.Tag, 0, n)
	for _, i := range idx[:n] {
		out = append(out, tags[i])
	}
	return out
}

func sampleUsers(users []models.User, n int) []models.User {
	idx := rand.Perm(len(users))
	if n > len(users) {
		n = len(users)
	}
	out := make([]models.User, 0, n)
	for _, i := range idx[:n] {
		out = append(out, users[i])
	}
	return out
}
