package service

import (
	"context"
	"strings"
	"unicode/utf8"

	"gorm.io/gorm"

	"lets/internal/avatar"
	"lets/internal/cache"
	"lets/internal/models"
	"lets/internal/repository"
)

const (
	nicknameMinLen = 2
	nicknameMaxLen = 20
)

// Avatar sentinels accepted wherever an avatar field appears. Anything
// else is treated as a base64 image payload.
const (
	// AvatarKeep leaves the current image untouched.
	AvatarKeep = "KEEP"
	// AvatarPublic reverts to the shared default image.
	AvatarPublic = "PUBLIC"
)

// SignupInput carries the fields needed to register an account.
type SignupInput struct {
	Nickname      string   `json:"nickname"`
	SocialLoginID string   `json:"social_login_id"`
	AuthProvider  string   `json:"auth_provider"`
	Avatar        string   `json:"avatar"`
	Tags          []string `json:"tags"`
}

// UpdateSettingsInput carries a settings update. The avatar field follows
// the sentinel scheme above; an absent field behaves like KEEP.
type UpdateSettingsInput struct {
	Nickname string   `json:"nickname"`
	Avatar   *string  `json:"avatar"`
	Tags     []string `json:"tags"`
}

// UserSettings is the settings page payload.
type UserSettings struct {
	Nickname string   `json:"nickname"`
	Profile  string   `json:"profile"`
	Tags     []string `json:"tags"`
}

// UserService handles account lifecycle and profile settings.
type UserService struct {
	db         *gorm.DB
	users      repository.UserRepository
	posts      repository.PostRepository
	comments   repository.CommentRepository
	likes      repository.LikePostRepository
	tags       repository.TagRepository
	techStacks repository.TechStackRepository
	avatars    avatar.Store
}

// NewUserService creates a user service with its dependencies.
func NewUserService(
	db *gorm.DB,
	users repository.UserRepository,
	posts repository.PostRepository,
	comments repository.CommentRepository,
	likes repository.LikePostRepository,
	tags repository.TagRepository,
	techStacks repository.TechStackRepository,
	avatars avatar.Store,
) *UserService {
	return &UserService{
		db:         db,
		users:      users,
		posts:      posts,
		comments:   comments,
		likes:      likes,
		tags:       tags,
		techStacks: techStacks,
		avatars:    avatars,
	}
}

// Signup registers a new account. The social pair and the nickname must both
// be unused.
func (s *UserService) Signup(input SignupInput) (*models.User, error) {
	if err := validateNicknameFormat(input.Nickname); err != nil {
		return nil, err
	}
	if input.SocialLoginID == "" || input.AuthProvider == "" {
		return nil, models.NewValidationError("social login ID and auth provider are required")
	}
	input.Tags = normalizeTags(input.Tags)

	exists, err := s.users.ExistsBySocial(input.SocialLoginID, input.AuthProvider)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if exists {
		return nil, models.NewConflictError("an account already exists for this social login")
	}

	taken, err := s.users.ExistsByNickname(input.Nickname)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if taken {
		return nil, models.NewConflictError("nickname is already in use")
	}

	user := models.NewUser(input.Nickname, input.SocialLoginID, input.AuthProvider)
	if avatar := input.Avatar; avatar != "" && avatar != AvatarKeep && avatar != AvatarPublic && avatar != models.DefaultPublicID {
		publicID, err := s.avatars.Save(avatar)
		if err != nil {
			return nil, models.NewValidationError("invalid avatar payload")
		}
		user.PublicID = publicID
	}

	err = inTx(s.db, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(user); err != nil {
			return err
		}
		return s.replaceUserTags(tx, user.ID, input.Tags)
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.Invalidate(context.Background(), cache.TagsKey)
	return user, nil
}

// FindBySocial looks up the account for a social login pair.
func (s *UserService) FindBySocial(socialLoginID, authProvider string) (*models.User, error) {
	return s.users.FindBySocial(socialLoginID, authProvider)
}

// FindByID looks up an account by primary key.
func (s *UserService) FindByID(id uint) (*models.User, error) {
	return s.users.FindByID(id)
}

// ValidateNickname checks format and availability without reserving the name.
func (s *UserService) ValidateNickname(nickname string) error {
	if err := validateNicknameFormat(nickname); err != nil {
		return err
	}
	taken, err := s.users.ExistsByNickname(nickname)
	if err != nil {
		return models.NewInternalError(err)
	}
	if taken {
		return models.NewConflictError("nickname is already in use")
	}
	return nil
}

// GetSettings returns the user's nickname, avatar URL, and tag list.
func (s *UserService) GetSettings(userID uint) (*UserSettings, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	tags, err := s.techStacks.TagNamesForUser(userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return &UserSettings{
		Nickname: user.Nickname,
		Profile:  s.avatars.URL(user.PublicID),
		Tags:     tags,
	}, nil
}

// UpdateSettings applies a settings change. The nickname is re-validated
// only when it actually changes, so saving the page without edits never
// trips the uniqueness check against the user's own name.
func (s *UserService) UpdateSettings(userID uint, input UpdateSettingsInput) (*UserSettings, error) {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return nil, err
	}
	input.Tags = normalizeTags(input.Tags)

	if input.Nickname != user.Nickname {
		if err := validateNicknameFormat(input.Nickname); err != nil {
			return nil, err
		}
		taken, err := s.users.ExistsByNickname(input.Nickname)
		if err != nil {
			return nil, models.NewInternalError(err)
		}
		if taken {
			return nil, models.NewConflictError("nickname is already in use")
		}
		user.Nickname = input.Nickname
	}

	oldPublicID := ""
	if input.Avatar != nil && *input.Avatar != "" && *input.Avatar != AvatarKeep {
		switch *input.Avatar {
		case AvatarPublic, models.DefaultPublicID:
			if user.HasCustomAvatar() {
				oldPublicID = user.PublicID
			}
			user.PublicID = models.DefaultPublicID
		default:
			publicID, err := s.avatars.Save(*input.Avatar)
			if err != nil {
				return nil, models.NewValidationError("invalid avatar payload")
			}
			if user.HasCustomAvatar() {
				oldPublicID = user.PublicID
			}
			user.PublicID = publicID
		}
	}

	err = inTx(s.db, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Update(user); err != nil {
			return err
		}
		return s.replaceUserTags(tx, userID, input.Tags)
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	cache.Invalidate(context.Background(), cache.TagsKey)

	// Remove the replaced image only after the row is committed.
	if oldPublicID != "" {
		_ = s.avatars.Delete(oldPublicID)
	}

	return s.GetSettings(userID)
}

// Signout deletes the account and everything it owns: comments and likes by
// the user, the user's posts together with their comments, likes, and tag
// links, the user's tag links, and finally the user row.
func (s *UserService) Signout(userID uint) error {
	user, err := s.users.FindByID(userID)
	if err != nil {
		return err
	}

	ownPosts, err := s.posts.FindByUserID(userID)
	if err != nil {
		return models.NewInternalError(err)
	}

	err = inTx(s.db, func(tx *gorm.DB) error {
		comments := s.comments.WithTx(tx)
		likes := s.likes.WithTx(tx)
		techStacks := s.techStacks.WithTx(tx)

		for _, post := range ownPosts {
			if err := comments.DeleteAllByPost(post.ID); err != nil {
				return err
			}
			if err := likes.DeleteAllByPost(post.ID); err != nil {
				return err
			}
			if err := techStacks.DeleteAllByPost(post.ID); err != nil {
				return err
			}
		}
		if err := s.posts.WithTx(tx).DeleteAllByUser(userID); err != nil {
			return err
		}
		if err := comments.DeleteAllByUser(userID); err != nil {
			return err
		}
		if err := likes.DeleteAllByUser(userID); err != nil {
			return err
		}
		if err := techStacks.DeleteAllByUser(userID); err != nil {
			return err
		}
		return s.users.WithTx(tx).Delete(userID)
	})
	if err != nil {
		return models.NewInternalError(err)
	}

	if user.HasCustomAvatar() {
		_ = s.avatars.Delete(user.PublicID)
	}
	return nil
}

func (s *UserService) replaceUserTags(tx *gorm.DB, userID uint, names []string) error {
	tags, err := s.tags.WithTx(tx).FindOrCreateByNames(names)
	if err != nil {
		return err
	}
	tagIDs := make([]uint, 0, len(tags))
	for _, tag := range tags {
		tagIDs = append(tagIDs, tag.ID)
	}
	return s.techStacks.WithTx(tx).ReplaceForUser(userID, tagIDs)
}

func validateNicknameFormat(nickname string) error {
	trimmed := strings.TrimSpace(nickname)
	if trimmed != nickname {
		return models.NewValidationError("nickname must not have leading or trailing spaces")
	}
	length := utf8.RuneCountInString(nickname)
	if length < nicknameMinLen || length > nicknameMaxLen {
		return models.NewValidationError("nickname must be between 2 and 20 characters")
	}
	return nil
}
