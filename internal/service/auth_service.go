package service

import (
	"context"
	"errors"

	"lets/internal/auth"
	"lets/internal/cache"
	"lets/internal/models"
)

// TokenPair is the result of a successful sign-in or sign-up.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles social sign-in, token refresh, and sign-out. Refresh
// tokens are only valid while their server-side store entry exists.
type AuthService struct {
	users  *UserService
	tokens *auth.TokenProvider
	store  cache.TokenStore
}

// NewAuthService creates an auth service with its dependencies.
func NewAuthService(users *UserService, tokens *auth.TokenProvider, store cache.TokenStore) *AuthService {
	return &AuthService{users: users, tokens: tokens, store: store}
}

// SignIn authenticates a social login pair. An unknown pair yields not
// found, which tells the client to run the sign-up flow instead.
func (s *AuthService) SignIn(ctx context.Context, socialLoginID, authProvider string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindBySocial(socialLoginID, authProvider)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Signup registers the account and signs it in.
func (s *AuthService) Signup(ctx context.Context, input SignupInput) (*models.User, *TokenPair, error) {
	user, err := s.users.Signup(input)
	if err != nil {
		return nil, nil, err
	}

	pair, err := s.issueTokens(ctx, user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated; it stays valid until logout or
// expiry.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if _, err := s.tokens.ParseRefreshUserID(refreshToken); err != nil {
		return "", models.NewUnauthorizedError("invalid refresh token")
	}

	userID, err := s.store.Get(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, cache.ErrTokenNotFound) {
			return "", models.NewUnauthorizedError("refresh token is not recognized")
		}
		return "", models.NewInternalError(err)
	}

	// The account may have been deleted while the session was idle.
	if _, err := s.users.FindByID(userID); err != nil {
		return "", models.NewUnauthorizedError("account no longer exists")
	}

	accessToken, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return "", models.NewInternalError(err)
	}
	return accessToken, nil
}

// Logout invalidates the refresh token. Unknown tokens are a no-op so
// logout is idempotent.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.store.Delete(ctx, refreshToken); err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// Signout invalidates the session and deletes the account with everything
// it owns.
func (s *AuthService) Signout(ctx context.Context, userID uint, refreshToken string) error {
	if err := s.Logout(ctx, refreshToken); err != nil {
		return err
	}
	return s.users.Signout(userID)
}

func (s *AuthService) issueTokens(ctx context.Context, userID uint) (*TokenPair, error) {
	accessToken, err := s.tokens.GenerateAccessToken(userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	refreshToken, err := s.tokens.GenerateRefreshToken(userID)
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if err := s.store.Set(ctx, refreshToken, userID, s.tokens.RefreshTTL()); err != nil {
		return nil, models.NewInternalError(err)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
