// Package auth issues and validates the JWT access/refresh token pair used
// by the API.
package auth

import (
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	// Issuer is the iss claim stamped on every token.
	Issuer = "lets-api"
	// Audience is the aud claim stamped on every token.
	Audience = "lets-client"

	tokenKindAccess  = "access"
	tokenKindRefresh = "refresh"
)

// TokenProvider signs and parses HS256 tokens.
type TokenProvider struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewTokenProvider returns a provider signing with the given secret.
func NewTokenProvider(secret string, accessTTL, refreshTTL time.Duration) *TokenProvider {
	return &TokenProvider{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// RefreshTTL returns the configured refresh token lifetime; the store entry
// expires together with the token itself.
func (p *TokenProvider) RefreshTTL() time.Duration {
	return p.refreshTTL
}

// GenerateAccessToken creates a short-lived bearer token for the user.
func (p *TokenProvider) GenerateAccessToken(userID uint) (string, error) {
	return p.generate(userID, tokenKindAccess, p.accessTTL)
}

// GenerateRefreshToken creates the long-lived token stored server-side.
func (p *TokenProvider) GenerateRefreshToken(userID uint) (string, error) {
	return p.generate(userID, tokenKindRefresh, p.refreshTTL)
}

func (p *TokenProvider) generate(userID uint, kind string, ttl time.Duration) (string, error) {
	if len(p.secret) == 0 {
		return "", fmt.Errorf("JWT secret not configured")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  strconv.FormatUint(uint64(userID), 10),
		"iss":  Issuer,
		"aud":  Audience,
		"kind": kind,
		"exp":  now.Add(ttl).Unix(),
		"iat":  now.Unix(),
		"nbf":  now.Unix(),
		"jti":  generateJTI(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(p.secret)
}

// generateJTI creates a unique JWT ID to prevent replay attacks.
func generateJTI() string {
	return fmt.Sprintf("%d-%s", time.Now().Unix(), uuid.New().String()[:8])
}

// ParseUserID validates tokenString and returns the user ID it carries.
// kind must match the kind the token was issued with.
func (p *TokenProvider) ParseUserID(tokenString, kind string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %q", token.Method.Alg())
		}
		return p.secret, nil
	},
		jwt.WithIssuer(Issuer),
		jwt.WithAudience(Audience),
	)
	if err != nil || !token.Valid {
		return 0, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, fmt.Errorf("invalid token claims")
	}

	if gotKind, _ := claims["kind"].(string); gotKind != kind {
		return 0, fmt.Errorf("token kind mismatch")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, fmt.Errorf("missing subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid user ID in token: %w", err)
	}
	return uint(userID), nil
}

// ParseAccessUserID validates an access token.
func (p *TokenProvider) ParseAccessUserID(tokenString string) (uint, error) {
	return p.ParseUserID(tokenString, tokenKindAccess)
}

// ParseRefreshUserID validates a refresh token.
func (p *TokenProvider) ParseRefreshUserID(tokenString string) (uint, error) {
	return p.ParseUserID(tokenString, tokenKindRefresh)
}
