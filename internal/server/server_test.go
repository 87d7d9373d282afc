package server_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lets/internal/config"
	"lets/internal/server"
	"lets/internal/testutil"
)

func newTestServer(t *testing.T) *server.Server {
	t.Helper()
	t.Setenv("APP_ENV", "test")

	cfg := &config.Config{
		JWTSecret:       "test-secret",
		Port:            "0",
		Env:             "test",
		AllowedOrigins:  "http://localhost",
		AvatarDir:       t.TempDir(),
		AvatarBaseURL:   "/static/avatars",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 14 * 24 * time.Hour,
	}

	db := testutil.NewTestDB(t)
	rdb := testutil.NewTestRedis(t)
	return server.NewServerWithDeps(cfg, db, rdb, &testutil.FakeAvatarStore{})
}

type request struct {
	method string
	path   string
	body   any
	token  string
	cookie *http.Cookie
}

func do(t *testing.T, s *server.Server, req request) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if req.body != nil {
		payload, err := json.Marshal(req.body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	httpReq := httptest.NewRequest(req.method, req.path, reader)
	if req.body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
	if req.token != "" {
		httpReq.Header.Set("Authorization", "Bearer "+req.token)
	}
	if req.cookie != nil {
		httpReq.AddCookie(req.cookie)
	}

	resp, err := s.App.Test(httpReq, -1)
	require.NoError(t, err)

	var parsed map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &parsed)
	}
	return resp, parsed
}

// signup registers a user and returns the access token and refresh cookie.
func signup(t *testing.T, s *server.Server, nickname string) (string, *http.Cookie) {
	t.Helper()

	resp, body := do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/signup",
		body: map[string]any{
			"nickname":        nickname,
			"social_login_id": "social-" + nickname,
			"auth_provider":   "google",
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	token, _ := body["access_token"].(string)
	require.NotEmpty(t, token)

	for _, cookie := range resp.Cookies() {
		if cookie.Name == "refresh_token" {
			return token, cookie
		}
	}
	t.Fatal("refresh cookie not set on signup")
	return "", nil
}

func createPost(t *testing.T, s *server.Server, token string, tags ...string) uint {
	t.Helper()
	resp, body := do(t, s, request{
		method: http.MethodPost,
		path:   "/api/posts/",
		token:  token,
		body: map[string]any{
			"title":   "a project",
			"content": "looking for teammates",
			"tags":    tags,
		},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	id, ok := body["id"].(float64)
	require.True(t, ok)
	return uint(id)
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(t)

	resp, body := do(t, s, request{method: http.MethodGet, path: "/health"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ok", body["status"])
}

func TestSignupConflictsAndSignIn(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "first")

	// Same social account again.
	resp, _ := do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/signup",
		body: map[string]any{
			"nickname":        "someone-else",
			"social_login_id": "social-first",
			"auth_provider":   "google",
		},
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, body := do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/signin",
		body: map[string]any{
			"social_login_id": "social-first",
			"auth_provider":   "google",
		},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])

	// Unknown account routes the client to sign-up.
	resp, _ = do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/signin",
		body: map[string]any{
			"social_login_id": "social-nobody",
			"auth_provider":   "google",
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSilentRefreshFlow(t *testing.T) {
	s := newTestServer(t)
	token, cookie := signup(t, s, "refresher")

	// Without the cookie the request is malformed.
	resp, _ := do(t, s, request{method: http.MethodPost, path: "/api/auth/silent-refresh"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, body := do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/silent-refresh",
		cookie: cookie,
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotEmpty(t, body["access_token"])

	// A tampered cookie is unauthorized.
	resp, _ = do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/silent-refresh",
		cookie: &http.Cookie{Name: "refresh_token", Value: "forged"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	// Logout revokes the refresh token.
	resp, _ = do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/logout",
		token:  token,
		cookie: cookie,
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/silent-refresh",
		cookie: cookie,
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestNicknameExists(t *testing.T) {
	s := newTestServer(t)
	signup(t, s, "taken")

	resp, body := do(t, s, request{method: http.MethodGet, path: "/api/auth/exists?nickname=free"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["available"])

	resp, _ = do(t, s, request{method: http.MethodGet, path: "/api/auth/exists?nickname=taken"})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, _ = do(t, s, request{method: http.MethodGet, path: "/api/auth/exists"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestPostCRUDRequiresAuth(t *testing.T) {
	s := newTestServer(t)

	resp, _ := do(t, s, request{
		method: http.MethodPost,
		path:   "/api/posts/",
		body:   map[string]any{"title": "x", "content": "y"},
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPostLifecycle(t *testing.T) {
	s := newTestServer(t)
	authorToken, _ := signup(t, s, "author")
	viewerToken, _ := signup(t, s, "viewer")

	postID := createPost(t, s, authorToken, "go", "redis")

	// Anonymous read works and has no view side effect.
	resp, body := do(t, s, request{method: http.MethodGet, path: fmt.Sprintf("/api/posts/%d", postID)})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 0, body["view_count"])

	// Authenticated read creates the seen-marker and counts once.
	resp, body = do(t, s, request{method: http.MethodGet, path: fmt.Sprintf("/api/posts/%d", postID), token: viewerToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["view_count"])

	resp, body = do(t, s, request{method: http.MethodGet, path: fmt.Sprintf("/api/posts/%d", postID), token: viewerToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.EqualValues(t, 1, body["view_count"])

	// Like after viewing.
	resp, body = do(t, s, request{method: http.MethodPost, path: fmt.Sprintf("/api/posts/%d/likes", postID), token: viewerToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ACTIVE", body["status"])

	// The author never viewed their own post through GetPost, so liking
	// fails with not found.
	resp, _ = do(t, s, request{method: http.MethodPost, path: fmt.Sprintf("/api/posts/%d/likes", postID), token: authorToken})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// Status toggle is author-only.
	resp, _ = do(t, s, request{method: http.MethodPost, path: fmt.Sprintf("/api/posts/%d/status", postID), token: viewerToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = do(t, s, request{method: http.MethodPost, path: fmt.Sprintf("/api/posts/%d/status", postID), token: authorToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "COMPLETE", body["status"])

	// Update is author-only.
	update := map[string]any{"title": "new", "content": "new content", "tags": []string{"java"}}
	resp, _ = do(t, s, request{method: http.MethodPut, path: fmt.Sprintf("/api/posts/%d", postID), token: viewerToken, body: update})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, body = do(t, s, request{method: http.MethodPut, path: fmt.Sprintf("/api/posts/%d", postID), token: authorToken, body: update})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "new", body["title"])

	// Delete.
	resp, _ = do(t, s, request{method: http.MethodDelete, path: fmt.Sprintf("/api/posts/%d", postID), token: authorToken})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, s, request{method: http.MethodGet, path: fmt.Sprintf("/api/posts/%d", postID)})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostFilter(t *testing.T) {
	s := newTestServer(t)
	token, _ := signup(t, s, "author")

	goPost := createPost(t, s, token, "go")
	createPost(t, s, token, "java")

	resp, body := do(t, s, request{method: http.MethodGet, path: "/api/posts/filter?tags=go&status=RECRUITING"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	posts, ok := body["posts"].([]any)
	require.True(t, ok)
	require.Len(t, posts, 1)
	first := posts[0].(map[string]any)
	assert.EqualValues(t, goPost, first["id"])

	resp, _ = do(t, s, request{method: http.MethodGet, path: "/api/posts/filter?status=NOPE"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCommentFlow(t *testing.T) {
	s := newTestServer(t)
	authorToken, _ := signup(t, s, "author")
	otherToken, _ := signup(t, s, "other")
	postID := createPost(t, s, authorToken)

	resp, body := do(t, s, request{
		method: http.MethodPost,
		path:   fmt.Sprintf("/api/posts/%d/comments", postID),
		token:  otherToken,
		body:   map[string]any{"content": "count me in"},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	commentID := uint(body["id"].(float64))

	resp, body = do(t, s, request{method: http.MethodGet, path: fmt.Sprintf("/api/posts/%d/comments", postID)})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	comments := body["comments"].([]any)
	assert.Len(t, comments, 1)

	// Only the comment author may delete it.
	resp, _ = do(t, s, request{method: http.MethodDelete, path: fmt.Sprintf("/api/posts/%d/comments/%d", postID, commentID), token: authorToken})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, s, request{method: http.MethodDelete, path: fmt.Sprintf("/api/posts/%d/comments/%d", postID, commentID), token: otherToken})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestRecommendEndpoint(t *testing.T) {
	s := newTestServer(t)
	token, _ := signup(t, s, "author")

	source := createPost(t, s, token, "go")
	createPost(t, s, token, "go")
	createPost(t, s, token, "java")

	resp, body := do(t, s, request{method: http.MethodGet, path: fmt.Sprintf("/api/posts/%d/recommends?tags=go", source)})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	posts := body["posts"].([]any)
	assert.Len(t, posts, 1)
}

func TestUserSettingsEndpoints(t *testing.T) {
	s := newTestServer(t)
	token, _ := signup(t, s, "owner")

	resp, body := do(t, s, request{method: http.MethodGet, path: "/api/users/me/settings", token: token})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "owner", body["nickname"])

	resp, body = do(t, s, request{
		method: http.MethodPut,
		path:   "/api/users/me/settings",
		token:  token,
		body:   map[string]any{"nickname": "renamed", "tags": []string{"go"}},
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "renamed", body["nickname"])
}

func TestMyPosts(t *testing.T) {
	s := newTestServer(t)
	mineToken, _ := signup(t, s, "mine")
	otherToken, _ := signup(t, s, "other")

	createPost(t, s, mineToken)
	createPost(t, s, otherToken)

	resp, body := do(t, s, request{method: http.MethodGet, path: "/api/users/me/posts", token: mineToken})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	posts := body["posts"].([]any)
	assert.Len(t, posts, 1)
}

func TestSignoutDeletesAccount(t *testing.T) {
	s := newTestServer(t)
	token, cookie := signup(t, s, "leaver")
	createPost(t, s, token)

	resp, _ := do(t, s, request{method: http.MethodPost, path: "/api/auth/signout", token: token, cookie: cookie})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// The account is gone, so signing in again fails.
	resp, _ = do(t, s, request{
		method: http.MethodPost,
		path:   "/api/auth/signin",
		body: map[string]any{
			"social_login_id": "social-leaver",
			"auth_provider":   "google",
		},
	})
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestTagsEndpoint(t *testing.T) {
	s := newTestServer(t)
	token, _ := signup(t, s, "author")
	createPost(t, s, token, "go", "redis")

	resp, body := do(t, s, request{method: http.MethodGet, path: "/api/tags"})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	tags := body["tags"].([]any)
	assert.ElementsMatch(t, []any{"go", "redis"}, tags)
}
