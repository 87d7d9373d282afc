// Package avatar stores user profile images. Uploads arrive as base64
// payloads, are decoded and re-encoded to WebP, and are addressed by an
// opaque public ID. The sentinel ID "default" refers to the shared stock
// image and is never written or deleted.
package avatar

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/gif"  // register decoders for common upload formats
	_ "image/jpeg" //
	_ "image/png"  //
	"os"
	"path/filepath"
	"strings"

	"github.com/chai2010/webp"
	"github.com/google/uuid"
	_ "golang.org/x/image/webp" // register WebP decoder
)

const (
	// DefaultPublicID mirrors models.DefaultPublicID without importing it;
	// the store is deliberately model-agnostic.
	DefaultPublicID = "default"

	webpQuality = 80

	maxPayloadBytes = 10 * 1024 * 1024
)

// Store persists profile images and resolves their public URLs.
type Store interface {
	// Save decodes a base64 image payload and returns the new public ID.
	Save(payload string) (string, error)
	// Delete removes a stored image. Deleting the default ID is a no-op.
	Delete(publicID string) error
	// URL resolves a public ID to the URL clients can fetch.
	URL(publicID string) string
}

// LocalStore keeps WebP files under a directory served as static content.
type LocalStore struct {
	dir     string
	baseURL string
}

// NewLocalStore creates the directory if needed and returns the store.
func NewLocalStore(dir, baseURL string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create avatar dir: %w", err)
	}
	return &LocalStore{dir: dir, baseURL: strings.TrimSuffix(baseURL, "/")}, nil
}

func (s *LocalStore) Save(payload string) (string, error) {
	// Tolerate data-URL prefixes from browser clients.
	if idx := strings.Index(payload, ","); idx != -1 && strings.HasPrefix(payload, "data:") {
		payload = payload[idx+1:]
	}

	raw, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return "", fmt.Errorf("decode avatar payload: %w", err)
	}
	if len(raw) == 0 {
		return "", fmt.Errorf("empty avatar payload")
	}
	if len(raw) > maxPayloadBytes {
		return "", fmt.Errorf("avatar payload too large (max %d bytes)", maxPayloadBytes)
	}

	img, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return "", fmt.Errorf("decode avatar image: %w", err)
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, img, &webp.Options{Quality: webpQuality}); err != nil {
		return "", fmt.Errorf("encode avatar webp: %w", err)
	}

	publicID := uuid.New().String()
	if err := os.WriteFile(s.path(publicID), buf.Bytes(), 0o644); err != nil {
		return "", fmt.Errorf("write avatar file: %w", err)
	}
	return publicID, nil
}

func (s *LocalStore) Delete(publicID string) error {
	if publicID == "" || publicID == DefaultPublicID {
		return nil
	}
	if err := os.Remove(s.path(publicID)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove avatar file: %w", err)
	}
	return nil
}

func (s *LocalStore) URL(publicID string) string {
	if publicID == "" {
		publicID = DefaultPublicID
	}
	return s.baseURL + "/" + publicID + ".webp"
}

func (s *LocalStore) path(publicID string) string {
	return filepath.Join(s.dir, publicID+".webp")
}
