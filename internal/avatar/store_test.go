package avatar

import (
	"bytes"
	"encoding/base64"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "/static/avatars/")
	require.NoError(t, err)
	return store
}

func pngPayload(t *testing.T) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 4, 4))
	for x := 0; x < 4; x++ {
		for y := 0; y < 4; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 60), G: uint8(y * 60), A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return base64.StdEncoding.EncodeToString(buf.Bytes())
}

func TestSaveStoresWebpFile(t *testing.T) {
	store := newStore(t)

	publicID, err := store.Save(pngPayload(t))
	require.NoError(t, err)
	require.NotEmpty(t, publicID)
	assert.NotEqual(t, DefaultPublicID, publicID)

	_, err = os.Stat(filepath.Join(store.dir, publicID+".webp"))
	assert.NoError(t, err)
}

func TestSaveAcceptsDataURLPrefix(t *testing.T) {
	store := newStore(t)

	_, err := store.Save("data:image/png;base64," + pngPayload(t))
	assert.NoError(t, err)
}

func TestSaveRejectsBadInput(t *testing.T) {
	store := newStore(t)

	_, err := store.Save("not base64 at all!!!")
	assert.Error(t, err)

	_, err = store.Save(base64.StdEncoding.EncodeToString([]byte("plain text")))
	assert.Error(t, err)

	_, err = store.Save("")
	assert.Error(t, err)
}

func TestDeleteIgnoresDefaultAndMissing(t *testing.T) {
	store := newStore(t)

	assert.NoError(t, store.Delete(DefaultPublicID))
	assert.NoError(t, store.Delete(""))
	assert.NoError(t, store.Delete("never-stored"))
}

func TestDeleteRemovesStoredFile(t *testing.T) {
	store := newStore(t)

	publicID, err := store.Save(pngPayload(t))
	require.NoError(t, err)

	require.NoError(t, store.Delete(publicID))
	_, err = os.Stat(filepath.Join(store.dir, publicID+".webp"))
	assert.True(t, os.IsNotExist(err))
}

func TestURL(t *testing.T) {
	store := newStore(t)

	assert.Equal(t, "/static/avatars/abc.webp", store.URL("abc"))
	assert.Equal(t, "/static/avatars/default.webp", store.URL(""))
}
