package media

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyImage(t *testing.T) {
	assert.Equal(t, ImageNone, ClassifyImage(""))
	assert.Equal(t, ImageNone, ClassifyImage("   "))
	assert.Equal(t, ImageRemote, ClassifyImage("https://via.placeholder.com/300x400?text=Movie"))
	assert.Equal(t, ImageRemote, ClassifyImage("HTTP://example.com/a.jpg"))
	assert.Equal(t, ImageLocal, ClassifyImage("assets/imagens/alita.jpg"))
	assert.Equal(t, ImageLocal, ClassifyImage("file:///data/poster.png"))
}

func TestGetContentType(t *testing.T) {
	assert.Equal(t, "image/jpeg", GetContentType("a.JPG"))
	assert.Equal(t, "image/png", GetContentType("dir/b.png"))
	assert.Equal(t, "application/octet-stream", GetContentType("c.txt"))
	assert.True(t, IsSupportedImage("poster.webp"))
	assert.False(t, IsSupportedImage("movie.mkv"))
}

func TestAssetResolver(t *testing.T) {
	root := t.TempDir()
	r, err := NewAssetResolver(root)
	require.NoError(t, err)

	path, err := r.Resolve("assets/imagens/stranger.jpg")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(r.Root(), "assets", "imagens", "stranger.jpg"), path)

	inside := filepath.Join(r.Root(), "picked", "poster.png")
	path, err = r.Resolve("file://" + filepath.ToSlash(inside))
	require.NoError(t, err)
	assert.Equal(t, inside, path)

	_, err = r.Resolve("../secret.jpg")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = r.Resolve("assets/../../secret.jpg")
	assert.ErrorIs(t, err, ErrOutsideRoot)

	_, err = r.Resolve("/etc/passwd")
	assert.Error(t, err)

	_, err = r.Resolve("assets/notes.txt")
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}
