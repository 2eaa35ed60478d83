package catalog

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := imaging.New(w, h, color.NRGBA{R: 40, G: 120, B: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func openSize(t *testing.T, path string) image.Point {
	t.Helper()
	img, err := imaging.Open(path)
	require.NoError(t, err)
	return img.Bounds().Size()
}

func TestDiskImageStore_SaveResizesAndRemoves(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskImageStore(dir, "/uploads/")

	url, thumb, err := store.Save(context.Background(), 7, bytes.NewReader(pngBytes(t, 2000, 1000)))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "/uploads/rooms/7/"))
	assert.True(t, strings.HasSuffix(thumb, "_thumb.jpg"))

	fullPath := filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))
	thumbPath := filepath.Join(dir, strings.TrimPrefix(thumb, "/uploads/"))
	assert.Equal(t, image.Pt(1600, 800), openSize(t, fullPath))
	assert.Equal(t, image.Pt(thumbWidth, thumbHeight), openSize(t, thumbPath))

	store.Remove(url, thumb, "https://cdn.example.com/x.jpg", "/uploads/../etc/passwd")
	_, err = os.Stat(fullPath)
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(thumbPath)
	assert.True(t, os.IsNotExist(err))
}

func TestDiskImageStore_SmallImagesAreNotUpscaled(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskImageStore(dir, "/uploads")

	url, _, err := store.Save(context.Background(), 1, bytes.NewReader(pngBytes(t, 640, 480)))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(640, 480), openSize(t, filepath.Join(dir, strings.TrimPrefix(url, "/uploads/"))))
}

func TestDiskImageStore_RejectsNonImages(t *testing.T) {
	store := NewDiskImageStore(t.TempDir(), "/uploads")
	_, _, err := store.Save(context.Background(), 1, strings.NewReader("not an image"))
	assert.ErrorIs(t, err, ErrInvalidImage)
}
