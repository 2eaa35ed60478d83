package catalog

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	maxImageSide = 1600
	thumbWidth   = 400
	thumbHeight  = 300
	jpegQuality  = 85
)

// DiskImageStore writes resized JPEGs under dir and serves them from
// urlPrefix (the router mounts dir there).
type DiskImageStore struct {
	dir       string
	urlPrefix string
}

func NewDiskImageStore(dir, urlPrefix string) *DiskImageStore {
	return &DiskImageStore{dir: dir, urlPrefix: strings.TrimRight(urlPrefix, "/")}
}

func (s *DiskImageStore) Save(ctx context.Context, roomID int64, r io.Reader) (string, string, error) {
	img, err := imaging.Decode(r, imaging.AutoOrientation(true))
	if err != nil {
		return "", "", ErrInvalidImage.Wrap(err)
	}
	if err := ctx.Err(); err != nil {
		return "", "", err
	}

	rel := filepath.Join("rooms", fmt.Sprint(roomID))
	if err := os.MkdirAll(filepath.Join(s.dir, rel), 0o755); err != nil {
		return "", "", fmt.Errorf("create image dir: %w", err)
	}

	name := uuid.NewString()
	full := filepath.Join(rel, name+".jpg")
	thumb := filepath.Join(rel, name+"_thumb.jpg")

	if err := imaging.Save(imaging.Fit(img, maxImageSide, maxImageSide, imaging.Lanczos),
		filepath.Join(s.dir, full), imaging.JPEGQuality(jpegQuality)); err != nil {
		return "", "", fmt.Errorf("save image: %w", err)
	}
	if err := imaging.Save(imaging.Thumbnail(img, thumbWidth, thumbHeight, imaging.Lanczos),
		filepath.Join(s.dir, thumb), imaging.JPEGQuality(jpegQuality)); err != nil {
		s.Remove(s.url(full))
		return "", "", fmt.Errorf("save thumbnail: %w", err)
	}
	return s.url(full), s.url(thumb), nil
}

func (s *DiskImageStore) url(rel string) string {
	return s.urlPrefix + "/" + filepath.ToSlash(rel)
}

// Remove deletes files previously returned by Save. URLs outside the store
// are ignored.
func (s *DiskImageStore) Remove(urls ...string) {
	for _, u := range urls {
		rel, ok := strings.CutPrefix(u, s.urlPrefix+"/")
		if !ok || rel == "" || strings.Contains(rel, "..") {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, filepath.FromSlash(rel))); err != nil && !os.IsNotExist(err) {
			log.Warn().Err(err).Str("url", u).Msg("remove image")
		}
	}
}
