// Package media validates uploads and stores blobs on local disk, serving
// them back under a public URL prefix. Validation runs before any byte is
// written; a rejected upload never touches storage.
package media

import (
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"six/backend/internal/apperr"
	"six/backend/internal/models"
)

// MaxFileSize is the upload cap.
const MaxFileSize = 10 << 20 // 10 MiB

// allowedTypes maps accepted content types to their media category.
var allowedTypes = map[string]models.MediaType{
	"image/jpeg":      models.MediaImage,
	"image/png":       models.MediaImage,
	"image/gif":       models.MediaImage,
	"image/webp":      models.MediaImage,
	"video/mp4":       models.MediaVideo,
	"video/webm":      models.MediaVideo,
	"video/quicktime": models.MediaVideo,
}

// Classify maps a content type to image/video, rejecting everything else.
func Classify(contentType string) (models.MediaType, error) {
	if mt, ok := allowedTypes[strings.ToLower(contentType)]; ok {
		return mt, nil
	}
	return "", apperr.ErrFileBadType
}

// ValidateSize rejects blobs over the cap. A negative size means the caller
// does not know it yet; Put still enforces the cap while copying.
func ValidateSize(size int64) error {
	if size > MaxFileSize {
		return apperr.ErrFileTooLarge
	}
	return nil
}

// DiskStore is the blob store collaborator backed by a local directory.
type DiskStore struct {
	dir     string
	baseURL string
}

func NewDiskStore(dir, baseURL string) *DiskStore {
	return &DiskStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

// Dir returns the backing directory, for static file serving.
func (s *DiskStore) Dir() string { return s.dir }

// Put validates and stores one blob for a room, returning its public URL
// and media category.
func (s *DiskStore) Put(roomID, filename, contentType string, r io.Reader, size int64) (string, models.MediaType, error) {
	mt, err := Classify(contentType)
	if err != nil {
		return "", "", err
	}
	if err := ValidateSize(size); err != nil {
		return "", "", err
	}

	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), ext(filename))
	roomDir := filepath.Join(s.dir, filepath.Base(roomID))
	if err := os.MkdirAll(roomDir, 0o750); err != nil {
		return "", "", apperr.Internal("failed to prepare media directory", err)
	}

	dst := filepath.Join(roomDir, name)
	f, err := os.Create(dst)
	if err != nil {
		return "", "", apperr.Internal("failed to create media file", err)
	}
	defer f.Close()

	// The cap holds even when the declared size lied: stop one byte past
	// the limit and reject.
	written, err := io.Copy(f, io.LimitReader(r, MaxFileSize+1))
	if err != nil {
		_ = os.Remove(dst)
		return "", "", apperr.Internal("failed to write media file", err)
	}
	if written > MaxFileSize {
		_ = os.Remove(dst)
		return "", "", apperr.ErrFileTooLarge
	}

	url := s.baseURL + "/" + path.Join(filepath.Base(roomID), name)
	log.Info().Str("room_id", roomID).Str("url", url).Int64("bytes", written).Msg("media stored")
	return url, mt, nil
}

// Delete removes a blob by its public URL. URLs outside the store's prefix
// are rejected.
func (s *DiskStore) Delete(url string) error {
	rel, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return apperr.InvalidArg("url is not served by this media store")
	}
	rel = filepath.Clean(rel)
	if rel == "." || strings.HasPrefix(rel, "..") || filepath.IsAbs(rel) {
		return apperr.InvalidArg("url is not served by this media store")
	}
	if err := os.Remove(filepath.Join(s.dir, rel)); err != nil {
		if os.IsNotExist(err) {
			return apperr.NotFound("no such blob")
		}
		return apperr.Internal("failed to delete media file", err)
	}
	return nil
}

func ext(filename string) string {
	e := strings.ToLower(filepath.Ext(filepath.Base(filename)))
	if e == "" || len(e) > 8 {
		return ".bin"
	}
	return e
}
