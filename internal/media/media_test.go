package media

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"six/backend/internal/apperr"
	"six/backend/internal/models"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		contentType string
		want        models.MediaType
		rejected    bool
	}{
		{"image/jpeg", models.MediaImage, false},
		{"image/png", models.MediaImage, false},
		{"image/gif", models.MediaImage, false},
		{"image/webp", models.MediaImage, false},
		{"video/mp4", models.MediaVideo, false},
		{"video/webm", models.MediaVideo, false},
		{"video/quicktime", models.MediaVideo, false},
		{"IMAGE/JPEG", models.MediaImage, false},
		{"application/pdf", "", true},
		{"image/svg+xml", "", true},
		{"text/html", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		mt, err := Classify(tc.contentType)
		if tc.rejected {
			assert.ErrorIs(t, err, apperr.ErrFileBadType, tc.contentType)
		} else {
			assert.NoError(t, err, tc.contentType)
			assert.Equal(t, tc.want, mt)
		}
	}
}

func TestValidateSize(t *testing.T) {
	assert.NoError(t, ValidateSize(MaxFileSize))
	assert.ErrorIs(t, ValidateSize(MaxFileSize+1), apperr.ErrFileTooLarge)
}

func TestPutAndDelete(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/media/")

	url, mt, err := store.Put("room-1", "cat.jpg", "image/jpeg", strings.NewReader("jpeg bytes"), 10)
	assert.NoError(t, err)
	assert.Equal(t, models.MediaImage, mt)
	assert.True(t, strings.HasPrefix(url, "/media/room-1/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	// The blob landed on disk.
	rel := strings.TrimPrefix(url, "/media/")
	_, statErr := os.Stat(filepath.Join(store.Dir(), rel))
	assert.NoError(t, statErr)

	assert.NoError(t, store.Delete(url))
	_, statErr = os.Stat(filepath.Join(store.Dir(), rel))
	assert.True(t, os.IsNotExist(statErr))
}

func TestPutRejectsWithoutWriting(t *testing.T) {
	dir := t.TempDir()
	store := NewDiskStore(dir, "/media")

	_, _, err := store.Put("room-1", "doc.pdf", "application/pdf", strings.NewReader("x"), 1)
	assert.ErrorIs(t, err, apperr.ErrFileBadType)

	_, _, err = store.Put("room-1", "big.mp4", "video/mp4", strings.NewReader("x"), MaxFileSize+1)
	assert.ErrorIs(t, err, apperr.ErrFileTooLarge)

	entries, _ := os.ReadDir(dir)
	assert.Empty(t, entries)
}

func TestPutEnforcesCapOnLyingSize(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/media")

	// Declared 1 byte, actually over the cap.
	huge := strings.NewReader(strings.Repeat("a", MaxFileSize+2))
	_, _, err := store.Put("room-1", "big.webm", "video/webm", huge, 1)
	assert.ErrorIs(t, err, apperr.ErrFileTooLarge)
}

func TestDeleteRejectsForeignURLs(t *testing.T) {
	store := NewDiskStore(t.TempDir(), "/media")

	assert.Error(t, store.Delete("https://elsewhere.example/x.jpg"))
	assert.Error(t, store.Delete("/media/../../etc/passwd"))
}

func TestExtFallback(t *testing.T) {
	assert.Equal(t, ".jpg", ext("photo.JPG"))
	assert.Equal(t, ".bin", ext("noextension"))
	assert.Equal(t, ".bin", ext("weird.superlongextension"))
}
