package upload

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 64)...)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["image"][0]
}

func TestSaveImage(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 1<<20)
	require.NoError(t, err)

	path, err := s.Save(fileHeader(t, "photo.php", pngBytes), "product")
	require.NoError(t, err)
	assert.Regexp(t, regexp.MustCompile(`^uploads/product_[0-9a-f-]{36}\.png$`), path)

	stored, err := os.ReadFile(filepath.Join(dir, strings.TrimPrefix(path, "uploads/")))
	require.NoError(t, err)
	assert.Equal(t, pngBytes, stored)
}

func TestSaveNamesAreUnique(t *testing.T) {
	s, err := NewStore(t.TempDir(), 1<<20)
	require.NoError(t, err)

	a, err := s.Save(fileHeader(t, "a.png", pngBytes), "receipt")
	require.NoError(t, err)
	b, err := s.Save(fileHeader(t, "a.png", pngBytes), "receipt")
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestSaveRejectsNonImages(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 1<<20)
	require.NoError(t, err)

	_, err = s.Save(fileHeader(t, "receipt.png", []byte("%PDF-1.7 not an image")), "receipt")
	assert.ErrorIs(t, err, ErrNotImage)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestSaveRejectsLargeFiles(t *testing.T) {
	s, err := NewStore(t.TempDir(), 32)
	require.NoError(t, err)

	_, err = s.Save(fileHeader(t, "big.png", pngBytes), "product")
	assert.ErrorIs(t, err, ErrTooLarge)
}

func TestRemove(t *testing.T) {
	dir := t.TempDir()
	s, err := NewStore(dir, 1<<20)
	require.NoError(t, err)

	path, err := s.Save(fileHeader(t, "a.png", pngBytes), "receipt")
	require.NoError(t, err)
	require.NoError(t, s.Remove(path))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)

	assert.Error(t, s.Remove("uploads/../config.go"))
	assert.Error(t, s.Remove("/etc/passwd"))
}
