package storage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func multipartFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image1", filename)
	assert.NoError(t, err)
	_, err = part.Write(content)
	assert.NoError(t, err)
	assert.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	assert.NoError(t, req.ParseMultipartForm(32<<20))

	return req.MultipartForm.File["image1"][0]
}

func TestSave_RenamesAndKeepsExtension(t *testing.T) {
	dir := t.TempDir()
	store, err := NewUploadStore(dir, "/static/uploads")
	assert.NoError(t, err)

	fh := multipartFileHeader(t, "../../evil name.JPG", []byte("fake image data"))

	url, err := store.Save(fh)
	assert.NoError(t, err)

	// 元のファイル名は残らない
	assert.True(t, strings.HasPrefix(url, "/static/uploads/"))
	assert.NotContains(t, url, "evil")
	assert.True(t, strings.HasSuffix(url, ".JPG"))

	saved, err := os.ReadFile(filepath.Join(dir, filepath.Base(url)))
	assert.NoError(t, err)
	assert.Equal(t, []byte("fake image data"), saved)
}

func TestSave_UniqueNamesForSameFile(t *testing.T) {
	store, err := NewUploadStore(t.TempDir(), "/static/uploads")
	assert.NoError(t, err)

	fh := multipartFileHeader(t, "photo.png", []byte("data"))

	url1, err := store.Save(fh)
	assert.NoError(t, err)
	url2, err := store.Save(fh)
	assert.NoError(t, err)

	assert.NotEqual(t, url1, url2)
}

func TestNewUploadStore_CreatesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "uploads")

	_, err := NewUploadStore(dir, "/static/uploads")
	assert.NoError(t, err)

	info, err := os.Stat(dir)
	assert.NoError(t, err)
	assert.True(t, info.IsDir())
}
