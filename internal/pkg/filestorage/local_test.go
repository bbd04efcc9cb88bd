package filestorage

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uploadFileHeader(t *testing.T, name, content string) *multipart.FileHeader {
	t.Helper()

	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write([]byte(content))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(32<<20))
	return req.MultipartForm.File["file"][0]
}

func newLocalStorageForTest(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	dir := t.TempDir()
	ls, err := NewLocalStorage(dir, "http://localhost:8080/uploads")
	require.NoError(t, err)
	return ls, dir
}

func TestLocalStorageSaveFileWithPath(t *testing.T) {
	ls, dir := newLocalStorageForTest(t)

	url, err := ls.SaveFileWithPath(uploadFileHeader(t, "notes.pdf", "content"), "notes/3")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(url, "http://localhost:8080/uploads/notes/3/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"), "generated name keeps the extension")

	entries, err := os.ReadDir(filepath.Join(dir, "notes", "3"))
	require.NoError(t, err)
	require.Len(t, entries, 1)

	stored, err := os.ReadFile(filepath.Join(dir, "notes", "3", entries[0].Name()))
	require.NoError(t, err)
	assert.Equal(t, "content", string(stored))
}

func TestLocalStorageSaveFileWithPathUniqueNames(t *testing.T) {
	ls, _ := newLocalStorageForTest(t)

	first, err := ls.SaveFileWithPath(uploadFileHeader(t, "notes.pdf", "a"), "notes/3")
	require.NoError(t, err)
	second, err := ls.SaveFileWithPath(uploadFileHeader(t, "notes.pdf", "b"), "notes/3")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestLocalStorageSaveFileAsOverwrites(t *testing.T) {
	ls, dir := newLocalStorageForTest(t)

	url, err := ls.SaveFileAs(uploadFileHeader(t, "me.png", "old"), "avatars/3", "avatar.png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/avatars/3/avatar.png", url)

	again, err := ls.SaveFileAs(uploadFileHeader(t, "other.png", "new"), "avatars/3", "avatar.png")
	require.NoError(t, err)
	assert.Equal(t, url, again)

	stored, err := os.ReadFile(filepath.Join(dir, "avatars", "3", "avatar.png"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(stored))
}

func TestLocalStorageSignedURLIsIdentity(t *testing.T) {
	ls, _ := newLocalStorageForTest(t)

	url, err := ls.SignedURL(context.Background(), "http://localhost:8080/uploads/notes/3/x.pdf", 15*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/uploads/notes/3/x.pdf", url)
}

func TestLocalStorageDeleteFile(t *testing.T) {
	ls, dir := newLocalStorageForTest(t)

	url, err := ls.SaveFileAs(uploadFileHeader(t, "me.png", "data"), "avatars/3", "avatar.png")
	require.NoError(t, err)

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(filepath.Join(dir, "avatars", "3", "avatar.png"))
	assert.True(t, os.IsNotExist(err))

	// Deleting again is not an error.
	assert.NoError(t, ls.DeleteFile(url))
}

func TestLocalStorageDeleteFileRejectsTraversal(t *testing.T) {
	ls, _ := newLocalStorageForTest(t)

	err := ls.DeleteFile("http://localhost:8080/uploads/../secrets")
	assert.Error(t, err)
}
