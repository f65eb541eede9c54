package filestorage

import (
	"bytes"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	part, err := w.CreateFormFile("file", filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/", body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))
	return req.MultipartForm.File["file"][0]
}

func TestSaveAndDeleteInSubdirectory(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "")
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(newFileHeader(t, "Grades.PDF", []byte("grades")), "scholars/42")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "uploads/scholars/42/"))
	assert.True(t, strings.HasSuffix(url, ".pdf"))

	full := ls.GetFullPath(url)
	assert.Equal(t, filepath.Join(base, "scholars", "42", filepath.Base(url)), full)
	data, err := os.ReadFile(full)
	require.NoError(t, err)
	assert.Equal(t, "grades", string(data))

	require.NoError(t, ls.DeleteFile(url))
	_, err = os.Stat(full)
	assert.True(t, os.IsNotExist(err))

	// second delete is a no-op
	assert.NoError(t, ls.DeleteFile(url))
}

func TestSaveWithBaseURL(t *testing.T) {
	base := t.TempDir()
	ls, err := NewLocalStorage(base, "http://files.local/uploads/")
	require.NoError(t, err)

	url, err := ls.SaveFileWithPath(newFileHeader(t, "id.jpg", []byte("x")), "claims")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://files.local/uploads/claims/"))
	assert.FileExists(t, ls.GetFullPath(url))
}

func TestGetFullPathStaysInsideBase(t *testing.T) {
	ls := &LocalStorage{basePath: "/srv/files"}
	assert.Equal(t, filepath.Join("/srv/files", "etc", "passwd"), ls.GetFullPath("uploads/../../etc/passwd"))
	assert.Equal(t, "", ls.GetFullPath("uploads/"))
	assert.Error(t, ls.DeleteFile(""))
}
