package upload

import (
	"bytes"
	"context"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// fileHeader arma un *multipart.FileHeader real pasando por ParseMultipartForm.
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	r := httptest.NewRequest("POST", "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, r.ParseMultipartForm(1<<20))
	return r.MultipartForm.File["file"][0]
}

func TestSave(t *testing.T) {
	dir := t.TempDir()
	s := NewUploadService(Deps{Dir: dir})

	res, err := s.Save(context.Background(), fileHeader(t, "notes.txt", []byte("hola")))
	require.NoError(t, err)
	require.Equal(t, "notes.txt", res.Filename)
	require.EqualValues(t, 4, res.Size)

	b, err := os.ReadFile(filepath.Join(dir, "notes.txt"))
	require.NoError(t, err)
	require.Equal(t, "hola", string(b))
}

func TestSave_TooLarge(t *testing.T) {
	s := NewUploadService(Deps{Dir: t.TempDir(), MaxBytes: 2})
	_, err := s.Save(context.Background(), fileHeader(t, "big.bin", []byte("12345")))
	require.ErrorIs(t, err, ErrTooLarge)
}

func TestSanitizeName(t *testing.T) {
	cases := map[string]string{
		"notes.txt":             "notes.txt",
		"../../etc/passwd":      "passwd",
		`..\..\windows\win.ini`: "win.ini",
		"/abs/path/x.png":       "x.png",
		"..":                    "",
		"":                      "",
	}
	for in, want := range cases {
		require.Equal(t, want, SanitizeName(in), in)
	}
}
