package middlewares

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

type captured struct {
	body   any
	raw    []byte
	files  int
	reread string
}

func captureBody(c *captured) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c.body = GetBody(r.Context())
		c.raw = GetRawBody(r.Context())
		c.files = len(GetFiles(r.Context()))
		b, _ := io.ReadAll(r.Body)
		c.reread = string(b)
	})
}

func TestBodyParser_URLEncodedNested(t *testing.T) {
	var c captured
	r := httptest.NewRequest("POST", "/", strings.NewReader("user[name]=bob&tags[]=a&tags[]=b"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	WithBodyParser(BodyConfig{})(captureBody(&c)).ServeHTTP(rec, r)

	require.Equal(t, map[string]any{
		"user": map[string]any{"name": "bob"},
		"tags": []any{"a", "b"},
	}, c.body)
	require.Equal(t, "user[name]=bob&tags[]=a&tags[]=b", c.reread)
}

func TestBodyParser_JSON(t *testing.T) {
	var c captured
	r := httptest.NewRequest("POST", "/", strings.NewReader(`{"username":"admin"}`))
	r.Header.Set("Content-Type", "application/json")
	WithBodyParser(BodyConfig{})(captureBody(&c)).ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, map[string]any{"username": "admin"}, c.body)
	require.Equal(t, `{"username":"admin"}`, string(c.raw))
}

func TestBodyParser_InvalidJSON(t *testing.T) {
	for _, body := range []string{`{"a":`, `"just a string"`} {
		r := httptest.NewRequest("POST", "/", strings.NewReader(body))
		r.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		WithBodyParser(BodyConfig{})(captureBody(&captured{})).ServeHTTP(rec, r)
		require.Equal(t, http.StatusBadRequest, rec.Code, body)
	}
}

func TestBodyParser_TooLarge(t *testing.T) {
	r := httptest.NewRequest("POST", "/", strings.NewReader(strings.Repeat("x", 64)))
	r.Header.Set("Content-Type", "text/plain")
	rec := httptest.NewRecorder()
	WithBodyParser(BodyConfig{MaxBytes: 16})(captureBody(&captured{})).ServeHTTP(rec, r)
	require.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestBodyParser_RawAndText(t *testing.T) {
	var c captured
	r := httptest.NewRequest("POST", "/", bytes.NewReader([]byte{0xde, 0xad}))
	r.Header.Set("Content-Type", "application/octet-stream")
	WithBodyParser(BodyConfig{})(captureBody(&c)).ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, []byte{0xde, 0xad}, c.raw)

	c = captured{}
	r = httptest.NewRequest("POST", "/", strings.NewReader("hola"))
	r.Header.Set("Content-Type", "text/plain; charset=utf-8")
	WithBodyParser(BodyConfig{})(captureBody(&c)).ServeHTTP(httptest.NewRecorder(), r)
	require.Equal(t, "hola", c.body)
}

func TestBodyParser_Multipart(t *testing.T) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	require.NoError(t, mw.WriteField("meta[owner]", "admin"))
	fw, err := mw.CreateFormFile("file", "notes.txt")
	require.NoError(t, err)
	_, _ = fw.Write([]byte("contenido"))
	require.NoError(t, mw.Close())

	var c captured
	r := httptest.NewRequest("POST", "/", &buf)
	r.Header.Set("Content-Type", mw.FormDataContentType())
	WithBodyParser(BodyConfig{})(captureBody(&c)).ServeHTTP(httptest.NewRecorder(), r)

	require.Equal(t, map[string]any{"meta": map[string]any{"owner": "admin"}}, c.body)
	require.Equal(t, 1, c.files)
}

func TestBodyParser_NoBodyPassesThrough(t *testing.T) {
	var c captured
	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("Content-Type", "application/json")
	WithBodyParser(BodyConfig{})(captureBody(&c)).ServeHTTP(httptest.NewRecorder(), r)
	require.Nil(t, c.body)
}
