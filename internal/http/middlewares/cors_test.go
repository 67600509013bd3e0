package middlewares

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWithCORS_ReflectsOrigin(t *testing.T) {
	called := false
	h := WithCORS(CORSConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest("GET", "/api/v2/info", nil)
	r.Header.Set("Origin", "http://evil.example")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	require.True(t, called)
	require.Equal(t, "http://evil.example", rec.Header().Get("Access-Control-Allow-Origin"))
	require.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestWithCORS_Preflight(t *testing.T) {
	called := false
	h := WithCORS(CORSConfig{})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	r := httptest.NewRequest("OPTIONS", "/api/v2/login", nil)
	r.Header.Set("Origin", "http://a.example")
	r.Header.Set("Access-Control-Request-Headers", "authorization,content-type")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	require.False(t, called)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "authorization,content-type", rec.Header().Get("Access-Control-Allow-Headers"))
	require.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestWithCORS_NoOriginHeader(t *testing.T) {
	h := WithCORS(CORSConfig{})(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}
