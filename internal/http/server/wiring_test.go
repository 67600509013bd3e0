package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dvws-go/dvws/internal/config"
	"github.com/dvws-go/dvws/internal/observability/reqlog"
	"github.com/stretchr/testify/require"
)

func loadTestConfig(t *testing.T) *config.Config {
	t.Helper()
	dir := t.TempDir()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("APP_ENV", "dev")
	t.Setenv("LOG_DIR", filepath.Join(dir, "logs"))
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))
	t.Setenv("PUBLIC_DIR", filepath.Join(dir, "public"))
	t.Setenv("API_DOCS_DIR", filepath.Join(dir, "api-docs"))
	cfg, err := config.Load("")
	require.NoError(t, err)
	return cfg
}

func TestBuild_SeededLoginAndPayloadLog(t *testing.T) {
	cfg := loadTestConfig(t)
	a, cleanup, err := Build(context.Background(), cfg, "test")
	require.NoError(t, err)

	r := httptest.NewRequest("POST", "/api/v2/login", strings.NewReader(`{"username":"admin","password":"letmein"}`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.REST.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"admin":true`)

	// cleanup cierra los archivos de log (flush)
	cleanup()
	b, err := os.ReadFile(filepath.Join(cfg.Logs.Dir, reqlog.FormattedFile))
	require.NoError(t, err)
	require.Contains(t, string(b), `Payload: {"username":"admin","password":"letmein"}`)
}

func TestBuild_PayloadLogOnlyCoversAPI(t *testing.T) {
	cfg := loadTestConfig(t)
	a, cleanup, err := Build(context.Background(), cfg, "test")
	require.NoError(t, err)

	for _, path := range []string{"/nope", "/css/missing.css", "/api/v2/info"} {
		a.REST.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", path, nil))
	}
	r := httptest.NewRequest("POST", "/api/v2/users", strings.NewReader("username=zed&password=pw"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	a.REST.ServeHTTP(httptest.NewRecorder(), r)

	cleanup()
	b, err := os.ReadFile(filepath.Join(cfg.Logs.Dir, reqlog.FormattedFile))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	require.Len(t, lines, 2)
	// urlencoded: claves ordenadas
	require.Contains(t, lines[1], `Payload: {"password":"pw","username":"zed"}`)
}

func TestBuild_GraphQLListener(t *testing.T) {
	cfg := loadTestConfig(t)
	a, cleanup, err := Build(context.Background(), cfg, "test")
	require.NoError(t, err)
	defer cleanup()

	r := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{"query":"{ userSearch(username: \"test\") { username } }"}`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.GraphQL.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"username":"test"`)
}

func TestBuild_LogoutRevokesGraphQLIdentity(t *testing.T) {
	cfg := loadTestConfig(t)
	a, cleanup, err := Build(context.Background(), cfg, "test")
	require.NoError(t, err)
	defer cleanup()

	r := httptest.NewRequest("POST", "/api/v2/login", strings.NewReader(`{"username":"admin","password":"letmein"}`))
	r.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.REST.ServeHTTP(rec, r)
	require.Equal(t, http.StatusOK, rec.Code)
	var login struct {
		Token string `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &login))
	require.NotEmpty(t, login.Token)

	me := func() string {
		r := httptest.NewRequest("POST", "/graphql", strings.NewReader(`{"query":"{ me { username admin } }"}`))
		r.Header.Set("Content-Type", "application/json")
		r.Header.Set("Authorization", "Bearer "+login.Token)
		rec := httptest.NewRecorder()
		a.GraphQL.ServeHTTP(rec, r)
		require.Equal(t, http.StatusOK, rec.Code)
		return rec.Body.String()
	}
	require.Contains(t, me(), `"username":"admin"`)

	r = httptest.NewRequest("POST", "/api/v2/logout", nil)
	r.Header.Set("Authorization", "Bearer "+login.Token)
	rec = httptest.NewRecorder()
	a.REST.ServeHTTP(rec, r)
	require.Equal(t, http.StatusNoContent, rec.Code)

	require.JSONEq(t, `{"data":{"me":null}}`, me())
}

func TestNewIssuer_AllowNone(t *testing.T) {
	cfg := loadTestConfig(t)
	require.True(t, NewIssuer(cfg).AllowNone)
	cfg.JWT.AllowNone = false
	require.Equal(t, []string{"HS256"}, NewIssuer(cfg).Algorithms())
}

func TestStaticMounts_Order(t *testing.T) {
	cfg := loadTestConfig(t)
	cfg.Server.AssetDirs = map[string][]string{
		"/js":  {"a", "b"},
		"/css": {"c"},
	}
	got := staticMounts(cfg)
	require.Len(t, got, 4)
	require.Equal(t, "/", got[0].Prefix)
	require.Equal(t, "/css", got[1].Prefix)
	require.Equal(t, []string{"a", "b"}, []string{got[2].Dir, got[3].Dir})
}
