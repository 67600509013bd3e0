package middlewares

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/observability/reqlog"
	"github.com/dvws-go/dvws/internal/rate"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func ok() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
}

func TestChain_Order(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}
	h := Chain(ok(), mark("a"), nil, mark("b"))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/", nil))
	require.Equal(t, []string{"a", "b"}, order)
}

func TestWithRequestID(t *testing.T) {
	var seen string
	h := WithRequestID()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
	}))

	r := httptest.NewRequest("GET", "/", nil)
	r.Header.Set("X-Request-ID", "abc-123")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)
	require.Equal(t, "abc-123", seen)
	require.Equal(t, "abc-123", rec.Header().Get("X-Request-ID"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Len(t, seen, 36)
}

func TestWithRecover(t *testing.T) {
	h := WithRecover()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) { panic("boom") }))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWithLogging_LevelByStatus(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	restore := logger.Replace(zap.New(core))
	defer restore()

	h := WithLogging()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.From(r.Context()).Info("inside")
		w.WriteHeader(http.StatusNotFound)
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/x", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, "inside", entries[0].Message)
	require.Equal(t, "/x", entries[0].ContextMap()["path"])
	require.Equal(t, zap.WarnLevel, entries[1].Level)
	require.EqualValues(t, 404, entries[1].ContextMap()["status"])
}

type failingLimiter struct{}

func (failingLimiter) Allow(context.Context, string) (rate.Result, error) {
	return rate.Result{}, errors.New("redis down")
}

func TestWithRateLimit(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{Limiter: rate.NewMemoryLimiter(1, time.Minute), Limit: 1})(ok())

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v2/login", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "1", rec.Header().Get("X-RateLimit-Limit"))

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v2/login", nil))
	require.Equal(t, http.StatusTooManyRequests, rec.Code)
	require.NotEmpty(t, rec.Header().Get("Retry-After"))

	// otra ruta, otro bucket
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/api/v2/users", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRateKeys_ForwardedFor(t *testing.T) {
	r := httptest.NewRequest("POST", "/api/v2/login", nil)
	r.RemoteAddr = "10.0.0.1:5555"
	r.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.2")

	require.Equal(t, "10.0.0.1|/api/v2/login", IPPathRateKey(r))
	require.Equal(t, "203.0.113.7|/api/v2/login", ProxyIPPathRateKey(r))

	// rotar el header no abre buckets nuevos si no se confía en el proxy
	h := WithRateLimit(RateLimitConfig{Limiter: rate.NewMemoryLimiter(1, time.Minute), KeyFunc: IPPathRateKey})(ok())
	for i, xff := range []string{"1.1.1.1", "2.2.2.2"} {
		req := httptest.NewRequest("POST", "/api/v2/login", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		req.Header.Set("X-Forwarded-For", xff)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if i == 0 {
			require.Equal(t, http.StatusOK, rec.Code)
		} else {
			require.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
}

func TestWithRateLimit_FailsOpen(t *testing.T) {
	h := WithRateLimit(RateLimitConfig{Limiter: failingLimiter{}})(ok())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("POST", "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestWithPayloadLog(t *testing.T) {
	dir := t.TempDir()
	w, err := reqlog.Open(dir)
	require.NoError(t, err)

	h := Chain(ok(), WithBodyParser(BodyConfig{}), WithPayloadLog(w))
	r := httptest.NewRequest("POST", "/api/v2/login", strings.NewReader("username=admin&password=letmein"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	r.Header.Set("User-Agent", "curl/8")
	h.ServeHTTP(httptest.NewRecorder(), r)
	w.Close()

	b, err := os.ReadFile(filepath.Join(dir, reqlog.FormattedFile))
	require.NoError(t, err)
	require.Equal(t,
		`URL: example.com, UserAgent: curl/8, Cookie: undefined, Payload: {"password":"letmein","username":"admin"}`+"\n",
		string(b))
}

func TestWithPayloadLog_NilIsNoop(t *testing.T) {
	h := WithPayloadLog(nil)(ok())
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	require.Equal(t, http.StatusOK, rec.Code)
}
