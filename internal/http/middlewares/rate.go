package middlewares

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/dvws-go/dvws/internal/http/errors"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/rate"
)

// clientIP extrae la IP del cliente. X-Forwarded-For solo se usa con
// trustProxy: sin un proxy delante el header lo controla el cliente.
func clientIP(r *http.Request, trustProxy bool) string {
	if xf := r.Header.Get("X-Forwarded-For"); trustProxy && xf != "" {
		parts := strings.Split(xf, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil {
		return host
	}
	return r.RemoteAddr
}

// RateKeyFunc define cómo generar la clave de rate limiting.
type RateKeyFunc func(r *http.Request) string

// IPPathRateKey genera una clave basada en la IP de conexión y el path.
func IPPathRateKey(r *http.Request) string {
	return clientIP(r, false) + "|" + r.URL.Path
}

// ProxyIPPathRateKey es IPPathRateKey tomando la IP de X-Forwarded-For.
// Solo para despliegues detrás de un proxy que reescribe el header.
func ProxyIPPathRateKey(r *http.Request) string {
	return clientIP(r, true) + "|" + r.URL.Path
}

// RateLimitConfig configura el comportamiento del middleware de rate limiting.
type RateLimitConfig struct {
	Limiter rate.Limiter
	KeyFunc RateKeyFunc
	Limit   int // solo para el header X-RateLimit-Limit
}

// WithRateLimit responde 429 cuando el limiter lo indica. Un error del limiter
// deja pasar el request.
func WithRateLimit(cfg RateLimitConfig) Middleware {
	if cfg.Limiter == nil {
		return func(next http.Handler) http.Handler { return next }
	}
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = IPPathRateKey
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, err := cfg.Limiter.Allow(r.Context(), cfg.KeyFunc(r))
			if err != nil {
				logger.From(r.Context()).Warn("rate limit error", logger.Err(err))
				next.ServeHTTP(w, r)
				return
			}

			if cfg.Limit > 0 {
				w.Header().Set("X-RateLimit-Limit", strconv.Itoa(cfg.Limit))
			}
			w.Header().Set("X-RateLimit-Remaining", strconv.FormatInt(res.Remaining, 10))
			if res.WindowTTL > 0 {
				resetAt := time.Now().Add(res.WindowTTL).Unix()
				w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(resetAt, 10))
			}

			if !res.Allowed {
				if res.RetryAfter > 0 {
					secs := int(res.RetryAfter.Seconds())
					if secs < 1 {
						secs = 1
					}
					w.Header().Set("Retry-After", strconv.Itoa(secs))
				}
				errors.WriteError(w, errors.ErrRateLimitExceeded)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
