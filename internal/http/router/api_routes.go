package router

import (
	"github.com/go-chi/chi/v5"

	mw "github.com/dvws-go/dvws/internal/http/middlewares"
)

// registerAPIRoutes registra las rutas bajo /api.
func registerAPIRoutes(r chi.Router, d Deps) {
	requireToken := mw.RequireToken(d.AuthConfig)

	if d.Health != nil {
		// GET /api/v2/info
		r.Get("/v2/info", d.Health.Info)
	}

	if c := d.Auth; c != nil {
		// POST /api/v2/users
		r.Post("/v2/users", c.Register.Register)

		// POST /api/v2/login (rate limit opcional por IP)
		key := mw.IPPathRateKey
		if d.TrustProxy {
			key = mw.ProxyIPPathRateKey
		}
		r.With(mw.WithRateLimit(mw.RateLimitConfig{
			Limiter: d.LoginLimiter,
			KeyFunc: key,
			Limit:   d.LoginLimit,
		})).Post("/v2/login", c.Login.Login)

		// GET /api/v2/users/me (requires auth)
		r.With(requireToken).Get("/v2/users/me", c.Session.Me)

		// POST /api/v2/logout (requires auth)
		r.With(requireToken).Post("/v2/logout", c.Session.Logout)
	}

	if d.Upload != nil {
		// POST /api/upload (requires auth)
		r.With(requireToken).Post("/upload", d.Upload.Upload)
	}
}
