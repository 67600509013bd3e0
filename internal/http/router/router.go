// Package router arma los handlers de los dos listeners (REST y GraphQL)
// con chi.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	authctrl "github.com/dvws-go/dvws/internal/http/controllers/auth"
	healthctrl "github.com/dvws-go/dvws/internal/http/controllers/health"
	uploadctrl "github.com/dvws-go/dvws/internal/http/controllers/upload"
	httperrors "github.com/dvws-go/dvws/internal/http/errors"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	"github.com/dvws-go/dvws/internal/observability/reqlog"
	"github.com/dvws-go/dvws/internal/rate"
)

// Deps contiene las dependencias del router REST.
type Deps struct {
	Auth   *authctrl.Controllers
	Upload *uploadctrl.UploadController
	Health *healthctrl.HealthController

	AuthConfig mw.AuthConfig
	Body       mw.BodyConfig
	CORS       mw.CORSConfig

	// Static se monta en orden; típicamente public/ en "/" y los assets.
	Static     []StaticMount
	APIDocsDir string // "" = sin /api-docs

	// SOAP y XMLRPC son colaboradores externos; nil responde 501.
	SOAP   http.Handler
	XMLRPC http.Handler

	// PayloadLog nil = sin log de payloads.
	PayloadLog *reqlog.Writer

	// LoginLimiter opcional: rate limit por IP para /api/v2/login.
	LoginLimiter rate.Limiter
	LoginLimit   int
	// TrustProxy toma la IP de X-Forwarded-For para el rate limit.
	TrustProxy bool

	// Metrics handler de /metrics; nil = sin endpoint.
	Metrics http.Handler
}

// New arma el handler REST. Orden del pipeline:
//
//	recover, request id, métricas, logging
//	archivos estáticos
//	body parsing
//	/api-docs, /dvwsuserservice, /xmlrpc
//	payload log, CORS, /api
func New(d Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(
		mw.WithRecover(),
		mw.WithRequestID(),
		mw.WithMetrics("rest"),
		mw.WithLogging(),
		withStatic(d.Static),
		mw.WithBodyParser(d.Body),
	)
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	})

	if d.APIDocsDir != "" {
		r.Mount("/api-docs", http.StripPrefix("/api-docs", http.FileServer(http.Dir(d.APIDocsDir))))
	}
	r.Mount("/dvwsuserservice", orNotImplemented(d.SOAP))
	r.Mount("/xmlrpc", orNotImplemented(d.XMLRPC))

	if d.Health != nil {
		r.Get("/healthz", d.Health.Healthz)
	}
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(mw.WithPayloadLog(d.PayloadLog), mw.WithCORS(d.CORS))
		registerAPIRoutes(r, d)
	})
	return r
}

func orNotImplemented(h http.Handler) http.Handler {
	if h != nil {
		return h
	}
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		httperrors.WriteError(w, httperrors.ErrNotImplemented)
	})
}
