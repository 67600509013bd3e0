// Package app arma los handlers de la aplicación a partir de dependencias ya
// construidas (store, issuer, cache, limiter).
package app

import (
	"context"
	"fmt"
	"net/http"

	gql "github.com/dvws-go/dvws/internal/graphql"
	authctrl "github.com/dvws-go/dvws/internal/http/controllers/auth"
	healthctrl "github.com/dvws-go/dvws/internal/http/controllers/health"
	uploadctrl "github.com/dvws-go/dvws/internal/http/controllers/upload"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	"github.com/dvws-go/dvws/internal/http/router"
	authsvc "github.com/dvws-go/dvws/internal/http/services/auth"
	healthsvc "github.com/dvws-go/dvws/internal/http/services/health"
	uploadsvc "github.com/dvws-go/dvws/internal/http/services/upload"
	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/observability/reqlog"
	"github.com/dvws-go/dvws/internal/rate"
	"github.com/dvws-go/dvws/internal/security/password"
	"github.com/dvws-go/dvws/internal/store"
)

// Config agrupa lo que el router necesita y no es una dependencia.
type Config struct {
	Version     string
	GraphQLAddr string

	Static     []router.StaticMount
	APIDocsDir string
	Body       mw.BodyConfig

	UploadDir      string
	UploadMaxBytes int64

	LoginLimit   int
	TrustProxy   bool
	GraphQLDebug bool
	GraphQLBatch bool
	PasswordHash password.Params
}

// Deps contiene las dependencias ya construidas.
type Deps struct {
	Users        store.UserRepository
	Issuer       *jwtx.Issuer
	Revocations  *jwtx.Revocations
	LoginLimiter rate.Limiter // nil = sin rate limit
	PayloadLog   *reqlog.Writer
	Metrics      http.Handler

	// Checks extra para /healthz (ej: "cache").
	HealthChecks map[string]func(ctx context.Context) error

	// Colaboradores de protocolos externos; nil responde 501.
	SOAP   http.Handler
	XMLRPC http.Handler
}

// App representa la aplicación armada: un handler por listener.
type App struct {
	REST    http.Handler
	GraphQL http.Handler
}

// New crea los services, controllers y routers.
func New(cfg Config, deps Deps) (*App, error) {
	if deps.Users == nil || deps.Issuer == nil {
		return nil, fmt.Errorf("app: users and issuer are required")
	}

	// 1. Services
	auth := authsvc.NewServices(authsvc.Deps{
		Users:       deps.Users,
		Issuer:      deps.Issuer,
		Revocations: deps.Revocations,
		Hash:        cfg.PasswordHash,
	})
	checks := map[string]func(ctx context.Context) error{"store": deps.Users.Ping}
	for name, fn := range deps.HealthChecks {
		checks[name] = fn
	}
	health := healthsvc.NewHealthService(healthsvc.Deps{
		Version:     cfg.Version,
		Issuer:      deps.Issuer.Iss,
		Algorithms:  deps.Issuer.Algorithms(),
		GraphQLAddr: cfg.GraphQLAddr,
		Checks:      checks,
	})
	upload := uploadsvc.NewUploadService(uploadsvc.Deps{Dir: cfg.UploadDir, MaxBytes: cfg.UploadMaxBytes})

	// 2. REST
	rest := router.New(router.Deps{
		Auth:   authctrl.NewControllers(auth),
		Upload: uploadctrl.NewUploadController(upload),
		Health: healthctrl.NewHealthController(health),
		AuthConfig: mw.AuthConfig{
			Issuer:      deps.Issuer,
			Options:     deps.Issuer.RESTOptions(),
			Revocations: deps.Revocations,
		},
		Body:         cfg.Body,
		Static:       cfg.Static,
		APIDocsDir:   cfg.APIDocsDir,
		SOAP:         deps.SOAP,
		XMLRPC:       deps.XMLRPC,
		PayloadLog:   deps.PayloadLog,
		LoginLimiter: deps.LoginLimiter,
		LoginLimit:   cfg.LoginLimit,
		TrustProxy:   cfg.TrustProxy,
		Metrics:      deps.Metrics,
	})

	// 3. GraphQL
	schema, err := gql.NewSchema(gql.Deps{
		Users:    deps.Users,
		Register: auth.Register,
		Debug:    cfg.GraphQLDebug,
	})
	if err != nil {
		return nil, fmt.Errorf("app: graphql schema: %w", err)
	}
	graph := router.NewGraphQL(router.GraphQLDeps{
		Handler: gql.NewHandler(schema, gql.HandlerConfig{Batching: cfg.GraphQLBatch}),
		AuthConfig: mw.AuthConfig{
			Issuer:      deps.Issuer,
			Options:     deps.Issuer.GraphQLOptions(),
			Revocations: deps.Revocations,
		},
	})

	return &App{REST: rest, GraphQL: graph}, nil
}
