// Package server construye las dependencias desde la configuración y corre
// los listeners REST y GraphQL.
package server

import (
	"context"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/dvws-go/dvws/internal/app"
	"github.com/dvws-go/dvws/internal/cache"
	"github.com/dvws-go/dvws/internal/config"
	"github.com/dvws-go/dvws/internal/http/bodyparse"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	"github.com/dvws-go/dvws/internal/http/router"
	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/observability/reqlog"
	"github.com/dvws-go/dvws/internal/rate"
	"github.com/dvws-go/dvws/internal/security/password"
	"github.com/dvws-go/dvws/internal/store"
	"github.com/dvws-go/dvws/internal/store/memory"
	"github.com/dvws-go/dvws/internal/store/pg"
)

// NewIssuer construye el issuer desde la configuración JWT.
func NewIssuer(cfg *config.Config) *jwtx.Issuer {
	iss := jwtx.NewIssuer(cfg.JWT.Issuer, []byte(cfg.JWT.Secret), cfg.JWT.TTL)
	iss.AllowNone = cfg.JWT.AllowNone
	return iss
}

// Build instancia cache, store, limiter, logs y métricas, y arma la App.
// El cleanup devuelto cierra todo en orden inverso.
func Build(ctx context.Context, cfg *config.Config, version string) (*app.App, func(), error) {
	log := logger.From(ctx).With(logger.Component("server"), logger.Op("Build"))

	var closers []func()
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	fail := func(err error) (*app.App, func(), error) {
		cleanup()
		return nil, nil, err
	}

	// 1. Cache (revocaciones y rate limit)
	cc, err := cache.New(cache.Config{
		Driver:   cfg.Cache.Kind,
		Addr:     cfg.Cache.Redis.Addr,
		Password: cfg.Cache.Redis.Password,
		DB:       cfg.Cache.Redis.DB,
		Prefix:   cfg.Cache.Redis.Prefix,
	})
	if err != nil {
		return fail(fmt.Errorf("cache: %w", err))
	}
	closers = append(closers, func() { _ = cc.Close() })

	// 2. Store
	var (
		users store.UserRepository
		pool  func() *pgxpool.Pool
	)
	switch cfg.Storage.Driver {
	case "postgres":
		pgs, err := pg.New(ctx, cfg.Storage.DSN)
		if err != nil {
			return fail(fmt.Errorf("store: %w", err))
		}
		users, pool = pgs, pgs.Pool
	default:
		users = memory.New()
	}
	closers = append(closers, users.Close)

	hash := password.Default
	if cfg.App.Env == "dev" {
		hash = password.Fast
	}
	if cfg.Storage.Seed {
		n, err := store.Seed(ctx, users, store.DefaultSeed, func(plain string) (string, error) {
			return password.Hash(hash, plain)
		})
		if err != nil {
			return fail(fmt.Errorf("seed: %w", err))
		}
		log.Info("seed users", logger.Int("created", n))
	}

	// 3. Rate limit de login
	var limiter rate.Limiter
	if cfg.Rate.Enabled {
		if rc, ok := cc.(interface{ Raw() *redis.Client }); ok {
			limiter = rate.NewRedisLimiter(rc.Raw(), cfg.Cache.Redis.Prefix+":rl:login:", cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		} else {
			limiter = rate.NewMemoryLimiter(cfg.Rate.Login.Limit, cfg.Rate.Login.Window)
		}
	}

	// 4. Log de payloads
	plog, err := reqlog.Open(cfg.Logs.Dir)
	if err != nil {
		return fail(err)
	}
	closers = append(closers, plog.Close)

	// 5. Métricas
	metrics, err := mw.RegisterMetrics(mw.MetricsConfig{Pool: pool})
	if err != nil {
		return fail(fmt.Errorf("metrics: %w", err))
	}

	issuer := NewIssuer(cfg)
	a, err := app.New(app.Config{
		Version:        version,
		GraphQLAddr:    cfg.GraphQLAddr(),
		Static:         staticMounts(cfg),
		APIDocsDir:     cfg.Server.APIDocsDir,
		Body:           mw.BodyConfig{MaxMultipartBytes: cfg.Upload.MaxBytes, QS: bodyparse.DefaultOptions},
		UploadDir:      cfg.Upload.Dir,
		UploadMaxBytes: cfg.Upload.MaxBytes,
		LoginLimit:     cfg.Rate.Login.Limit,
		TrustProxy:     cfg.Rate.TrustProxy,
		GraphQLDebug:   cfg.GraphQL.Debug,
		GraphQLBatch:   true,
		PasswordHash:   hash,
	}, app.Deps{
		Users:        users,
		Issuer:       issuer,
		Revocations:  jwtx.NewRevocations(cc),
		LoginLimiter: limiter,
		PayloadLog:   plog,
		Metrics:      metrics,
		HealthChecks: map[string]func(ctx context.Context) error{"cache": cc.Ping},
	})
	if err != nil {
		return fail(err)
	}

	log.Info("wiring done",
		logger.String("storage", cfg.Storage.Driver),
		logger.String("cache", cfg.Cache.Kind),
		logger.Bool("rate_limit", limiter != nil),
		logger.Bool("allow_none", issuer.AllowNone),
	)
	return a, cleanup, nil
}

// staticMounts: public/ en "/" primero, después los assets por prefijo.
func staticMounts(cfg *config.Config) []router.StaticMount {
	mounts := []router.StaticMount{{Prefix: "/", Dir: cfg.Server.PublicDir}}
	prefixes := make([]string, 0, len(cfg.Server.AssetDirs))
	for p := range cfg.Server.AssetDirs {
		prefixes = append(prefixes, p)
	}
	sort.Strings(prefixes)
	for _, p := range prefixes {
		for _, dir := range cfg.Server.AssetDirs[p] {
			mounts = append(mounts, router.StaticMount{Prefix: p, Dir: dir})
		}
	}
	return mounts
}
