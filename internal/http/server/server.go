package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dvws-go/dvws/internal/app"
	"github.com/dvws-go/dvws/internal/config"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

const shutdownTimeout = 10 * time.Second

// Run levanta los listeners REST y GraphQL y bloquea hasta que ctx se cancele
// o alguno falle. Al salir hace shutdown ordenado de ambos.
func Run(ctx context.Context, cfg *config.Config, a *app.App) error {
	servers := []*http.Server{
		newHTTPServer(cfg.HTTPAddr(), a.REST, cfg.Server.ReadTimeout),
		newHTTPServer(cfg.GraphQLAddr(), a.GraphQL, cfg.Server.ReadTimeout),
	}
	names := []string{"rest", "graphql"}

	g, gctx := errgroup.WithContext(ctx)
	for i, srv := range servers {
		srv, name := srv, names[i]
		g.Go(func() error {
			logger.L().Info("listening", logger.Protocol(name), logger.Addr(srv.Addr))
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				return err
			}
			return nil
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		var errs []error
		for i, srv := range servers {
			if err := srv.Shutdown(sctx); err != nil {
				logger.L().Warn("shutdown failed", logger.Protocol(names[i]), logger.Err(err))
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})

	return g.Wait()
}

func newHTTPServer(addr string, h http.Handler, readTimeout time.Duration) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       readTimeout,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
