package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/dvws-go/dvws/internal/config"
	"github.com/dvws-go/dvws/internal/http/server"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// version se setea con -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cfgPath := envOr("DVWS_CONFIG", "config.yaml")

	root := &cobra.Command{
		Use:           "dvws",
		Short:         "Servidor de laboratorio: API REST + GraphQL con autenticación JWT",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&cfgPath, "config", cfgPath, "Archivo YAML de configuración (opcional, env DVWS_CONFIG)")

	load := func() (*config.Config, error) { return config.Load(cfgPath) }

	root.AddCommand(newServeCmd(load))
	root.AddCommand(newTokenCmd(load))
	root.AddCommand(newMigrateCmd(load))
	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Muestra la versión",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version)
		},
	})
	return root
}

func newServeCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Levanta los listeners REST y GraphQL",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger.Init(logger.Config{
				Env:         cfg.App.Env,
				Level:       cfg.App.LogLevel,
				ServiceName: "dvws",
				Version:     version,
			})
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			ctx = logger.ToContext(ctx, logger.L())

			a, cleanup, err := server.Build(ctx, cfg, version)
			if err != nil {
				logger.L().Error("wiring failed", logger.Err(err))
				return err
			}
			defer cleanup()

			if err := server.Run(ctx, cfg, a); err != nil {
				logger.L().Error("server stopped with error", logger.Err(err))
				return err
			}
			logger.L().Info("bye")
			return nil
		},
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// cmdContext evita un nil cuando el comando se ejecuta sin ExecuteContext.
func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
