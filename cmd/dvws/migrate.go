package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dvws-go/dvws/internal/config"
	"github.com/dvws-go/dvws/internal/store/pg"
)

func newMigrateCmd(load func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate [up|down] [steps]",
		Short: "Aplica las migraciones embebidas de PostgreSQL",
		Args:  cobra.MaximumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			action := "up"
			steps := 0
			if len(args) >= 1 {
				action = strings.ToLower(args[0])
			}
			if len(args) == 2 {
				n, err := strconv.Atoi(args[1])
				if err != nil || n < 0 {
					return fmt.Errorf("steps inválido: %q", args[1])
				}
				steps = n
			}
			if action != "up" && action != "down" {
				return fmt.Errorf("acción desconocida %q (up | down)", action)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			if cfg.Storage.Driver != "postgres" {
				return fmt.Errorf("migrate requiere STORAGE_DRIVER=postgres (actual: %s)", cfg.Storage.Driver)
			}

			ctx := cmdContext(cmd)
			s, err := pg.Open(ctx, cfg.Storage.DSN)
			if err != nil {
				return err
			}
			defer s.Close()

			run := s.MigrateUp
			if action == "down" {
				run = s.MigrateDown
			}
			applied, err := run(ctx, steps)
			for _, f := range applied {
				fmt.Fprintln(cmd.OutOrStdout(), "OK", f)
			}
			return err
		},
	}
}
