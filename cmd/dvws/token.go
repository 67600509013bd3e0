package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dvws-go/dvws/internal/config"
	"github.com/dvws-go/dvws/internal/http/server"
	authsvc "github.com/dvws-go/dvws/internal/http/services/auth"
	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/validation"
)

func newTokenCmd(load func() (*config.Config, error)) *cobra.Command {
	tokenCmd := &cobra.Command{
		Use:   "token",
		Short: "Emite y verifica tokens con la configuración del servidor",
	}

	// token sign
	var (
		user     string
		admin    bool
		unsigned bool
		ttl      time.Duration
		extra    []string
	)
	signCmd := &cobra.Command{
		Use:   "sign",
		Short: "Emite un token para --user",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" {
				return fmt.Errorf("--user es requerido")
			}
			for _, p := range extra {
				if !validation.ValidPermission(p) {
					return fmt.Errorf("permiso inválido: %q", p)
				}
			}
			cfg, err := load()
			if err != nil {
				return err
			}
			iss := server.NewIssuer(cfg)
			if ttl > 0 {
				iss.AccessTTL = ttl
			}
			perms := []string{authsvc.PermUserRead, authsvc.PermUserWrite}
			if admin {
				perms = append(perms, authsvc.PermUserAdmin)
			}
			perms = append(perms, extra...)
			claims := map[string]any{"user": user, "permissions": perms}

			sign := iss.Sign
			if unsigned {
				sign = iss.SignUnsigned
			}
			tok, _, err := sign(claims)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}
	signCmd.Flags().StringVar(&user, "user", "", "Valor del claim user")
	signCmd.Flags().BoolVar(&admin, "admin", false, "Agrega el permiso user:admin")
	signCmd.Flags().BoolVar(&unsigned, "none", false, "Emite un token sin firma (alg none)")
	signCmd.Flags().StringSliceVar(&extra, "perm", nil, "Permisos extra (repetible)")
	signCmd.Flags().DurationVar(&ttl, "ttl", 0, "TTL del token (default: JWT_TTL)")

	// token verify
	var graphql bool
	verifyCmd := &cobra.Command{
		Use:   "verify <token>",
		Short: "Verifica un token y muestra sus claims",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			iss := server.NewIssuer(cfg)
			opts := iss.RESTOptions()
			if graphql {
				opts = iss.GraphQLOptions()
			}

			claims, verr := iss.Verify(args[0], opts)
			out := any(claims)
			if verr != nil {
				var ve *jwtx.VerifyError
				if !errors.As(verr, &ve) {
					return verr
				}
				out = ve
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if verr != nil {
				return fmt.Errorf("token inválido: %s", verr.Error())
			}
			return nil
		},
	}
	verifyCmd.Flags().BoolVar(&graphql, "graphql", false, "Usa las opciones del listener GraphQL (ignora expiración)")

	tokenCmd.AddCommand(signCmd, verifyCmd)
	return tokenCmd
}
