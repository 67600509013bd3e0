package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvws-go/dvws/internal/audit"
	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/security/password"
	"github.com/dvws-go/dvws/internal/store"
)

// Errores de login
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrTokenIssueFailed   = errors.New("failed to issue token")
)

// Permisos que viajan en el claim "permissions".
const (
	PermUserRead  = "user:read"
	PermUserWrite = "user:write"
	PermUserAdmin = "user:admin"
)

type loginService struct {
	users  store.UserRepository
	issuer *jwtx.Issuer
}

func (s *loginService) Login(ctx context.Context, in dto.CredentialsRequest) (*dto.LoginResult, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.login"),
		logger.Op("Login"),
	)

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, ErrMissingFields
	}

	u, err := s.users.GetByUsername(ctx, in.Username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			log.Debug("user not found")
			audit.Log(ctx, audit.EventLoginFailure, logger.Username(in.Username), logger.String("reason", "unknown_user"))
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	if !password.Verify(in.Password, u.PasswordHash) {
		log.Debug("password check failed", logger.UserID(u.ID))
		audit.Log(ctx, audit.EventLoginFailure, logger.Username(in.Username), logger.String("reason", "bad_password"))
		return nil, ErrInvalidCredentials
	}

	token, exp, err := s.issuer.Sign(ClaimsFor(u))
	if err != nil {
		log.Error("sign token failed", logger.Err(err))
		return nil, ErrTokenIssueFailed
	}

	log.Info("login ok", logger.UserID(u.ID), logger.Username(u.Username))
	audit.Log(ctx, audit.EventLoginSuccess, logger.UserID(u.ID), logger.Username(u.Username))
	return &dto.LoginResult{Token: token, ExpiresAt: exp, User: toUserResponse(u)}, nil
}

// ClaimsFor arma las claims de acceso de un usuario: "user" es el username,
// "sub" su ID y "permissions" la lista de permisos.
func ClaimsFor(u *store.User) map[string]any {
	perms := []string{PermUserRead, PermUserWrite}
	if u.Admin {
		perms = append(perms, PermUserAdmin)
	}
	return map[string]any{
		"sub":         u.ID,
		"user":        u.Username,
		"permissions": perms,
	}
}
