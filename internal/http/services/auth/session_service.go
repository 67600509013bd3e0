package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/dvws-go/dvws/internal/audit"
	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/store"
	"github.com/dvws-go/dvws/internal/util"
)

type sessionService struct {
	users       store.UserRepository
	revocations *jwtx.Revocations
}

// Me devuelve las claims tal cual llegaron. El usuario se adjunta solo si el
// claim "user" corresponde a uno guardado.
func (s *sessionService) Me(ctx context.Context, claims map[string]any) (*dto.MeResponse, error) {
	out := &dto.MeResponse{Claims: claims}
	name, _ := claims["user"].(string)
	if name == "" {
		return out, nil
	}
	u, err := s.users.GetByUsername(ctx, name)
	switch {
	case err == nil:
		ur := toUserResponse(u)
		out.User = &ur
	case errors.Is(err, store.ErrNotFound):
		logger.From(ctx).Debug("token user not stored", logger.Username(name))
	default:
		return nil, fmt.Errorf("lookup user: %w", err)
	}
	return out, nil
}

func (s *sessionService) Logout(ctx context.Context, raw string, claims map[string]any) error {
	if s.revocations == nil || raw == "" {
		return nil
	}
	if err := s.revocations.Revoke(ctx, raw, claims); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}
	name, _ := claims["user"].(string)
	audit.Log(ctx, audit.EventLogout, logger.Username(name), logger.String("token", util.MaskToken(raw)))
	return nil
}
