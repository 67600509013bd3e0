// Package auth contiene los services de registro, login y sesión.
package auth

import (
	"context"

	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/security/password"
	"github.com/dvws-go/dvws/internal/store"
)

// RegisterService crea usuarios nuevos.
type RegisterService interface {
	Register(ctx context.Context, in dto.CredentialsRequest) (*dto.UserResponse, error)
}

// LoginService valida credenciales y emite tokens.
type LoginService interface {
	Login(ctx context.Context, in dto.CredentialsRequest) (*dto.LoginResult, error)
}

// SessionService opera sobre la identidad de un token ya verificado.
type SessionService interface {
	Me(ctx context.Context, claims map[string]any) (*dto.MeResponse, error)
	Logout(ctx context.Context, raw string, claims map[string]any) error
}

// Deps contiene las dependencias para crear los services auth.
type Deps struct {
	Users       store.UserRepository
	Issuer      *jwtx.Issuer
	Revocations *jwtx.Revocations // nil = logout no revoca
	Hash        password.Params
}

// Services agrupa todos los services del dominio auth.
type Services struct {
	Register RegisterService
	Login    LoginService
	Session  SessionService
}

// NewServices crea el agregador de services auth.
func NewServices(d Deps) Services {
	if d.Hash == (password.Params{}) {
		d.Hash = password.Default
	}
	return Services{
		Register: &registerService{users: d.Users, hash: d.Hash},
		Login:    &loginService{users: d.Users, issuer: d.Issuer},
		Session:  &sessionService{users: d.Users, revocations: d.Revocations},
	}
}

func toUserResponse(u *store.User) dto.UserResponse {
	return dto.UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Admin:     u.Admin,
		CreatedAt: u.CreatedAt,
	}
}
