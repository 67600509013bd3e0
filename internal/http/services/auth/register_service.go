package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dvws-go/dvws/internal/audit"
	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/security/password"
	"github.com/dvws-go/dvws/internal/store"
	"github.com/dvws-go/dvws/internal/validation"
	"github.com/google/uuid"
)

// Errores de registro
var (
	ErrMissingFields   = errors.New("missing required fields")
	ErrUsernameTaken   = errors.New("username already exists")
	ErrInvalidUsername = errors.New("invalid username")
)

type registerService struct {
	users store.UserRepository
	hash  password.Params
}

func (s *registerService) Register(ctx context.Context, in dto.CredentialsRequest) (*dto.UserResponse, error) {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("auth.register"),
		logger.Op("Register"),
	)

	in.Username = strings.TrimSpace(in.Username)
	if in.Username == "" || in.Password == "" {
		return nil, ErrMissingFields
	}
	if !validation.ValidUsername(in.Username) {
		return nil, ErrInvalidUsername
	}

	phc, err := password.Hash(s.hash, in.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	u := &store.User{
		ID:           uuid.NewString(),
		Username:     in.Username,
		PasswordHash: phc,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			log.Debug("username taken", logger.Username(in.Username))
			return nil, ErrUsernameTaken
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	log.Info("user registered", logger.UserID(u.ID), logger.Username(u.Username))
	audit.Log(ctx, audit.EventRegister, logger.UserID(u.ID), logger.Username(u.Username))
	out := toUserResponse(u)
	return &out, nil
}
