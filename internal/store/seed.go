package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SeedUser es un usuario inicial con password en claro.
type SeedUser struct {
	Username string
	Password string
	Admin    bool
}

// DefaultSeed son las cuentas conocidas del laboratorio.
var DefaultSeed = []SeedUser{
	{Username: "admin", Password: "letmein", Admin: true},
	{Username: "test", Password: "test"},
}

// Seed crea los usuarios que no existan. hash convierte el password en claro.
func Seed(ctx context.Context, repo UserRepository, users []SeedUser, hash func(string) (string, error)) (int, error) {
	created := 0
	for _, su := range users {
		if _, err := repo.GetByUsername(ctx, su.Username); err == nil {
			continue
		} else if !errors.Is(err, ErrNotFound) {
			return created, err
		}
		h, err := hash(su.Password)
		if err != nil {
			return created, fmt.Errorf("seed %s: %w", su.Username, err)
		}
		u := &User{
			ID:           uuid.NewString(),
			Username:     su.Username,
			PasswordHash: h,
			Admin:        su.Admin,
			CreatedAt:    time.Now().UTC(),
		}
		if err := repo.Create(ctx, u); err != nil {
			if errors.Is(err, ErrDuplicate) {
				continue
			}
			return created, fmt.Errorf("seed %s: %w", su.Username, err)
		}
		created++
	}
	return created, nil
}
