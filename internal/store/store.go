// Package store define el repositorio de usuarios y sus errores.
//
// Implementaciones:
//   - memory: mapa en proceso (default)
//   - pg: PostgreSQL vía pgxpool
package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("store: not found")
	ErrDuplicate = errors.New("store: duplicate")
)

// User es un usuario registrado.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Admin        bool      `json:"admin"`
	CreatedAt    time.Time `json:"createdAt"`
}

// UserRepository abstrae el almacenamiento de usuarios.
type UserRepository interface {
	// Create guarda u. Retorna ErrDuplicate si el username ya existe.
	Create(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	// Search retorna usuarios cuyo username contiene q (case-insensitive).
	Search(ctx context.Context, q string, limit int) ([]User, error)
	Ping(ctx context.Context) error
	Close()
}
