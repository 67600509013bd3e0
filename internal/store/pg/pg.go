package pg

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/dvws-go/dvws/internal/store"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// uniqueViolation es el SQLSTATE de PostgreSQL para claves duplicadas.
const uniqueViolation = "23505"

// Store implementa store.UserRepository sobre PostgreSQL.
type Store struct{ pool *pgxpool.Pool }

// Pool expone el pool interno (métricas).
func (s *Store) Pool() *pgxpool.Pool {
	if s == nil {
		return nil
	}
	return s.pool
}

// New abre el pool y aplica las migraciones pendientes.
func New(ctx context.Context, dsn string) (*Store, error) {
	s, err := Open(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if _, err := s.MigrateUp(ctx, 0); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

// Open abre el pool sin tocar el esquema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	pcfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("pg: parse dsn: %w", err)
	}
	if pcfg.MaxConns == 0 || pcfg.MaxConns > 8 {
		pcfg.MaxConns = 8
	}

	pool, err := pgxpool.NewWithConfig(ctx, pcfg)
	if err != nil {
		return nil, fmt.Errorf("pg: open pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("pg: ping: %w", err)
	}

	logger.From(ctx).Info("pg pool ready", logger.Int("max_conns", int(pcfg.MaxConns)))
	return &Store{pool: pool}, nil
}

func (s *Store) Ping(ctx context.Context) error { return s.pool.Ping(ctx) }

// Close cierra el pool subyacente (idempotente).
func (s *Store) Close() {
	if s != nil && s.pool != nil {
		s.pool.Close()
	}
}

func (s *Store) Create(ctx context.Context, u *store.User) error {
	_, err := s.pool.Exec(ctx, `
        INSERT INTO app_user (id, username, password_hash, admin, created_at)
        VALUES ($1, $2, $3, $4, $5)`,
		u.ID, u.Username, u.PasswordHash, u.Admin, u.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return store.ErrDuplicate
	}
	return err
}

func (s *Store) GetByID(ctx context.Context, id string) (*store.User, error) {
	return s.getOne(ctx, `SELECT id, username, password_hash, admin, created_at FROM app_user WHERE id = $1`, id)
}

func (s *Store) GetByUsername(ctx context.Context, username string) (*store.User, error) {
	return s.getOne(ctx, `SELECT id, username, password_hash, admin, created_at FROM app_user WHERE username = $1`, username)
}

func (s *Store) getOne(ctx context.Context, q string, arg any) (*store.User, error) {
	var u store.User
	err := s.pool.QueryRow(ctx, q, arg).Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Admin, &u.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Store) Search(ctx context.Context, q string, limit int) ([]store.User, error) {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(ctx, `
        SELECT id, username, password_hash, admin, created_at
          FROM app_user
         WHERE username ILIKE '%' || $1 || '%'
         ORDER BY username
         LIMIT $2`,
		escapeLike(q), limit,
	)
	if err != nil {
		return nil, err
	}
	return pgx.CollectRows(rows, func(row pgx.CollectableRow) (store.User, error) {
		var u store.User
		err := row.Scan(&u.ID, &u.Username, &u.PasswordHash, &u.Admin, &u.CreatedAt)
		return u, err
	})
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
