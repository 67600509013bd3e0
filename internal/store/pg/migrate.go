package pg

import (
	"context"
	"fmt"
	"time"

	"github.com/dvws-go/dvws/internal/observability/logger"
	migrations "github.com/dvws-go/dvws/migrations/postgres"
)

// MigrateUp aplica las migraciones *_up.sql en orden. steps > 0 limita la
// cantidad. Los scripts son idempotentes, así que reaplicarlos es seguro.
func (s *Store) MigrateUp(ctx context.Context, steps int) ([]string, error) {
	files, err := migrations.Up()
	if err != nil {
		return nil, fmt.Errorf("pg: list up migrations: %w", err)
	}
	return s.apply(ctx, files, steps)
}

// MigrateDown aplica las migraciones *_down.sql empezando por la más reciente.
func (s *Store) MigrateDown(ctx context.Context, steps int) ([]string, error) {
	files, err := migrations.Down()
	if err != nil {
		return nil, fmt.Errorf("pg: list down migrations: %w", err)
	}
	return s.apply(ctx, files, steps)
}

func (s *Store) apply(ctx context.Context, files []string, steps int) ([]string, error) {
	if steps > 0 && steps < len(files) {
		files = files[:steps]
	}
	log := logger.From(ctx).With(logger.Component("pg.migrate"))
	for i, f := range files {
		b, err := migrations.FS.ReadFile(f)
		if err != nil {
			return files[:i], fmt.Errorf("pg: read %s: %w", f, err)
		}
		start := time.Now()
		if _, err := s.pool.Exec(ctx, string(b)); err != nil {
			return files[:i], fmt.Errorf("pg: exec %s: %w", f, err)
		}
		log.Info("migration applied", logger.Filename(f), logger.DurationMs(time.Since(start).Milliseconds()))
	}
	return files, nil
}
