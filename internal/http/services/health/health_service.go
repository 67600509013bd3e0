// Package health contiene el service para health checks e info del servicio.
package health

import (
	"context"
	"time"

	dto "github.com/dvws-go/dvws/internal/http/dto/health"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// HealthService define las operaciones de health check.
type HealthService interface {
	Check(ctx context.Context) dto.HealthResponse
	Info(ctx context.Context) dto.InfoResponse
}

// Deps contiene las dependencias inyectables para el health service.
type Deps struct {
	Version     string
	Issuer      string
	Algorithms  []string
	GraphQLAddr string
	// Checks por componente (ej: "store", "cache"). Cualquier error deja el
	// servicio "unavailable".
	Checks map[string]func(ctx context.Context) error
}

type healthService struct {
	deps Deps
}

// NewHealthService crea un nuevo service de health check.
func NewHealthService(deps Deps) HealthService {
	return &healthService{deps: deps}
}

const checkTimeout = 2 * time.Second

func (s *healthService) Check(ctx context.Context) dto.HealthResponse {
	log := logger.From(ctx).With(
		logger.Layer("service"),
		logger.Component("health"),
		logger.Op("Check"),
	)

	resp := dto.HealthResponse{
		Status:     "ready",
		Version:    s.deps.Version,
		Components: make(map[string]dto.HealthStatus, len(s.deps.Checks)),
		Timestamp:  time.Now().UTC(),
	}
	for name, check := range s.deps.Checks {
		cctx, cancel := context.WithTimeout(ctx, checkTimeout)
		err := check(cctx)
		cancel()
		if err != nil {
			resp.Components[name] = dto.HealthStatus{Status: "error", Message: err.Error()}
			resp.Status = "unavailable"
			log.Warn("component unavailable", logger.Component(name), logger.Err(err))
			continue
		}
		resp.Components[name] = dto.HealthStatus{Status: "ok"}
	}
	return resp
}

func (s *healthService) Info(context.Context) dto.InfoResponse {
	return dto.InfoResponse{
		Name:       "dvws",
		Version:    s.deps.Version,
		Issuer:     s.deps.Issuer,
		Algorithms: s.deps.Algorithms,
		GraphQL:    s.deps.GraphQLAddr,
	}
}
