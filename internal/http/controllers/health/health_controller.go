// Package health contiene el controller para health checks e info.
package health

import (
	"net/http"

	"github.com/dvws-go/dvws/internal/http/helpers"
	svc "github.com/dvws-go/dvws/internal/http/services/health"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// HealthController maneja /healthz y /api/v2/info.
type HealthController struct {
	service svc.HealthService
}

// NewHealthController crea un nuevo controller de health check.
func NewHealthController(service svc.HealthService) *HealthController {
	return &HealthController{service: service}
}

// Healthz maneja GET /healthz
func (c *HealthController) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	response := c.service.Check(ctx)

	if response.Version != "" {
		w.Header().Set("X-Service-Version", response.Version)
	}
	status := http.StatusOK
	if response.Status == "unavailable" {
		status = http.StatusServiceUnavailable
	}

	logger.From(ctx).Debug("health check completed",
		logger.String("status", response.Status),
		logger.Int("components_count", len(response.Components)),
	)
	helpers.WriteJSON(w, status, response)
}

// Info maneja GET /api/v2/info
func (c *HealthController) Info(w http.ResponseWriter, r *http.Request) {
	helpers.WriteJSON(w, http.StatusOK, c.service.Info(r.Context()))
}
