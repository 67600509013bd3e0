// Package health contiene DTOs para health e info del servicio.
package health

import "time"

// HealthStatus es el estado de un componente.
type HealthStatus struct {
	Status  string `json:"status"` // ok | error
	Message string `json:"message,omitempty"`
}

// HealthResponse representa la respuesta de GET /healthz.
type HealthResponse struct {
	Status     string                  `json:"status"` // ready | unavailable
	Version    string                  `json:"version,omitempty"`
	Components map[string]HealthStatus `json:"components"`
	Timestamp  time.Time               `json:"timestamp"`
}

// InfoResponse representa la respuesta de GET /api/v2/info.
type InfoResponse struct {
	Name       string   `json:"name"`
	Version    string   `json:"version"`
	Issuer     string   `json:"issuer"`
	Algorithms []string `json:"algorithms"`
	GraphQL    string   `json:"graphql"`
}
