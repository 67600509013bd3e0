// Package rate limita intentos por key (ej: login por IP y ruta).
package rate

import (
	"context"
	"time"
)

// Result describe la decisión para un hit.
type Result struct {
	Allowed     bool
	Remaining   int64
	RetryAfter  time.Duration // > 0 solo si !Allowed
	WindowTTL   time.Duration
	CurrentHits int64
}

// Limiter decide si un hit sobre key entra en el cupo.
type Limiter interface {
	Allow(ctx context.Context, key string) (Result, error)
}

// windowResult arma el Result de una ventana fija que cierra en reset.
func windowResult(hits, max int64, now, reset time.Time) Result {
	left := reset.Sub(now)
	if left <= 0 {
		left = time.Second
	}
	remaining := max - hits
	if remaining < 0 {
		remaining = 0
	}
	res := Result{
		Allowed:     hits <= max,
		Remaining:   remaining,
		CurrentHits: hits,
		WindowTTL:   left,
	}
	if !res.Allowed {
		res.RetryAfter = left.Round(time.Second)
		if res.RetryAfter < time.Second {
			res.RetryAfter = time.Second
		}
	}
	return res
}
