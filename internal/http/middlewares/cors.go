package middlewares

import (
	"net/http"
)

// CORSConfig configura WithCORS.
type CORSConfig struct {
	// PreflightStatus es el status de las respuestas OPTIONS (200 por defecto,
	// algunos clientes viejos no aceptan 204).
	PreflightStatus int
}

const corsMethods = "GET,HEAD,PUT,PATCH,POST,DELETE"

// WithCORS refleja el Origin del request con credenciales habilitadas y
// responde cualquier OPTIONS como preflight sin llegar al handler.
func WithCORS(cfg CORSConfig) Middleware {
	status := cfg.PreflightStatus
	if status == 0 {
		status = http.StatusOK
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			h := w.Header()
			origin := r.Header.Get("Origin")
			if origin != "" {
				h.Set("Access-Control-Allow-Origin", origin)
			}
			h.Add("Vary", "Origin")
			h.Set("Access-Control-Allow-Credentials", "true")

			if r.Method != http.MethodOptions {
				next.ServeHTTP(w, r)
				return
			}

			// Preflight
			h.Set("Access-Control-Allow-Methods", corsMethods)
			if reqHeaders := r.Header.Get("Access-Control-Request-Headers"); reqHeaders != "" {
				h.Set("Access-Control-Allow-Headers", reqHeaders)
				h.Add("Vary", "Access-Control-Request-Headers")
			}
			h.Set("Content-Length", "0")
			w.WriteHeader(status)
		})
	}
}
