package middlewares

import (
	"net/http"

	"github.com/dvws-go/dvws/internal/observability/reqlog"
)

// WithPayloadLog escribe cada request en formatted.log y raw.log. Debe ir
// después de WithBodyParser para tener el cuerpo decodificado. nil = no-op.
func WithPayloadLog(w *reqlog.Writer) Middleware {
	return func(next http.Handler) http.Handler {
		if w == nil {
			return next
		}
		return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			w.Log(r, reqlog.Payload(r, GetBody(ctx), GetRawBody(ctx)))
			next.ServeHTTP(rw, r)
		})
	}
}
