package middlewares

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	jwtx "github.com/dvws-go/dvws/internal/jwt"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// TokenCookie es la cookie que el login setea y que el filtro acepta como
// alternativa al header Authorization.
const TokenCookie = "token"

// =================================================================================
// AUTHENTICATION MIDDLEWARES
// =================================================================================

// AuthConfig agrupa lo necesario para verificar tokens.
type AuthConfig struct {
	Issuer  *jwtx.Issuer
	Options jwtx.Options
	// Revocations es opcional; nil desactiva el chequeo de logout.
	Revocations *jwtx.Revocations
}

// tokenRequired es el cuerpo del 401 cuando no llega ninguna credencial.
type tokenRequired struct {
	Error  string `json:"error"`
	Status int    `json:"status"`
}

// ExtractToken busca el token en este orden:
//  1. header Authorization: se toma el segundo elemento separado por espacio
//     ("Bearer <token>"); si el header existe, no se mira la cookie aunque el
//     valor quede vacío
//  2. cookie "token"
//
// ok es false solo si no hay ninguna de las dos.
func ExtractToken(r *http.Request) (token string, ok bool) {
	if ah := r.Header.Get("Authorization"); ah != "" {
		parts := strings.Split(ah, " ")
		if len(parts) > 1 {
			return parts[1], true
		}
		return "", true
	}
	if c, err := r.Cookie(TokenCookie); err == nil && c.Value != "" {
		return c.Value, true
	}
	return "", false
}

// RequireToken exige un token válido. Sin credenciales responde 401
// {"error":"Authentication error. Token required.","status":401}; con un token
// inválido responde 401 con el jwt.VerifyError serializado.
func RequireToken(cfg AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw, ok := ExtractToken(r)
			if !ok {
				RecordAuthReject("missing")
				writeUnauthorized(w, tokenRequired{Error: "Authentication error. Token required.", Status: http.StatusUnauthorized})
				return
			}

			claims, err := cfg.Issuer.Verify(raw, cfg.Options)
			if err != nil {
				ve := asVerifyError(err)
				RecordAuthReject(ve.Name)
				writeUnauthorized(w, ve)
				return
			}

			if cfg.Revocations != nil {
				revoked, err := cfg.Revocations.IsRevoked(r.Context(), raw, claims)
				if err != nil {
					logger.From(r.Context()).Warn("revocation check failed", logger.Err(err))
				} else if revoked {
					RecordAuthReject("revoked")
					writeUnauthorized(w, jwtx.Revoked())
					return
				}
			}

			next.ServeHTTP(w, r.WithContext(withIdentity(r, raw, claims)))
		})
	}
}

// OptionalIdentity intenta verificar el header Authorization y nunca rechaza.
// Si falla o el token fue revocado, las claims del contexto son un mapa vacío.
func OptionalIdentity(cfg AuthConfig) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := map[string]any{}
			raw := ""
			if ah := r.Header.Get("Authorization"); ah != "" {
				if parts := strings.Split(ah, " "); len(parts) > 1 {
					raw = parts[1]
				}
			}
			if raw != "" {
				if c, err := cfg.Issuer.Verify(raw, cfg.Options); err == nil {
					claims = c
				} else {
					logger.From(r.Context()).Debug("optional identity rejected", logger.Err(err))
				}
			}
			if len(claims) > 0 && cfg.Revocations != nil {
				revoked, err := cfg.Revocations.IsRevoked(r.Context(), raw, claims)
				if err != nil {
					logger.From(r.Context()).Warn("revocation check failed", logger.Err(err))
				} else if revoked {
					logger.From(r.Context()).Debug("optional identity revoked")
					claims = map[string]any{}
				}
			}
			if len(claims) == 0 {
				raw = ""
			}
			next.ServeHTTP(w, r.WithContext(withIdentity(r, raw, claims)))
		})
	}
}

func withIdentity(r *http.Request, raw string, claims map[string]any) context.Context {
	ctx := WithClaims(r.Context(), claims)
	if user := ClaimString(claims, "user"); user != "" {
		ctx = WithUserID(ctx, user)
	}
	if raw != "" {
		ctx = withToken(ctx, raw)
	}
	return ctx
}

func asVerifyError(err error) *jwtx.VerifyError {
	if ve, ok := err.(*jwtx.VerifyError); ok {
		return ve
	}
	return &jwtx.VerifyError{Name: jwtx.NameJWT, Message: err.Error()}
}

func writeUnauthorized(w http.ResponseWriter, body any) {
	w.Header().Set("WWW-Authenticate", `Bearer realm="dvws"`)
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(body)
}
