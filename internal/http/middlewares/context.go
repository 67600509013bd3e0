package middlewares

import (
	"context"
	"mime/multipart"
)

// =================================================================================
// CONTEXT KEYS
// =================================================================================

type ctxKey string

const (
	// ctxClaimsKey guarda las claims JWT verificadas
	ctxClaimsKey ctxKey = "claims"
	// ctxUserIDKey guarda el claim "user" del token
	ctxUserIDKey ctxKey = "user_id"
	// ctxRequestIDKey guarda el request ID
	ctxRequestIDKey ctxKey = "request_id"
	// ctxTokenKey guarda el token crudo (logout lo revoca)
	ctxTokenKey ctxKey = "token"
	// ctxBodyKey guarda el cuerpo decodificado (JSON, urlencoded o campos multipart)
	ctxBodyKey ctxKey = "body"
	// ctxRawBodyKey guarda los bytes originales del cuerpo
	ctxRawBodyKey ctxKey = "raw_body"
	// ctxFilesKey guarda los archivos multipart
	ctxFilesKey ctxKey = "files"
)

// =================================================================================
// CONTEXT SETTERS
// =================================================================================

// WithClaims inyecta claims en el contexto
func WithClaims(ctx context.Context, claims map[string]any) context.Context {
	return context.WithValue(ctx, ctxClaimsKey, claims)
}

// WithUserID inyecta el user ID en el contexto
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxUserIDKey, userID)
}

func withToken(ctx context.Context, raw string) context.Context {
	return context.WithValue(ctx, ctxTokenKey, raw)
}

func setRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ctxRequestIDKey, requestID)
}

// WithBody inyecta el cuerpo decodificado y los bytes crudos.
func WithBody(ctx context.Context, body any, raw []byte) context.Context {
	ctx = context.WithValue(ctx, ctxBodyKey, body)
	return context.WithValue(ctx, ctxRawBodyKey, raw)
}

func withFiles(ctx context.Context, files map[string][]*multipart.FileHeader) context.Context {
	return context.WithValue(ctx, ctxFilesKey, files)
}

// =================================================================================
// CONTEXT GETTERS
// =================================================================================

// GetClaims obtiene las claims JWT del contexto.
// Retorna nil si no hay claims (token no validado o middleware no aplicado).
func GetClaims(ctx context.Context) map[string]any {
	if m, ok := ctx.Value(ctxClaimsKey).(map[string]any); ok {
		return m
	}
	return nil
}

// GetUserID obtiene el user ID del contexto, o "".
func GetUserID(ctx context.Context) string {
	s, _ := ctx.Value(ctxUserIDKey).(string)
	return s
}

// GetToken obtiene el token crudo con el que se autenticó el request, o "".
func GetToken(ctx context.Context) string {
	s, _ := ctx.Value(ctxTokenKey).(string)
	return s
}

// GetRequestID obtiene el request ID del contexto, o "".
func GetRequestID(ctx context.Context) string {
	s, _ := ctx.Value(ctxRequestIDKey).(string)
	return s
}

// GetBody obtiene el cuerpo decodificado: map[string]any para urlencoded y
// multipart, cualquier valor JSON para application/json. nil si no hubo body.
func GetBody(ctx context.Context) any {
	return ctx.Value(ctxBodyKey)
}

// GetRawBody obtiene los bytes originales del cuerpo (no se guardan para multipart).
func GetRawBody(ctx context.Context) []byte {
	b, _ := ctx.Value(ctxRawBodyKey).([]byte)
	return b
}

// GetFiles obtiene los archivos multipart por nombre de campo.
func GetFiles(ctx context.Context) map[string][]*multipart.FileHeader {
	f, _ := ctx.Value(ctxFilesKey).(map[string][]*multipart.FileHeader)
	return f
}

// =================================================================================
// CLAIM HELPERS
// =================================================================================

// ClaimString extrae un string de las claims.
func ClaimString(claims map[string]any, key string) string {
	if claims == nil {
		return ""
	}
	s, _ := claims[key].(string)
	return s
}

// ClaimStringSlice extrae un slice de strings de las claims.
func ClaimStringSlice(claims map[string]any, key string) []string {
	if claims == nil {
		return nil
	}
	switch arr := claims[key].(type) {
	case []string:
		return arr
	case []any:
		result := make([]string, 0, len(arr))
		for _, item := range arr {
			if s, ok := item.(string); ok {
				result = append(result, s)
			}
		}
		return result
	}
	return nil
}
