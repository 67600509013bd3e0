package middlewares

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/dvws-go/dvws/internal/http/bodyparse"
	"github.com/dvws-go/dvws/internal/http/errors"
)

// BodyConfig configura WithBodyParser.
type BodyConfig struct {
	// MaxBytes limita JSON, urlencoded y cuerpos crudos (default 1MB).
	MaxBytes int64
	// MaxMultipartBytes limita multipart/form-data completo (default 10MB).
	MaxMultipartBytes int64
	// QS controla el anidamiento de claves urlencoded y multipart.
	QS bodyparse.Options
}

const multipartMemory = 8 << 20

// WithBodyParser decodifica el cuerpo según Content-Type y lo deja en el
// contexto (GetBody, GetRawBody, GetFiles):
//
//	application/x-www-form-urlencoded  claves anidadas -> map[string]any
//	application/json                   objeto o array JSON
//	multipart/form-data                campos anidados + archivos
//	application/octet-stream, text/*   bytes crudos
//
// El body se repone para que los handlers puedan volver a leerlo.
func WithBodyParser(cfg BodyConfig) Middleware {
	if cfg.MaxBytes <= 0 {
		cfg.MaxBytes = 1 << 20
	}
	if cfg.MaxMultipartBytes <= 0 {
		cfg.MaxMultipartBytes = 10 << 20
	}
	if cfg.QS.Depth == 0 && cfg.QS.ArrayLimit == 0 {
		cfg.QS = bodyparse.DefaultOptions
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body == nil || (r.ContentLength == 0 && len(r.TransferEncoding) == 0) {
				next.ServeHTTP(w, r)
				return
			}
			mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			ctx := r.Context()
			switch {
			case mt == "application/x-www-form-urlencoded":
				raw, ok := readBody(w, r, cfg.MaxBytes)
				if !ok {
					return
				}
				parsed, err := bodyparse.ParseQuery(string(raw), cfg.QS)
				if err != nil {
					errors.WriteError(w, errors.ErrBadRequest.WithDetail("invalid urlencoded body"))
					return
				}
				ctx = WithBody(ctx, parsed, raw)

			case mt == "application/json":
				raw, ok := readBody(w, r, cfg.MaxBytes)
				if !ok {
					return
				}
				parsed, err := decodeStrictJSON(raw)
				if err != nil {
					errors.WriteError(w, errors.ErrInvalidJSON.WithCause(err))
					return
				}
				ctx = WithBody(ctx, parsed, raw)

			case mt == "multipart/form-data":
				r.Body = http.MaxBytesReader(w, r.Body, cfg.MaxMultipartBytes)
				if err := r.ParseMultipartForm(multipartMemory); err != nil {
					var tooLarge *http.MaxBytesError
					if stderrors.As(err, &tooLarge) {
						errors.WriteError(w, errors.ErrBodyTooLarge)
						return
					}
					errors.WriteError(w, errors.ErrBadRequest.WithDetail("invalid multipart body"))
					return
				}
				ctx = WithBody(ctx, bodyparse.ParseValues(r.MultipartForm.Value, cfg.QS), nil)
				ctx = withFiles(ctx, r.MultipartForm.File)

			case mt == "application/octet-stream":
				raw, ok := readBody(w, r, cfg.MaxBytes)
				if !ok {
					return
				}
				ctx = WithBody(ctx, raw, raw)

			case strings.HasPrefix(mt, "text/"):
				raw, ok := readBody(w, r, cfg.MaxBytes)
				if !ok {
					return
				}
				ctx = WithBody(ctx, string(raw), raw)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// readBody lee hasta max bytes y repone r.Body. Devuelve false si ya respondió.
func readBody(w http.ResponseWriter, r *http.Request, max int64) ([]byte, bool) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, max))
	_ = r.Body.Close()
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			errors.WriteError(w, errors.ErrBodyTooLarge)
		} else {
			errors.WriteError(w, errors.ErrBadRequest.WithDetail("could not read body"))
		}
		return nil, false
	}
	r.Body = io.NopCloser(bytes.NewReader(raw))
	return raw, true
}

// decodeStrictJSON acepta solo objetos y arrays; un cuerpo vacío es {}.
func decodeStrictJSON(raw []byte) (any, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return map[string]any{}, nil
	}
	if trimmed[0] != '{' && trimmed[0] != '[' {
		return nil, stderrors.New("json body must be an object or array")
	}
	var v any
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return nil, err
	}
	return v, nil
}
