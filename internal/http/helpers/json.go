package helpers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	mw "github.com/dvws-go/dvws/internal/http/middlewares"
)

// ErrNoBody indica que el request no trae cuerpo decodificable.
var ErrNoBody = errors.New("request body is empty")

// DecodeBody vuelca en v el cuerpo que dejó WithBodyParser (JSON o
// urlencoded). Sin cuerpo parseado, intenta decodificar r.Body como JSON
// limitado a 1MB. Es tolerante con campos desconocidos.
func DecodeBody(r *http.Request, v any) error {
	if body := mw.GetBody(r.Context()); body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		return json.Unmarshal(b, v)
	}
	if r.Body == nil || r.Body == http.NoBody {
		return ErrNoBody
	}
	if err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return ErrNoBody
		}
		return err
	}
	return nil
}

// WriteJSON escribe una respuesta JSON estándar.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
