package graphql

import (
	"bytes"
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/graphql-go/graphql"

	httperrors "github.com/dvws-go/dvws/internal/http/errors"
	"github.com/dvws-go/dvws/internal/http/helpers"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// Request es una operación GraphQL tal como llega por HTTP.
type Request struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables"`
	OperationName string         `json:"operationName"`
}

// HandlerConfig configura el handler HTTP.
type HandlerConfig struct {
	// Batching acepta un array JSON de operaciones y responde otro array.
	Batching bool
	// MaxBatch acota el tamaño de un batch (default 10).
	MaxBatch int
	// MaxBodyBytes limita el cuerpo POST (default 1MB).
	MaxBodyBytes int64
}

// Handler ejecuta operaciones contra el schema. Acepta GET (query string) y
// POST (application/json o application/graphql).
type Handler struct {
	schema graphql.Schema
	cfg    HandlerConfig
}

func NewHandler(schema graphql.Schema, cfg HandlerConfig) *Handler {
	if cfg.MaxBatch <= 0 {
		cfg.MaxBatch = 10
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = 1 << 20
	}
	return &Handler{schema: schema, cfg: cfg}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		req, err := fromQuery(r)
		if err != nil {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail(err.Error()))
			return
		}
		helpers.WriteJSON(w, http.StatusOK, h.execute(r, req))

	case http.MethodPost:
		h.servePost(w, r)

	default:
		w.Header().Set("Allow", "GET, POST")
		httperrors.WriteError(w, httperrors.ErrMethodNotAllowed)
	}
}

func (h *Handler) servePost(w http.ResponseWriter, r *http.Request) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.cfg.MaxBodyBytes))
	if err != nil {
		httperrors.WriteError(w, httperrors.ErrBodyTooLarge)
		return
	}

	mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mt == "application/graphql" {
		helpers.WriteJSON(w, http.StatusOK, h.execute(r, Request{Query: string(raw)}))
		return
	}

	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		if !h.cfg.Batching {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("batched requests are disabled"))
			return
		}
		var batch []Request
		if err := json.Unmarshal(raw, &batch); err != nil {
			httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithCause(err))
			return
		}
		if len(batch) == 0 || len(batch) > h.cfg.MaxBatch {
			httperrors.WriteError(w, httperrors.ErrBadRequest.WithDetail("batch size out of range"))
			return
		}
		out := make([]*graphql.Result, len(batch))
		for i, req := range batch {
			out[i] = h.execute(r, req)
		}
		helpers.WriteJSON(w, http.StatusOK, out)
		return
	}

	var req Request
	if err := json.Unmarshal(raw, &req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, h.execute(r, req))
}

func (h *Handler) execute(r *http.Request, req Request) *graphql.Result {
	res := graphql.Do(graphql.Params{
		Schema:         h.schema,
		RequestString:  req.Query,
		VariableValues: req.Variables,
		OperationName:  req.OperationName,
		Context:        r.Context(),
	})
	if res.HasErrors() {
		logger.From(r.Context()).Debug("graphql errors",
			logger.Operation(req.OperationName), logger.Int("count", len(res.Errors)))
	}
	return res
}

// fromQuery lee query, variables (JSON) y operationName de la URL.
func fromQuery(r *http.Request) (Request, error) {
	q := r.URL.Query()
	req := Request{Query: q.Get("query"), OperationName: q.Get("operationName")}
	if v := q.Get("variables"); v != "" {
		if err := json.Unmarshal([]byte(v), &req.Variables); err != nil {
			return req, err
		}
	}
	return req, nil
}
