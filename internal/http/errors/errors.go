package errors

import (
	"encoding/json"
	"net/http"

	"github.com/dvws-go/dvws/internal/observability/logger"
)

// errorResponse controla qué campos llegan al cliente.
type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

// WriteError escribe err como JSON. Los 5xx se loguean con su causa.
func WriteError(w http.ResponseWriter, err error) {
	appErr := FromError(err)

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(appErr.HTTPStatus)

	if appErr.HTTPStatus >= 500 {
		logger.L().Error("request failed",
			logger.String("code", appErr.Code),
			logger.Err(appErr.Err),
		)
	}

	_ = json.NewEncoder(w).Encode(errorResponse{
		Code:    appErr.Code,
		Message: appErr.Message,
		Detail:  appErr.Detail,
	})
}
