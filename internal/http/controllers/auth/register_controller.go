package auth

import (
	"errors"
	"net/http"

	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	httperrors "github.com/dvws-go/dvws/internal/http/errors"
	"github.com/dvws-go/dvws/internal/http/helpers"
	svc "github.com/dvws-go/dvws/internal/http/services/auth"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// RegisterController maneja POST /api/v2/users.
type RegisterController struct {
	service svc.RegisterService
}

// NewRegisterController crea un nuevo controller de registro.
func NewRegisterController(service svc.RegisterService) *RegisterController {
	return &RegisterController{service: service}
}

// Register maneja POST /api/v2/users
func (c *RegisterController) Register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("RegisterController.Register"))

	var req dto.CredentialsRequest
	if err := helpers.DecodeBody(r, &req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithCause(err))
		return
	}

	user, err := c.service.Register(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("username and password are required"))
		case errors.Is(err, svc.ErrInvalidUsername):
			httperrors.WriteError(w, httperrors.ErrInvalidUsername)
		case errors.Is(err, svc.ErrUsernameTaken):
			httperrors.WriteError(w, httperrors.ErrUsernameTaken)
		default:
			log.Error("register failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	helpers.WriteJSON(w, http.StatusCreated, dto.RegisterResponse{User: *user})
}
