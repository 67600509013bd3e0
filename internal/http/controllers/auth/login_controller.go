package auth

import (
	"errors"
	"net/http"
	"time"

	dto "github.com/dvws-go/dvws/internal/http/dto/auth"
	httperrors "github.com/dvws-go/dvws/internal/http/errors"
	"github.com/dvws-go/dvws/internal/http/helpers"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	svc "github.com/dvws-go/dvws/internal/http/services/auth"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// LoginController maneja POST /api/v2/login.
type LoginController struct {
	service svc.LoginService
}

// NewLoginController crea un nuevo controller de login.
func NewLoginController(service svc.LoginService) *LoginController {
	return &LoginController{service: service}
}

// Login maneja POST /api/v2/login. Además del JSON, deja el token en la
// cookie "token" que el filtro acepta como alternativa al header.
func (c *LoginController) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.From(ctx).With(logger.Layer("controller"), logger.Op("LoginController.Login"))

	var req dto.CredentialsRequest
	if err := helpers.DecodeBody(r, &req); err != nil {
		httperrors.WriteError(w, httperrors.ErrInvalidJSON.WithCause(err))
		return
	}

	res, err := c.service.Login(ctx, req)
	if err != nil {
		switch {
		case errors.Is(err, svc.ErrMissingFields):
			httperrors.WriteError(w, httperrors.ErrMissingFields.WithDetail("username and password are required"))
		case errors.Is(err, svc.ErrInvalidCredentials):
			httperrors.WriteError(w, httperrors.ErrInvalidCredentials)
		default:
			log.Error("login failed", logger.Err(err))
			httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		}
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     mw.TokenCookie,
		Value:    res.Token,
		Path:     "/",
		Expires:  res.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	w.Header().Set("Cache-Control", "no-store")
	helpers.WriteJSON(w, http.StatusOK, dto.LoginResponse{
		Token:     res.Token,
		TokenType: "Bearer",
		ExpiresIn: int64(time.Until(res.ExpiresAt).Seconds()),
		User:      res.User,
	})
}
