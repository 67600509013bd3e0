package auth

import (
	"net/http"

	httperrors "github.com/dvws-go/dvws/internal/http/errors"
	"github.com/dvws-go/dvws/internal/http/helpers"
	mw "github.com/dvws-go/dvws/internal/http/middlewares"
	svc "github.com/dvws-go/dvws/internal/http/services/auth"
	"github.com/dvws-go/dvws/internal/observability/logger"
)

// SessionController maneja las rutas que requieren token verificado.
type SessionController struct {
	service svc.SessionService
}

// NewSessionController crea un nuevo controller de sesión.
func NewSessionController(service svc.SessionService) *SessionController {
	return &SessionController{service: service}
}

// Me maneja GET /api/v2/users/me
func (c *SessionController) Me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	res, err := c.service.Me(ctx, mw.GetClaims(ctx))
	if err != nil {
		logger.From(ctx).Error("me failed", logger.Layer("controller"), logger.Op("SessionController.Me"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrInternalServerError.WithCause(err))
		return
	}
	helpers.WriteJSON(w, http.StatusOK, res)
}

// Logout maneja POST /api/v2/logout. Revoca el token presentado y borra la cookie.
func (c *SessionController) Logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := c.service.Logout(ctx, mw.GetToken(ctx), mw.GetClaims(ctx)); err != nil {
		logger.From(ctx).Error("logout failed", logger.Layer("controller"), logger.Op("SessionController.Logout"), logger.Err(err))
		httperrors.WriteError(w, httperrors.ErrServiceUnavailable.WithCause(err))
		return
	}

	http.SetCookie(w, &http.Cookie{Name: mw.TokenCookie, Value: "", Path: "/", MaxAge: -1, HttpOnly: true})
	w.WriteHeader(http.StatusNoContent)
}
