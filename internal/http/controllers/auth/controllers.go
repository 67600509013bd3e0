// Package auth contiene los controllers de registro, login y sesión.
package auth

import svc "github.com/dvws-go/dvws/internal/http/services/auth"

// Controllers agrupa todos los controllers del dominio auth.
type Controllers struct {
	Register *RegisterController
	Login    *LoginController
	Session  *SessionController
}

// NewControllers crea el agregador de controllers auth.
func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		Register: NewRegisterController(s.Register),
		Login:    NewLoginController(s.Login),
		Session:  NewSessionController(s.Session),
	}
}
