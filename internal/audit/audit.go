// Package audit registra eventos de autenticación en un logger dedicado.
package audit

import (
	"context"

	"github.com/dvws-go/dvws/internal/observability/logger"
	"go.uber.org/zap"
)

// Eventos conocidos.
const (
	EventRegister     = "auth.register"
	EventLoginSuccess = "auth.login.success"
	EventLoginFailure = "auth.login.failure"
	EventLogout       = "auth.logout"
)

// Log escribe un evento de auditoría con el logger del contexto (named "audit").
func Log(ctx context.Context, event string, fields ...zap.Field) {
	fs := make([]zap.Field, 0, len(fields)+1)
	fs = append(fs, zap.String("event", event))
	fs = append(fs, fields...)
	logger.From(ctx).Named("audit").Info(event, fs...)
}
