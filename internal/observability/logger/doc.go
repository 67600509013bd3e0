// Package logger expone un logger Zap singleton con scoping por contexto.
//
// Inicialización (una vez, en el comando serve):
//
//	logger.Init(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})
//	defer logger.Sync()
//
// En handlers y resolvers:
//
//	logger.From(ctx).Info("login ok", logger.Username(u))
//
// Sin contexto se usa logger.L().
package logger
