package logger

import (
	"go.uber.org/zap"
)

// =================================================================================
// CAMPOS ESTÁNDAR - HTTP
// =================================================================================

func RequestID(v string) zap.Field { return zap.String("request_id", v) }
func Method(v string) zap.Field    { return zap.String("method", v) }
func Path(v string) zap.Field      { return zap.String("path", v) }
func Status(v int) zap.Field       { return zap.Int("status", v) }
func DurationMs(v int64) zap.Field { return zap.Int64("duration_ms", v) }
func Bytes(v int) zap.Field        { return zap.Int("bytes", v) }
func ClientIP(v string) zap.Field  { return zap.String("client_ip", v) }
func UserAgent(v string) zap.Field { return zap.String("user_agent", v) }
func Addr(v string) zap.Field      { return zap.String("addr", v) }

// =================================================================================
// CAMPOS ESTÁNDAR - DOMINIO
// =================================================================================

func Protocol(v string) zap.Field  { return zap.String("protocol", v) }
func Operation(v string) zap.Field { return zap.String("operation", v) }
func Filename(v string) zap.Field  { return zap.String("filename", v) }
func Username(v string) zap.Field  { return zap.String("username", v) }
func UserID(v string) zap.Field    { return zap.String("user_id", v) }
func Component(v string) zap.Field { return zap.String("component", v) }
func Op(v string) zap.Field        { return zap.String("op", v) }
func Layer(v string) zap.Field     { return zap.String("layer", v) }

// Genéricos.

func Err(err error) zap.Field         { return zap.Error(err) }
func Any(k string, v any) zap.Field   { return zap.Any(k, v) }
func String(k, v string) zap.Field    { return zap.String(k, v) }
func Int(k string, v int) zap.Field   { return zap.Int(k, v) }
func Bool(k string, v bool) zap.Field { return zap.Bool(k, v) }
