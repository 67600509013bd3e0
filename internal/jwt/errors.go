package jwt

import (
	"encoding/json"
	"time"
)

// Nombres de error en el formato que esperan los clientes del laboratorio.
const (
	NameTokenExpired = "TokenExpiredError"
	NameNotBefore    = "NotBeforeError"
	NameJWT          = "JsonWebTokenError"
)

const (
	MsgExpired          = "jwt expired"
	MsgNotActive        = "jwt not active"
	MsgMalformed        = "jwt malformed"
	MsgInvalidSignature = "invalid signature"
	MsgInvalidAlgorithm = "invalid algorithm"
	MsgMustBeProvided   = "jwt must be provided"
	MsgInvalidPayload   = "invalid payload"
	MsgRevoked          = "jwt revoked"
	MsgInvalidNbf       = "invalid nbf value"
	MsgInvalidExp       = "invalid exp value"
)

// VerifyError es el cuerpo de un 401 por token inválido.
type VerifyError struct {
	Name      string     `json:"name"`
	Message   string     `json:"message"`
	ExpiredAt *time.Time `json:"expiredAt,omitempty"`
	Date      *time.Time `json:"date,omitempty"`
}

func (e *VerifyError) Error() string { return e.Name + ": " + e.Message }

// JSON serializa el error; nunca falla para este tipo.
func (e *VerifyError) JSON() []byte {
	b, _ := json.Marshal(e)
	return b
}

func newJWTError(msg string) *VerifyError {
	return &VerifyError{Name: NameJWT, Message: msg}
}

// Revoked es el error para tokens invalidados por logout.
func Revoked() *VerifyError { return newJWTError(MsgRevoked) }
