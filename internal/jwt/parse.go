package jwt

import (
	"errors"
	"strings"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
)

// Options controla la verificación de un token.
type Options struct {
	Issuer           string   // si no está vacío, "iss" debe coincidir
	Algorithms       []string // algs aceptados; vacío = los del Issuer
	IgnoreExpiration bool
}

// Verify valida firma y claims (nbf, exp, iss) y devuelve las claims.
// Los errores son siempre *VerifyError.
func (i *Issuer) Verify(token string, opts Options) (map[string]any, error) {
	if strings.TrimSpace(token) == "" {
		return nil, newJWTError(MsgMustBeProvided)
	}
	algs := opts.Algorithms
	if len(algs) == 0 {
		algs = i.Algorithms()
	}

	// exp/nbf/iss se chequean a mano para reproducir los mensajes de error.
	parser := jwtv5.NewParser(jwtv5.WithoutClaimsValidation())
	tok, err := parser.Parse(token, i.keyfunc(algs))
	if err != nil {
		return nil, mapParseError(err)
	}
	claims, ok := tok.Claims.(jwtv5.MapClaims)
	if !ok {
		return nil, newJWTError(MsgInvalidPayload)
	}

	now := time.Now()
	if v, present := claims["nbf"]; present {
		nbf, ok := numericTime(v)
		if !ok {
			return nil, newJWTError(MsgInvalidNbf)
		}
		if nbf.After(now) {
			return nil, &VerifyError{Name: NameNotBefore, Message: MsgNotActive, Date: &nbf}
		}
	}
	if v, present := claims["exp"]; present && !opts.IgnoreExpiration {
		exp, ok := numericTime(v)
		if !ok {
			return nil, newJWTError(MsgInvalidExp)
		}
		if !now.Before(exp) {
			return nil, &VerifyError{Name: NameTokenExpired, Message: MsgExpired, ExpiredAt: &exp}
		}
	}
	if opts.Issuer != "" {
		if iss, _ := claims["iss"].(string); iss != opts.Issuer {
			return nil, newJWTError("jwt issuer invalid. expected: " + opts.Issuer)
		}
	}

	out := make(map[string]any, len(claims))
	for k, v := range claims {
		out[k] = v
	}
	return out, nil
}

func mapParseError(err error) *VerifyError {
	switch {
	case errors.Is(err, errInvalidAlgorithm), errors.Is(err, jwtv5.ErrTokenUnverifiable):
		return newJWTError(MsgInvalidAlgorithm)
	case errors.Is(err, jwtv5.ErrTokenSignatureInvalid):
		return newJWTError(MsgInvalidSignature)
	default:
		return newJWTError(MsgMalformed)
	}
}

// numericTime interpreta un NumericDate (segundos) decodificado de JSON.
func numericTime(v any) (time.Time, bool) {
	switch n := v.(type) {
	case float64:
		return time.Unix(int64(n), 0).UTC(), true
	case int64:
		return time.Unix(n, 0).UTC(), true
	case int:
		return time.Unix(int64(n), 0).UTC(), true
	default:
		return time.Time{}, false
	}
}
