package jwt

import (
	"errors"
	"time"

	jwtv5 "github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const (
	AlgHS256 = "HS256"
	AlgNone  = "none"
)

// Issuer firma y verifica tokens HS256 con un secreto compartido.
type Issuer struct {
	Iss       string        // "iss"
	Secret    []byte        // secreto HMAC
	AccessTTL time.Duration // TTL por defecto (ej: 48h)
	// AllowNone acepta tokens sin firmar (alg "none") en la verificación.
	// Apagado por defecto; el servidor lo prende desde config (JWT_ALLOW_NONE).
	AllowNone bool
}

func NewIssuer(iss string, secret []byte, ttl time.Duration) *Issuer {
	if ttl <= 0 {
		ttl = 48 * time.Hour
	}
	return &Issuer{
		Iss:       iss,
		Secret:    secret,
		AccessTTL: ttl,
	}
}

// Algorithms devuelve los algoritmos aceptados por defecto.
func (i *Issuer) Algorithms() []string {
	if i.AllowNone {
		return []string{AlgHS256, AlgNone}
	}
	return []string{AlgHS256}
}

// RESTOptions: issuer verificado, expiración exigida.
func (i *Issuer) RESTOptions() Options {
	return Options{Issuer: i.Iss, Algorithms: i.Algorithms()}
}

// GraphQLOptions: igual que REST pero ignora la expiración.
func (i *Issuer) GraphQLOptions() Options {
	return Options{Issuer: i.Iss, Algorithms: i.Algorithms(), IgnoreExpiration: true}
}

// Sign firma claims con HS256. Completa iss, iat, exp y jti si el caller no los puso.
// Devuelve el token y su expiración.
func (i *Issuer) Sign(claims map[string]any) (string, time.Time, error) {
	mc, exp := i.stamp(claims)
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodHS256, mc).SignedString(i.Secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// SignUnsigned emite un token con alg "none" (sin firma). Lo usa el CLI para
// generar tokens de prueba.
func (i *Issuer) SignUnsigned(claims map[string]any) (string, time.Time, error) {
	mc, exp := i.stamp(claims)
	signed, err := jwtv5.NewWithClaims(jwtv5.SigningMethodNone, mc).SignedString(jwtv5.UnsafeAllowNoneSignatureType)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

func (i *Issuer) stamp(claims map[string]any) (jwtv5.MapClaims, time.Time) {
	now := time.Now().UTC()
	exp := now.Add(i.AccessTTL)

	mc := jwtv5.MapClaims{
		"iss": i.Iss,
		"iat": now.Unix(),
		"exp": exp.Unix(),
		"jti": uuid.NewString(),
	}
	for k, v := range claims {
		mc[k] = v
	}
	if t, ok := numericTime(mc["exp"]); ok {
		exp = t
	}
	return mc, exp
}

// keyfunc resuelve la clave según el alg del header, restringido a algs.
func (i *Issuer) keyfunc(algs []string) jwtv5.Keyfunc {
	return func(t *jwtv5.Token) (any, error) {
		alg := t.Method.Alg()
		if !contains(algs, alg) {
			return nil, errInvalidAlgorithm
		}
		switch t.Method {
		case jwtv5.SigningMethodNone:
			return jwtv5.UnsafeAllowNoneSignatureType, nil
		case jwtv5.SigningMethodHS256:
			return i.Secret, nil
		default:
			return nil, errInvalidAlgorithm
		}
	}
}

var errInvalidAlgorithm = errors.New("invalid algorithm")

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
