package jwt

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/dvws-go/dvws/internal/cache"
)

// Revocations guarda los tokens invalidados por logout hasta su expiración.
type Revocations struct {
	c cache.Client
}

func NewRevocations(c cache.Client) *Revocations { return &Revocations{c: c} }

// Revoke marca el token como revocado hasta exp. Un exp en el pasado no hace nada.
func (r *Revocations) Revoke(ctx context.Context, raw string, claims map[string]any) error {
	ttl := time.Duration(0)
	if exp, ok := numericTime(claims["exp"]); ok {
		ttl = time.Until(exp)
		if ttl <= 0 {
			return nil
		}
	}
	return r.c.Set(ctx, revocationKey(raw, claims), "1", ttl)
}

// IsRevoked reporta si el token fue revocado.
func (r *Revocations) IsRevoked(ctx context.Context, raw string, claims map[string]any) (bool, error) {
	return r.c.Exists(ctx, revocationKey(raw, claims))
}

func revocationKey(raw string, claims map[string]any) string {
	if jti, _ := claims["jti"].(string); jti != "" {
		return "revoked:jti:" + jti
	}
	sum := sha256.Sum256([]byte(raw))
	return "revoked:sha:" + hex.EncodeToString(sum[:])
}
