package rate

import (
	"context"
	"fmt"
	"strings"
	"time"

	rdb "github.com/redis/go-redis/v9"
)

// RedisLimiter cuenta hits en una ventana fija compartida entre instancias.
// Cada ventana usa su propia key (prefix + key + índice de ventana), que
// expira sola al cerrar.
type RedisLimiter struct {
	Client *rdb.Client
	Prefix string
	Max    int64
	Window time.Duration
}

func NewRedisLimiter(client *rdb.Client, prefix string, max int, window time.Duration) *RedisLimiter {
	if prefix == "" {
		prefix = "rl:"
	}
	return &RedisLimiter{Client: client, Prefix: prefix, Max: int64(max), Window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	now := time.Now()
	idx := now.UnixNano() / int64(l.Window)
	reset := time.Unix(0, (idx+1)*int64(l.Window))
	k := fmt.Sprintf("%s%s:%d", l.Prefix, strings.ReplaceAll(key, " ", "_"), idx)

	// INCR + EXPIREAT en la misma transacción: el cierre de la ventana es fijo,
	// así que repetir el EXPIREAT en cada hit no lo corre.
	pipe := l.Client.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireAt(ctx, k, reset)
	if _, err := pipe.Exec(ctx); err != nil {
		return Result{}, fmt.Errorf("rate: redis: %w", err)
	}
	return windowResult(incr.Val(), l.Max, now, reset), nil
}
