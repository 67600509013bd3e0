package rate

import (
	"context"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	xrate "golang.org/x/time/rate"
)

// MemoryLimiter limita por key con un token bucket en proceso: Max eventos por
// Window, con ráfaga Max. Sin Redis, cada instancia cuenta por separado.
//
// Un bucket sin uso durante Window ya está lleno otra vez, así que se guarda
// en go-cache con TTL Window (renovado en cada hit) y se purga al expirar.
type MemoryLimiter struct {
	Max    int
	Window time.Duration

	mu      sync.Mutex
	buckets *gocache.Cache
}

func NewMemoryLimiter(max int, window time.Duration) *MemoryLimiter {
	cleanup := window
	if cleanup < time.Second {
		cleanup = time.Second
	}
	return &MemoryLimiter{
		Max:     max,
		Window:  window,
		buckets: gocache.New(window, cleanup),
	}
}

func (l *MemoryLimiter) bucket(key string) *xrate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()
	if v, ok := l.buckets.Get(key); ok {
		b := v.(*xrate.Limiter)
		l.buckets.SetDefault(key, b)
		return b
	}
	every := l.Window / time.Duration(l.Max)
	b := xrate.NewLimiter(xrate.Every(every), l.Max)
	l.buckets.SetDefault(key, b)
	return b
}

// Len devuelve la cantidad de buckets vivos (incluye expirados aún no purgados).
func (l *MemoryLimiter) Len() int { return l.buckets.ItemCount() }

func (l *MemoryLimiter) Allow(_ context.Context, key string) (Result, error) {
	b := l.bucket(key)
	now := time.Now()
	r := b.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	if delay > 0 {
		r.CancelAt(now)
		return Result{
			Allowed:     false,
			Remaining:   0,
			RetryAfter:  delay,
			WindowTTL:   l.Window,
			CurrentHits: int64(l.Max) + 1,
		}, nil
	}
	remaining := int64(b.TokensAt(now))
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:     true,
		Remaining:   remaining,
		WindowTTL:   l.Window,
		CurrentHits: int64(l.Max) - remaining,
	}, nil
}
