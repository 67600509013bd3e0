package rate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestMemoryLimiter_BlocksAfterMax(t *testing.T) {
	l := NewMemoryLimiter(3, time.Minute)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		res, err := l.Allow(ctx, "login:1.2.3.4")
		require.NoError(t, err)
		require.True(t, res.Allowed, "hit %d", i+1)
	}

	res, err := l.Allow(ctx, "login:1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.Greater(t, res.RetryAfter, time.Duration(0))

	// otra key tiene su propio bucket
	res, err = l.Allow(ctx, "login:5.6.7.8")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestMemoryLimiter_EvictsIdleBuckets(t *testing.T) {
	l := NewMemoryLimiter(1, 50*time.Millisecond)
	ctx := context.Background()

	for _, k := range []string{"login:a", "login:b", "login:c"} {
		_, err := l.Allow(ctx, k)
		require.NoError(t, err)
	}
	require.Equal(t, 3, l.Len())

	time.Sleep(120 * time.Millisecond)
	l.buckets.DeleteExpired()
	require.Zero(t, l.Len())

	// una key expirada arranca con el bucket lleno
	res, err := l.Allow(ctx, "login:a")
	require.NoError(t, err)
	require.True(t, res.Allowed)
}

func TestWindowResult(t *testing.T) {
	now := time.Unix(1000, 0)

	r := windowResult(2, 5, now, now.Add(30*time.Second))
	require.True(t, r.Allowed)
	require.EqualValues(t, 3, r.Remaining)
	require.Equal(t, 30*time.Second, r.WindowTTL)
	require.Zero(t, r.RetryAfter)

	r = windowResult(6, 5, now, now.Add(12400*time.Millisecond))
	require.False(t, r.Allowed)
	require.EqualValues(t, 0, r.Remaining)
	require.Equal(t, 12*time.Second, r.RetryAfter)

	// ventana ya cerrada: nunca Retry-After 0
	r = windowResult(6, 5, now, now)
	require.Equal(t, time.Second, r.RetryAfter)
}
