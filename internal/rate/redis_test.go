package rate

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	rdb "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

// Requiere DVWS_TEST_REDIS_ADDR apuntando a un Redis descartable.
func TestRedisLimiter_Integration(t *testing.T) {
	addr := os.Getenv("DVWS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DVWS_TEST_REDIS_ADDR not set")
	}
	client := rdb.NewClient(&rdb.Options{Addr: addr})
	defer client.Close()

	ctx := context.Background()
	l := NewRedisLimiter(client, "dvws-it:"+uuid.NewString()[:8]+":", 2, time.Hour)

	for i := 0; i < 2; i++ {
		res, err := l.Allow(ctx, "login 1.2.3.4")
		require.NoError(t, err)
		require.True(t, res.Allowed)
	}
	res, err := l.Allow(ctx, "login 1.2.3.4")
	require.NoError(t, err)
	require.False(t, res.Allowed)
	require.EqualValues(t, 3, res.CurrentHits)
	require.Greater(t, res.RetryAfter, time.Duration(0))
}
