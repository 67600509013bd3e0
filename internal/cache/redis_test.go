package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

// Requiere DVWS_TEST_REDIS_ADDR apuntando a un Redis descartable.
func TestRedis_Integration(t *testing.T) {
	addr := os.Getenv("DVWS_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("DVWS_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	c, err := New(Config{Driver: "redis", Addr: addr, Prefix: "dvws-it-" + uuid.NewString()[:8]})
	require.NoError(t, err)
	defer c.Close()

	_, err = c.Get(ctx, "missing")
	require.True(t, IsNotFound(err))

	require.NoError(t, c.Set(ctx, "k", "v", time.Minute))
	v, err := c.Get(ctx, "k")
	require.NoError(t, err)
	require.Equal(t, "v", v)

	ok, err := c.Exists(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, c.Delete(ctx, "k"))
	ok, err = c.Exists(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}
