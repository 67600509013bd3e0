package health

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheck(t *testing.T) {
	ok := func(context.Context) error { return nil }
	down := func(context.Context) error { return errors.New("connection refused") }

	s := NewHealthService(Deps{Version: "1.0", Checks: map[string]func(context.Context) error{"store": ok}})
	resp := s.Check(context.Background())
	require.Equal(t, "ready", resp.Status)
	require.Equal(t, "ok", resp.Components["store"].Status)

	s = NewHealthService(Deps{Checks: map[string]func(context.Context) error{"store": ok, "cache": down}})
	resp = s.Check(context.Background())
	require.Equal(t, "unavailable", resp.Status)
	require.Equal(t, "connection refused", resp.Components["cache"].Message)
}

func TestInfo(t *testing.T) {
	s := NewHealthService(Deps{Version: "dev", Issuer: "iss", Algorithms: []string{"HS256", "none"}, GraphQLAddr: ":4000"})
	info := s.Info(context.Background())
	require.Equal(t, "dvws", info.Name)
	require.Equal(t, []string{"HS256", "none"}, info.Algorithms)
}
