package audit

import (
	"context"
	"testing"

	"github.com/dvws-go/dvws/internal/observability/logger"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLog(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	ctx := logger.ToContext(context.Background(), zap.New(core))

	Log(ctx, EventLoginFailure, logger.Username("admin"))

	entries := logs.All()
	require.Len(t, entries, 1)
	e := entries[0]
	require.Equal(t, "audit", e.LoggerName)
	require.Equal(t, EventLoginFailure, e.Message)
	fields := e.ContextMap()
	require.Equal(t, EventLoginFailure, fields["event"])
	require.Equal(t, "admin", fields["username"])
}
