package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// TestFromContext_FallsBackToGlobal ensures a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, Logger(), FromContext(context.Background()))
}

// TestToContextRoundtrip ensures a logger stored in a context is returned as is.
func TestToContextRoundtrip(t *testing.T) {
	t.Parallel()

	l := zap.NewNop().Sugar()
	ctx := ToContext(context.Background(), l)

	require.Same(t, l, FromContext(ctx))
}

// TestWithName ensures naming replaces the context logger without touching the global one.
func TestWithName(t *testing.T) {
	t.Parallel()

	ctx := ToContext(context.Background(), zap.NewNop().Sugar())
	named := WithName(ctx, "monitor")

	require.NotSame(t, FromContext(ctx), FromContext(named))
	require.Same(t, Logger(), FromContext(context.Background()))
}
