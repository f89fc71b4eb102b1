package logx

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestSetLevel(t *testing.T) {
	prev := level.Level()
	t.Cleanup(func() { level.SetLevel(prev) })

	require.NoError(t, SetLevel("DEBUG"))
	require.True(t, L().Core().Enabled(zapcore.DebugLevel))
	derived := L().With(zap.String("k", "v"))

	require.NoError(t, SetLevel("warn"))
	require.False(t, L().Core().Enabled(zapcore.InfoLevel))
	require.False(t, derived.Core().Enabled(zapcore.InfoLevel))

	require.NoError(t, SetLevel(""))
	require.Equal(t, zapcore.WarnLevel, level.Level())
	require.Error(t, SetLevel("loud"))
}

func TestWithFields(t *testing.T) {
	require.Same(t, L(), WithFields(context.Background()))
	l := zap.NewNop()
	require.Same(t, l, WithFields(Into(context.Background(), l)))
}
