package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestWithOperation(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	first := WithOperation(base, "swap")
	second := WithOperation(base, "swap")
	first.Info("quote requested")
	second.Info("quote requested")

	entries := logs.All()
	require.Len(t, entries, 2)
	ctx0 := entries[0].ContextMap()
	ctx1 := entries[1].ContextMap()
	assert.Equal(t, "swap", ctx0["operation"])
	assert.NotEmpty(t, ctx0["correlation_id"])
	assert.NotEqual(t, ctx0["correlation_id"], ctx1["correlation_id"])
}

func TestShortenAddress(t *testing.T) {
	assert.Equal(t, "Abcd...wxyz", ShortenAddress("Abcdefghijklmnopqrstuvwxyz"))
	assert.Equal(t, "short", ShortenAddress("short"))
}

func TestCreatePrettyLogger(t *testing.T) {
	log, err := CreatePrettyLogger(false)
	require.NoError(t, err)
	assert.False(t, log.Core().Enabled(zapcore.DebugLevel))

	debugLog, err := CreatePrettyLogger(true)
	require.NoError(t, err)
	assert.True(t, debugLog.Core().Enabled(zapcore.DebugLevel))
}
