package logger_test

import (
	"tasksAPI/internal/logger"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func resetLogger(t *testing.T) {
	t.Cleanup(func() { logger.Logger = zap.NewNop() })
}

func TestInit_Off(t *testing.T) {
	resetLogger(t)

	require.NoError(t, logger.Init(false, logger.LevelOff))
	assert.False(t, logger.Logger.Core().Enabled(zapcore.FatalLevel))
}

func TestInit_Level(t *testing.T) {
	resetLogger(t)

	require.NoError(t, logger.Init(false, "warn"))
	assert.False(t, logger.Logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Logger.Core().Enabled(zapcore.WarnLevel))
}

func TestInit_DefaultLevels(t *testing.T) {
	resetLogger(t)

	require.NoError(t, logger.Init(true, ""))
	assert.True(t, logger.Logger.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, logger.Init(false, ""))
	assert.False(t, logger.Logger.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, logger.Logger.Core().Enabled(zapcore.InfoLevel))
}

func TestInit_UnknownLevel(t *testing.T) {
	resetLogger(t)

	assert.Error(t, logger.Init(false, "loud"))
}
