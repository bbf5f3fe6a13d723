package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_SameInstancePerSubsystem(t *testing.T) {
	a := Logger("test/sub")
	b := Logger("test/sub")
	assert.Same(t, a, b)
}

func TestSetLevel(t *testing.T) {
	l := Logger("test/level")
	require.NotNil(t, l)

	SetLevel("test/level", slog.LevelError)
	assert.False(t, l.Enabled(nil, slog.LevelInfo))

	SetLevel("test/level", slog.LevelDebug)
	assert.True(t, l.Enabled(nil, slog.LevelDebug))
}

func TestDiscard(t *testing.T) {
	l := Discard()
	assert.False(t, l.Enabled(nil, slog.LevelError))
	// 不应 panic
	l.Info("dropped")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("debug"))
	assert.Equal(t, slog.LevelWarn, parseLevel("WARNING"))
	assert.Equal(t, slog.LevelInfo, parseLevel("bogus"))
}
