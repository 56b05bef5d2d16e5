package debug

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithDebug(t *testing.T) {
	assert.True(t, IsEnabled(WithDebug(context.Background(), true)))
	assert.False(t, IsEnabled(WithDebug(context.Background(), false)))
}

func TestIsEnabled_DefaultFalse(t *testing.T) {
	assert.False(t, IsEnabled(context.Background()))
}

func TestLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, Level(true))
	assert.Equal(t, slog.LevelWarn, Level(false))
}

func TestSetupLogger(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	logger := SetupLogger(&buf, false)
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
	assert.True(t, slog.Default().Enabled(context.Background(), slog.LevelWarn))

	slog.Debug("hidden")
	slog.Warn("shown", "id", "1234")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "id=1234")

	buf.Reset()
	SetupLogger(&buf, true)
	slog.Debug("visible")
	assert.Contains(t, buf.String(), "visible")
}
