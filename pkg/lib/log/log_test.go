package log

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLazyLogger_FollowsDefault(t *testing.T) {
	prev := Default()
	defer SetDefault(prev)

	var buf bytes.Buffer
	l := Logger("core/test")

	SetOutputWithLevel(&buf, slog.LevelInfo)
	l.Info("hello", "party", 1)
	l.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "component=core/test")
	assert.Contains(t, out, "party=1")
	assert.NotContains(t, out, "hidden")
	assert.False(t, l.Enabled(slog.LevelDebug))
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelError, ParseLevel(" error "))
	assert.Equal(t, slog.LevelInfo, ParseLevel("bogus"))
}
