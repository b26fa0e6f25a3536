package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/funkymunkycool/classical-dipoles/config"
)

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, config.LoggingConfig{Level: "warn", Format: "JSON"})

	log.Info("hidden")
	log.Warn("frame degenerate", "frame", 5)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "frame degenerate", rec["msg"])
	assert.Equal(t, float64(5), rec["frame"])
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel(" Debug "))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel("verbose"))
}
