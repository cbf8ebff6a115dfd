package logging

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWriter_RenamesErrorKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelInfo, false)

	logger.Info("cache failed", "error", errors.New("boom"))
	assert.Contains(t, buf.String(), "err=boom")
	assert.NotContains(t, buf.String(), "error=")
}

func TestNewWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelDebug, true)

	logger.Debug("tick", "index", 3, "error", "late")
	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "tick", line["msg"])
	assert.Equal(t, 3.0, line["index"])
	assert.Equal(t, "late", line["err"])
}

func TestNewWriter_Level(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter(&buf, slog.LevelWarn, false)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
}

func TestNewNop(t *testing.T) {
	assert.False(t, NewNop().Enabled(t.Context(), slog.LevelError))
}
