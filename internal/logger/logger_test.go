package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel(" warning "))
	assert.Equal(t, slog.LevelError, ParseLevel("error"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("chatty"))
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Service: "orders", Env: "test", Level: "info", Output: &buf})

	log.Debug("dropped")
	log.Info("kept", slog.Int("order_id", 7))

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "kept", line["msg"])
	assert.Equal(t, "orders", line["service"])
	assert.Equal(t, "test", line["env"])
	assert.EqualValues(t, 7, line["order_id"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	log := New(Options{Service: "orders", Format: "text", Output: &buf})
	log.Warn("careful")
	assert.Contains(t, buf.String(), "msg=careful")
	assert.Contains(t, buf.String(), "service=orders")
}
