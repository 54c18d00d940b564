package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiaohua-travel/linebot/internal/config"
)

func TestLogrusLoggerFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := newLogrusLogger(&config.LoggingConfig{LogLevel: "loud"}, &buf)

	l.Debug("hidden")
	l.Info("visible")

	out := buf.String()
	assert.Contains(t, out, "Log level not found")
	assert.Contains(t, out, "visible")
	assert.NotContains(t, out, "hidden")
}

func TestLogrusLoggerJSONFields(t *testing.T) {
	var buf bytes.Buffer
	l := newLogrusLogger(&config.LoggingConfig{LogLevel: "debug", Format: "json"}, &buf)

	l.WithFields(Fields{"user_id": "U1"}).WithField("kind", "text").Debug("event received")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "event received", entry["msg"])
	assert.Equal(t, "U1", entry["user_id"])
	assert.Equal(t, "text", entry["kind"])
	assert.Equal(t, "debug", entry["level"])
}

func TestTestLoggerHelpers(t *testing.T) {
	l := NewTestLogger()
	l.WithField("a", 1).Warn("first warning")
	l.Error("boom")

	assert.True(t, l.HasEntry("warn", "first warning"))
	assert.True(t, l.HasEntryContaining("warn", "first"))
	assert.False(t, l.HasEntryContaining("error", "first"))
	require.Len(t, l.EntriesWithLevel("warn"), 1)
	assert.Equal(t, 1, l.EntriesWithLevel("warn")[0].Fields["a"])
	assert.Equal(t, 2, l.CountEntries())

	l.Clear()
	assert.Zero(t, l.CountEntries())
}
