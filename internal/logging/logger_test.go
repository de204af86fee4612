package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_JSONIncludesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "info", Format: "json", Output: &buf})
	require.NoError(t, err)

	NewComponentLogger(logger, "scorm").Info("package built", "files", 12)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "scorm", rec[FieldComponent])
	assert.Equal(t, "package built", rec["msg"])
	assert.EqualValues(t, 12, rec["files"])
}

func TestNew_LevelFilters(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Level: "warn", Output: &buf})
	require.NoError(t, err)

	logger.Info("hidden")
	assert.Empty(t, buf.String())
	logger.Warn("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_RejectsUnknownFormat(t *testing.T) {
	_, err := New(Options{Format: "xml"})
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, ParseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, ParseLevel("warning"))
	assert.Equal(t, slog.LevelInfo, ParseLevel("verbose"))
}

func TestWarnWithContext_InjectsDefaults(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(Options{Format: "json", Output: &buf})
	require.NoError(t, err)

	WarnWithContext(context.Background(), logger, "media skipped", "media_load_failed", String("media_id", "m1"))

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "media_load_failed", rec[FieldEventType])
	assert.Equal(t, "operation completed with warnings", rec[FieldImpact])
	assert.Equal(t, "m1", rec["media_id"])
}

func TestNewNop_Discards(t *testing.T) {
	assert.False(t, NewNop().Enabled(context.Background(), slog.LevelError))
	assert.NotNil(t, OrNop(nil))
}
