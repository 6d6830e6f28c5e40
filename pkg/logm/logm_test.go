package logm_test

import (
	"bytes"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lwmacct/260828-go-pkg-cfgr/pkg/logm"
)

func TestSetup_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logm.Setup(logm.Options{Format: logm.FormatJSON, Output: &buf}))

	slog.Info("hello", "key", "value")

	assert.Contains(t, buf.String(), `"msg":"hello"`)
	assert.Contains(t, buf.String(), `"key":"value"`)
}

func TestSetup_DefaultLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logm.Setup(logm.Options{Output: &buf}))

	slog.Debug("hidden")
	assert.NotContains(t, buf.String(), "hidden")

	slog.Info("shown")
	assert.Contains(t, buf.String(), "shown")
}

func TestSetDebug_EnablesDebugRecords(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logm.Setup(logm.Options{Output: &buf}))

	slog.Debug("before")
	assert.NotContains(t, buf.String(), "before")

	logm.SetDebug()
	slog.Debug("after")
	assert.Contains(t, buf.String(), "after")
}

func TestSetup_ExplicitLevel(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, logm.Setup(logm.Options{Level: slog.LevelDebug, Output: &buf}))

	slog.Debug("verbose")
	assert.Contains(t, buf.String(), "verbose")
}
