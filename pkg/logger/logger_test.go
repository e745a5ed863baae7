package logger

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	log, err := New("", "warn", WithOutput(&buf))
	require.NoError(t, err)

	log.Info("plan %d committed", 1)
	log.Warn("slot %s rejected", "2026-02-10/3")
	log.Error("store failed: %v", "boom")

	out := buf.String()
	assert.NotContains(t, out, "plan 1 committed")
	assert.Contains(t, out, "[WARN] slot 2026-02-10/3 rejected")
	assert.Contains(t, out, "[ERROR] store failed: boom")
}

func TestLogger_WritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "service.log")

	var buf bytes.Buffer
	log, err := New(path, "info", WithOutput(&buf), WithRotation(Rotation{MaxSizeMB: 1, MaxBackups: 1}))
	require.NoError(t, err)

	log.Info("hello %s", "file")
	require.NoError(t, log.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "[INFO] hello file")
	assert.Contains(t, buf.String(), "[INFO] hello file")
}

func TestParseLevel(t *testing.T) {
	lvl, err := ParseLevel("DEBUG")
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, lvl)

	lvl, err = ParseLevel("")
	require.NoError(t, err)
	assert.Equal(t, LevelInfo, lvl)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}
