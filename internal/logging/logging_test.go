package logging

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_WritesJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "app.log")
	cfg := DefaultConfig()
	cfg.File = path

	logger, err := New(cfg)
	require.NoError(t, err)
	logger.Named("assembler").Info("study pack ready", zap.String("pack_id", "p1"))
	logger.Debug("hidden at info level")
	require.NoError(t, logger.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "INFO", entry["level"])
	assert.Equal(t, "assembler", entry["logger"])
	assert.Equal(t, "study pack ready", entry["msg"])
	assert.Equal(t, "p1", entry["pack_id"])
}

func TestNew_Console(t *testing.T) {
	var buf bytes.Buffer
	logger, err := newLogger(Config{Level: "debug", Console: true}, &buf)
	require.NoError(t, err)

	logger.Debug("listening", zap.String("addr", ":8081"))
	require.NoError(t, logger.Sync())
	assert.Contains(t, buf.String(), "listening")
	assert.Contains(t, buf.String(), ":8081")
}

func TestNew_NoOutputs(t *testing.T) {
	logger, err := New(Config{Level: "info"})
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New(Config{Level: "loud"})
	assert.Error(t, err)
}
