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

func TestNewWriter_JSONUsesTimestampKey(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter("debug", "json", &buf)
	logger.Debug("fetched page", zap.Int("page", 2))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "fetched page", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Contains(t, entry, "timestamp")
	assert.EqualValues(t, 2, entry["page"])
}

func TestNewWriter_LevelFiltersAndFallsBack(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWriter("warn", "console", &buf)
	logger.Info("hidden")
	logger.Warn("shown")
	_ = logger.Sync()
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "WARN")

	buf.Reset()
	logger = NewWriter("loud", "console", &buf)
	logger.Debug("hidden")
	logger.Info("shown")
	_ = logger.Sync()
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}

func TestNew_WritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "pokedex.log")
	logger, closeFn, err := New("info", "json", path)
	require.NoError(t, err)

	logger.Info("capture reverted", zap.String("key", "25:Pikachu"))
	require.NoError(t, closeFn())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "25:Pikachu"))
}
