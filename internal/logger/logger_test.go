package logger

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mindcheck/mindcheck/internal/config"
)

func TestGet_NoopBeforeInitialize(t *testing.T) {
	require.NotNil(t, Get())
	Get().Info("dropped") // must not panic
}

func TestInitialize_JSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "mindcheck.log")
	require.NoError(t, Initialize(config.LogConfig{Level: "info", Format: "json", File: path}))

	Get().Debug("hidden")
	Get().Info("result saved", zap.String("assessment", "gad7"), zap.Int("score", 7))
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 1, "debug entry should be filtered")

	var entry map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &entry))
	assert.Equal(t, "result saved", entry["msg"])
	assert.Equal(t, "gad7", entry["assessment"])
	assert.Equal(t, float64(7), entry["score"])
	assert.Equal(t, "info", entry["level"])
}

func TestInitialize_Errors(t *testing.T) {
	dir := t.TempDir()
	assert.Error(t, Initialize(config.LogConfig{Level: "loud", Format: "json", File: filepath.Join(dir, "a.log")}))
	assert.Error(t, Initialize(config.LogConfig{Level: "info", Format: "xml", File: filepath.Join(dir, "b.log")}))
}

func TestInitialize_EmptyFileKeepsNoop(t *testing.T) {
	require.NoError(t, Initialize(config.LogConfig{Level: "info", Format: "console"}))
	assert.Equal(t, zapcore.InvalidLevel, Get().Level())
}

func TestSet(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	restore := Set(zap.New(core))
	defer restore()

	Get().Info("ignored")
	Get().Warn("store unavailable", zap.Error(os.ErrNotExist))

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "store unavailable", logs.All()[0].Message)
}
