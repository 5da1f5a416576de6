package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func restore(t *testing.T) {
	t.Helper()
	prev := L
	t.Cleanup(func() { L = prev })
}

func Test_Init_DisabledIsNop(t *testing.T) {
	restore(t)

	require.NoError(t, Init(Options{Enabled: false}))
	assert.False(t, L.Core().Enabled(zap.ErrorLevel))
}

func Test_Init_WritesToFile(t *testing.T) {
	restore(t)
	path := filepath.Join(t.TempDir(), "logs", "memsim.log")

	require.NoError(t, Init(Options{Enabled: true, Path: path, Level: "debug", JSON: true}))
	Debug("reclaimed frames", zap.String("victim", "P1"), zap.Ints("frames", []int{0, 1}))
	Info("simulation finished")
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"reclaimed frames"`)
	assert.Contains(t, string(data), `"victim":"P1"`)
	assert.Contains(t, string(data), `"msg":"simulation finished"`)
}

func Test_Init_LevelFilters(t *testing.T) {
	restore(t)
	path := filepath.Join(t.TempDir(), "memsim.log")

	require.NoError(t, Init(Options{Enabled: true, Path: path, Level: "warn"}))
	Info("hidden")
	Warn("shown")
	require.NoError(t, Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func Test_Init_BadLevel(t *testing.T) {
	restore(t)
	assert.Error(t, Init(Options{Enabled: true, Level: "loud"}))
}
