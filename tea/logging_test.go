package tea

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogToFileWrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "teacup.log")

	logger, f, err := LogToFile(path, "test")
	require.NoError(t, err)
	logger.Info("hello", "k", 1)
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "hello")
	assert.Contains(t, string(data), "test")
}

func TestLogToFileRotation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teacup.log")
	require.NoError(t, os.WriteFile(path, make([]byte, maxLogSize+1), 0o600))

	_, f, err := LogToFile(path, "")
	require.NoError(t, err)
	defer f.Close()

	info, err := os.Stat(path + ".1")
	require.NoError(t, err)
	assert.Equal(t, int64(maxLogSize+1), info.Size())

	info, err = os.Stat(path)
	require.NoError(t, err)
	assert.Zero(t, info.Size())
}

func TestLogToFileAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "teacup.log")
	require.NoError(t, os.WriteFile(path, []byte("previous\n"), 0o600))

	logger, f, err := LogToFile(path, "")
	require.NoError(t, err)
	logger.Warn("next")
	require.NoError(t, f.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "previous\n")
	assert.Contains(t, string(data), "next")
}
