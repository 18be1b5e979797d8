package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoopBeforeInit(t *testing.T) {
	Use(nil)
	// Must not panic.
	Debug("debug %d", 1)
	Info("info")
	Warn("warn")
	Error("error")
	SetPrefix("x")
	assert.NoError(t, SetLevel("debug"))
}

func TestLevelsAndPrefix(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf)
	Use(l)
	defer Use(nil)

	Debug("hidden at info level")
	Info("profile %s applied", "Gaming")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "profile Gaming applied")
	assert.Contains(t, buf.String(), "DECK")

	require.NoError(t, l.SetLevel("debug"))
	SetPrefix("PID:42")
	Debug("now visible")
	assert.Contains(t, buf.String(), "[PID:42] now visible")

	assert.Error(t, l.SetLevel("loud"))
}

func TestInitLoggerWritesFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "logs")

	_, err := InitLogger(dir, 0)
	require.NoError(t, err)
	Warn("device %s missing", "out1")
	Close()

	data, err := os.ReadFile(filepath.Join(dir, LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), "device out1 missing")
}
