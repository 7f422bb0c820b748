package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerIsNopBeforeInitialize(t *testing.T) {
	// Must not panic or write anywhere.
	L(CategoryChat).Infow("quiet", "key", "value")
}

func TestInitializeWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "chainchat.log")
	require.NoError(t, Initialize(Options{Level: "debug", Format: "json", File: path}))
	defer func() {
		require.NoError(t, Initialize(Options{File: filepath.Join(t.TempDir(), "discard.log")}))
	}()

	L(CategoryPoller).Infow("tick", "session", "chat-1")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"msg":"tick"`)
	assert.Contains(t, string(data), `"session":"chat-1"`)
	assert.Contains(t, string(data), CategoryPoller)
}

func TestInitializeLevelFiltering(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chainchat.log")
	require.NoError(t, Initialize(Options{Level: "error", Format: "json", File: path}))
	defer func() {
		require.NoError(t, Initialize(Options{File: filepath.Join(t.TempDir(), "discard.log")}))
	}()

	L(CategoryAPI).Infow("dropped")
	L(CategoryAPI).Errorw("kept")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "dropped")
	assert.Contains(t, string(data), "kept")
}

func TestVerboseForcesDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chainchat.log")
	require.NoError(t, Initialize(Options{Level: "error", Verbose: true, Format: "json", File: path}))
	defer func() {
		require.NoError(t, Initialize(Options{File: filepath.Join(t.TempDir(), "discard.log")}))
	}()

	L(CategoryRPC).Debugw("visible")
	Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.Contains(string(data), "visible"))
}
