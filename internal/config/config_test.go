package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080/api", cfg.API.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.APITimeout())
	assert.Equal(t, 3*time.Second, cfg.PollInterval())
	assert.Equal(t, "auto", cfg.Chat.Theme)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://api.example.com
wallet:
  address: "0xabc"
  chain_id: 10
chat:
  poll_interval: 5s
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.BaseURL)
	assert.Equal(t, "0xabc", cfg.Wallet.Address)
	assert.Equal(t, 10, cfg.Wallet.ChainID)
	assert.Equal(t, 5*time.Second, cfg.PollInterval())
	// Defaults survive for keys the file omits.
	assert.Equal(t, "30s", cfg.API.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
api:
  base_url: https://file.example.com
wallet:
  chain_id: 1
`), 0644))

	t.Setenv("CHAINCHAT_API_URL", "https://env.example.com")
	t.Setenv("CHAINCHAT_WALLET_ADDRESS", "0xenv")
	t.Setenv("CHAINCHAT_CHAIN_ID", "8453")
	t.Setenv("CHAINCHAT_POLL_INTERVAL", "10s")
	t.Setenv("CHAINCHAT_LOG_LEVEL", "debug")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://env.example.com", cfg.API.BaseURL)
	assert.Equal(t, "0xenv", cfg.Wallet.Address)
	assert.Equal(t, 8453, cfg.Wallet.ChainID)
	assert.Equal(t, 10*time.Second, cfg.PollInterval())
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoad_BadChainIDEnvIgnored(t *testing.T) {
	t.Setenv("CHAINCHAT_CHAIN_ID", "not-a-number")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Zero(t, cfg.Wallet.ChainID)
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	cfg := DefaultConfig()
	cfg.Wallet.Address = "0xround"
	cfg.RPC.URL = "https://mainnet.base.org"
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "0xround", loaded.Wallet.Address)
	assert.Equal(t, "https://mainnet.base.org", loaded.RPC.URL)
}

func TestStateDir_HomeOverride(t *testing.T) {
	t.Setenv("CHAINCHAT_HOME", "/tmp/chainchat-test")
	assert.Equal(t, "/tmp/chainchat-test", StateDir())
}

func TestDurationParsers_BadInput(t *testing.T) {
	cfg := DefaultConfig()
	cfg.API.Timeout = "soon"
	cfg.Chat.PollInterval = ""
	assert.Zero(t, cfg.APITimeout())
	assert.Zero(t, cfg.PollInterval())
}
