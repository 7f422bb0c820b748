// Package config holds chainchat configuration: a YAML file under the state
// directory with environment variable overrides on top.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all chainchat configuration.
type Config struct {
	API     APIConfig     `yaml:"api"`
	RPC     RPCConfig     `yaml:"rpc"`
	Wallet  WalletConfig  `yaml:"wallet"`
	Chat    ChatConfig    `yaml:"chat"`
	Logging LoggingConfig `yaml:"logging"`
}

// APIConfig configures the backend REST client.
type APIConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// RPCConfig configures the JSON-RPC endpoint used for balance queries.
type RPCConfig struct {
	URL string `yaml:"url"`
}

// WalletConfig holds the wallet-side settings. The signature itself always
// comes from the user's wallet; only the address and chain live here.
type WalletConfig struct {
	Address   string `yaml:"address"`
	ChainID   int    `yaml:"chain_id"`
	ProjectID string `yaml:"walletconnect_project_id"`
}

// ChatConfig configures the interactive chat.
type ChatConfig struct {
	PollInterval string `yaml:"poll_interval"`
	Theme        string `yaml:"theme"` // light, dark, auto
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
	File   string `yaml:"file"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL: "http://localhost:8080/api",
			Timeout: "30s",
		},
		Chat: ChatConfig{
			PollInterval: "3s",
			Theme:        "auto",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// StateDir returns the directory for config, credentials, session refs, and
// logs. CHAINCHAT_HOME overrides the default ~/.chainchat.
func StateDir() string {
	if dir := os.Getenv("CHAINCHAT_HOME"); dir != "" {
		return dir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".chainchat"
	}
	return filepath.Join(home, ".chainchat")
}

// DefaultPath returns the default config file location.
func DefaultPath() string {
	return filepath.Join(StateDir(), "config.yaml")
}

// Load reads configuration from a YAML file, falling back to defaults when
// the file does not exist, then applies .env and environment overrides.
func Load(path string) (*Config, error) {
	// Local .env files are a convenience for development setups.
	_ = godotenv.Load()

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides applies environment variable overrides.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("CHAINCHAT_API_URL"); v != "" {
		c.API.BaseURL = v
	}
	if v := os.Getenv("CHAINCHAT_RPC_URL"); v != "" {
		c.RPC.URL = v
	}
	if v := os.Getenv("CHAINCHAT_WALLET_ADDRESS"); v != "" {
		c.Wallet.Address = v
	}
	if v := os.Getenv("CHAINCHAT_CHAIN_ID"); v != "" {
		if id, err := strconv.Atoi(v); err == nil {
			c.Wallet.ChainID = id
		}
	}
	if v := os.Getenv("WALLETCONNECT_PROJECT_ID"); v != "" {
		c.Wallet.ProjectID = v
	}
	if v := os.Getenv("CHAINCHAT_POLL_INTERVAL"); v != "" {
		c.Chat.PollInterval = v
	}
	if v := os.Getenv("CHAINCHAT_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// APITimeout parses the REST client timeout, zero on bad input.
func (c *Config) APITimeout() time.Duration {
	d, err := time.ParseDuration(c.API.Timeout)
	if err != nil {
		return 0
	}
	return d
}

// PollInterval parses the transcript poll cadence, zero (caller default) on
// bad input.
func (c *Config) PollInterval() time.Duration {
	d, err := time.ParseDuration(c.Chat.PollInterval)
	if err != nil {
		return 0
	}
	return d
}
