package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"chainchat/internal/config"
	"chainchat/internal/logging"
)

var (
	// Global flags
	cfgPath   string
	verbose   bool
	sessionID string

	cfg *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "chainchat",
	Short: "chainchat - terminal client for contract-agent chat",
	Long: `chainchat is a terminal client for the contract-agent backend.

Log in with a wallet-signed challenge, manage your on-chain agents, and chat
with them interactively. Agent-proposed blockchain actions are shown for
review and can be edited as JSON before being confirmed or rejected.

Run without arguments to start the interactive chat interface.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		path := cfgPath
		if path == "" {
			path = config.DefaultPath()
		}
		var err error
		cfg, err = config.Load(path)
		if err != nil {
			return err
		}

		// Log to a file under the state dir so output never corrupts the TUI.
		return logging.Initialize(logging.Options{
			Level:   cfg.Logging.Level,
			Format:  cfg.Logging.Format,
			File:    logFile(),
			Verbose: verbose,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.Sync()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		// Default behavior: launch interactive chat
		return runInteractiveChat(cfg, sessionID)
	},
}

// chatCmd is the explicit form of the default interactive chat
var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start the interactive chat interface",
	Long: `Starts the interactive chat. With --session an existing session is
resumed; otherwise the current-session ref file is consulted, and a fresh
session is created by the first message when neither names one.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runInteractiveChat(cfg, sessionID)
	},
}

func logFile() string {
	if cfg != nil && cfg.Logging.File != "" {
		return cfg.Logging.File
	}
	return filepath.Join(config.StateDir(), "logs", "chainchat.log")
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Config file (default: ~/.chainchat/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&sessionID, "session", "s", "", "Chat session id to resume")

	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(agentsCmd)
	rootCmd.AddCommand(balanceCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
