package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"chainchat/internal/chains"
	"chainchat/internal/config"
	"chainchat/internal/session"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show chainchat configuration and login state",
	RunE:  runStatus,
}

func runStatus(cmd *cobra.Command, args []string) error {
	fmt.Println("chainchat status")
	fmt.Println("================")
	fmt.Printf("Backend:   %s\n", cfg.API.BaseURL)
	if cfg.RPC.URL != "" {
		fmt.Printf("RPC:       %s\n", cfg.RPC.URL)
	}
	if cfg.Wallet.ChainID != 0 {
		fmt.Printf("Chain:     %s (%d)\n", chains.Name(cfg.Wallet.ChainID), cfg.Wallet.ChainID)
	} else {
		fmt.Printf("Chain:     %s (%d, fallback)\n", chains.Name(chains.DefaultChainID), chains.DefaultChainID)
	}
	fmt.Printf("State dir: %s\n", config.StateDir())
	fmt.Println()

	store, err := session.NewStore(config.StateDir())
	if err != nil {
		return err
	}
	creds, err := store.LoadCredentials()
	if err != nil {
		return err
	}

	if creds.Token == "" {
		fmt.Println("✗ Not logged in (run 'chainchat login')")
		return nil
	}

	fmt.Printf("✓ Logged in as %s\n", creds.Address)
	if expiry, err := session.TokenExpiry(creds.Token); err != nil {
		fmt.Println("✗ Stored token is unreadable; log in again")
	} else if !expiry.IsZero() {
		if time.Now().After(expiry) {
			fmt.Printf("✗ Token expired %s; log in again\n", expiry.Local().Format(time.RFC1123))
		} else {
			fmt.Printf("✓ Token valid until %s\n", expiry.Local().Format(time.RFC1123))
		}
	}

	if ref := store.ReadSessionRef(); ref != "" {
		fmt.Printf("✓ Current session: %s\n", ref)
	}

	// Reachability probe: the agent list is the cheapest authenticated call.
	client, _, err := authedClient()
	if err != nil {
		return nil
	}
	ctx, cancel := commandContext()
	defer cancel()
	if agents, err := client.Agents(ctx); err != nil {
		fmt.Printf("✗ Backend unreachable: %v\n", err)
	} else {
		fmt.Printf("✓ Backend reachable (%d agents)\n", len(agents))
	}
	return nil
}
