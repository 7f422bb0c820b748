package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chainchat/internal/api"
	"chainchat/internal/config"
	"chainchat/internal/session"
)

var loginAddress string

// loginCmd exchanges a wallet-signed challenge for a bearer token. The
// signature is produced externally (wallet app, hardware wallet, cast); this
// client never touches a private key.
var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with a wallet-signed challenge",
	Long: `Fetches the signable login challenge for your wallet address, waits for
the signature, and exchanges it for a bearer token.

Sign the challenge with the wallet that owns your agents, for example:

  cast wallet sign "<challenge>"

and paste the resulting signature when prompted.`,
	RunE: runLogin,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Discard the stored login credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := session.NewStore(config.StateDir())
		if err != nil {
			return err
		}
		if err := store.ClearCredentials(); err != nil {
			return err
		}
		fmt.Println("Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().StringVar(&loginAddress, "address", "", "Wallet address (default: wallet.address from config)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	address := loginAddress
	if address == "" {
		address = cfg.Wallet.Address
	}
	if address == "" {
		return fmt.Errorf("no wallet address: pass --address or set wallet.address in the config")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	client := api.NewClient(api.Config{BaseURL: cfg.API.BaseURL, Timeout: cfg.APITimeout()})

	challenge, err := client.LoginMessage(ctx, address)
	if err != nil {
		return fmt.Errorf("failed to fetch login challenge: %w", err)
	}

	fmt.Println("Sign this message with your wallet:")
	fmt.Println()
	fmt.Println("  " + strings.ReplaceAll(challenge, "\n", "\n  "))
	fmt.Println()
	fmt.Print("Signature: ")

	reader := bufio.NewReader(os.Stdin)
	signature, err := reader.ReadString('\n')
	if err != nil {
		return fmt.Errorf("failed to read signature: %w", err)
	}
	signature = strings.TrimSpace(signature)
	if signature == "" {
		return fmt.Errorf("empty signature")
	}

	resp, err := client.Login(ctx, api.LoginRequest{
		Signature: signature,
		Message:   challenge,
		Address:   address,
	})
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	store, err := session.NewStore(config.StateDir())
	if err != nil {
		return err
	}
	if err := store.SaveCredentials(session.Credentials{
		Token:      resp.Token,
		Address:    address,
		AgentID:    resp.Agent.ID,
		LoggedInAt: time.Now(),
	}); err != nil {
		return err
	}

	fmt.Printf("Logged in as %s\n", address)
	if expiry, err := session.TokenExpiry(resp.Token); err == nil && !expiry.IsZero() {
		fmt.Printf("Token valid until %s\n", expiry.Local().Format(time.RFC1123))
	}
	return nil
}
