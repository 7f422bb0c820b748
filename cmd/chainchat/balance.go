package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"chainchat/internal/chains"
	"chainchat/internal/rpc"
)

var balanceAddress string

var balanceCmd = &cobra.Command{
	Use:   "balance",
	Short: "Show the native token balance of a wallet",
	RunE:  runBalance,
}

func init() {
	balanceCmd.Flags().StringVar(&balanceAddress, "address", "", "Wallet address (default: wallet.address from config)")
}

func runBalance(cmd *cobra.Command, args []string) error {
	address := balanceAddress
	if address == "" {
		address = cfg.Wallet.Address
	}
	if address == "" {
		return fmt.Errorf("no wallet address: pass --address or set wallet.address in the config")
	}
	if cfg.RPC.URL == "" {
		return fmt.Errorf("no RPC endpoint: set rpc.url in the config or CHAINCHAT_RPC_URL")
	}

	ctx, cancel := commandContext()
	defer cancel()

	client := rpc.NewClient(cfg.RPC.URL)

	chainID := cfg.Wallet.ChainID
	if id, err := client.ChainID(ctx); err == nil {
		chainID = id
	}
	if chainID == 0 {
		chainID = chains.DefaultChainID
	}

	wei, err := client.BalanceAt(ctx, address)
	if err != nil {
		return fmt.Errorf("balance query failed: %w", err)
	}

	fmt.Printf("%s %s on %s\n", rpc.FormatEther(wei), chains.Symbol(chainID), chains.Name(chainID))
	if url := chains.AddressURL(chainID, address); url != "" {
		fmt.Println(url)
	}
	return nil
}
