package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"chainchat/internal/api"
	"chainchat/internal/chains"
	"chainchat/internal/config"
	"chainchat/internal/session"
)

var (
	createChainID     int
	createAddress     string
	createBackstories []string

	editName        string
	editDescription string
)

var agentsCmd = &cobra.Command{
	Use:   "agents",
	Short: "Manage your contract-bound agents",
}

var agentsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List your agents",
	RunE:  runAgentsList,
}

var agentsShowCmd = &cobra.Command{
	Use:   "show [agent-id]",
	Short: "Show an agent's full record",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsShow,
}

var agentsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Bind a new agent to a deployed contract",
	Long: `Creates an agent bound to an already deployed contract. Backstories give
the agent its persona and are passed as title:content pairs.

Example:
  chainchat agents create --chain 8453 --address 0xabc... \
    --backstory "role:You manage the community vault"`,
	RunE: runAgentsCreate,
}

var agentsEditCmd = &cobra.Command{
	Use:   "edit [agent-id]",
	Short: "Update an agent's name or description",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsEdit,
}

var agentsDeleteCmd = &cobra.Command{
	Use:   "delete [agent-id]",
	Short: "Delete an agent",
	Args:  cobra.ExactArgs(1),
	RunE:  runAgentsDelete,
}

func init() {
	agentsCreateCmd.Flags().IntVar(&createChainID, "chain", 0, "Chain id the contract lives on (default: wallet.chain_id)")
	agentsCreateCmd.Flags().StringVar(&createAddress, "address", "", "Deployed contract address (required)")
	agentsCreateCmd.Flags().StringArrayVar(&createBackstories, "backstory", nil, "Backstory as title:content (repeatable)")
	_ = agentsCreateCmd.MarkFlagRequired("address")

	agentsEditCmd.Flags().StringVar(&editName, "name", "", "New display name")
	agentsEditCmd.Flags().StringVar(&editDescription, "description", "", "New description")

	agentsCmd.AddCommand(agentsListCmd)
	agentsCmd.AddCommand(agentsShowCmd)
	agentsCmd.AddCommand(agentsCreateCmd)
	agentsCmd.AddCommand(agentsEditCmd)
	agentsCmd.AddCommand(agentsDeleteCmd)
}

// authedClient builds an API client from the stored credentials.
func authedClient() (*api.Client, session.Credentials, error) {
	store, err := session.NewStore(config.StateDir())
	if err != nil {
		return nil, session.Credentials{}, err
	}
	creds, err := store.LoadCredentials()
	if err != nil {
		return nil, session.Credentials{}, err
	}
	if creds.Token == "" {
		return nil, creds, fmt.Errorf("not logged in; run 'chainchat login' first")
	}
	client := api.NewClient(api.Config{
		BaseURL: cfg.API.BaseURL,
		Token:   creds.Token,
		Timeout: cfg.APITimeout(),
	})
	return client, creds, nil
}

func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 60*time.Second)
}

func runAgentsList(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	agents, err := client.Agents(ctx)
	if err != nil {
		return err
	}
	if len(agents) == 0 {
		fmt.Println("No agents yet. Create one with 'chainchat agents create'.")
		return nil
	}

	for _, a := range agents {
		skills := make([]string, 0, len(a.Skills))
		for _, s := range a.Skills {
			skills = append(skills, s.Name)
		}
		fmt.Printf("%s  %s\n", a.ID, a.Name)
		if a.Description != "" {
			fmt.Printf("    %s\n", a.Description)
		}
		if len(skills) > 0 {
			fmt.Printf("    skills: %s\n", strings.Join(skills, ", "))
		}
	}
	return nil
}

func runAgentsShow(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	a, err := client.AgentDetail(ctx, args[0])
	if err != nil {
		return err
	}

	fmt.Printf("Agent:    %s\n", a.Name)
	fmt.Printf("ID:       %s\n", a.ID)
	fmt.Printf("Chain:    %s\n", a.ChainID)
	fmt.Printf("Contract: %s\n", a.Address)
	if a.Description != "" {
		fmt.Printf("About:    %s\n", a.Description)
	}
	if len(a.Skills) > 0 {
		fmt.Println("Skills:")
		for _, s := range a.Skills {
			fmt.Printf("  - %s: %s\n", s.Name, s.Description)
		}
	}
	if len(a.Backstories) > 0 {
		fmt.Println("Backstories:")
		for _, b := range a.Backstories {
			fmt.Printf("  - %s: %s\n", b.Title, b.Content)
		}
	}
	return nil
}

func runAgentsCreate(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient()
	if err != nil {
		return err
	}

	chainID := createChainID
	if chainID == 0 {
		chainID = cfg.Wallet.ChainID
	}
	if chainID == 0 {
		chainID = chains.DefaultChainID
	}

	backstories := make([]api.Backstory, 0, len(createBackstories))
	for _, raw := range createBackstories {
		title, content, found := strings.Cut(raw, ":")
		if !found || strings.TrimSpace(title) == "" {
			return fmt.Errorf("invalid backstory %q: expected title:content", raw)
		}
		backstories = append(backstories, api.Backstory{
			Title:   strings.TrimSpace(title),
			Content: strings.TrimSpace(content),
		})
	}

	ctx, cancel := commandContext()
	defer cancel()

	a, err := client.CreateAgent(ctx, api.CreateAgentRequest{
		ChainID:     chainID,
		Address:     createAddress,
		Backstories: backstories,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Agent created: %s (%s) on %s\n", a.Name, a.ID, chains.Name(chainID))
	return nil
}

func runAgentsEdit(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient()
	if err != nil {
		return err
	}
	if editName == "" && editDescription == "" {
		return fmt.Errorf("nothing to change: pass --name and/or --description")
	}

	ctx, cancel := commandContext()
	defer cancel()

	// The edit endpoint replaces the whole record, so fetch it first and
	// overlay the changed fields.
	current, err := client.AgentDetail(ctx, args[0])
	if err != nil {
		return err
	}

	req := api.EditAgentRequest{
		AgentID:     current.ID,
		Name:        current.Name,
		Description: current.Description,
		Skills:      current.Skills,
		Backstories: current.Backstories,
	}
	if editName != "" {
		req.Name = editName
	}
	if editDescription != "" {
		req.Description = editDescription
	}

	a, err := client.EditAgent(ctx, req)
	if err != nil {
		return err
	}
	fmt.Printf("Agent updated: %s (%s)\n", a.Name, a.ID)
	return nil
}

func runAgentsDelete(cmd *cobra.Command, args []string) error {
	client, _, err := authedClient()
	if err != nil {
		return err
	}
	ctx, cancel := commandContext()
	defer cancel()

	if err := client.DeleteAgent(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Agent %s deleted\n", args[0])
	return nil
}
