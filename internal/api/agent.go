package api

import (
	"context"
	"encoding/json"
)

// Backstory is one titled block of agent background text.
type Backstory struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Skill is a named capability an agent can invoke, producing actions.
type Skill struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Workflow    []string `json:"workflow,omitempty"`
}

// Agent is the full agent record.
type Agent struct {
	ID             string            `json:"id"`
	ChainID        string            `json:"chainId"`
	Address        string            `json:"address"`
	CreatorAddress string            `json:"creatorAddress"`
	Name           string            `json:"name"`
	Description    string            `json:"description"`
	Contracts      []string          `json:"contracts"`
	ABIs           []json.RawMessage `json:"abis"`
	Skills         []Skill           `json:"skills"`
	Backstories    []Backstory       `json:"backstories"`
	State          int               `json:"state"`
}

// AgentSummary is the list-endpoint projection of an agent.
type AgentSummary struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Skills      []Skill `json:"skills"`
	State       int     `json:"state"`
}

// CreateAgentRequest deploys a new contract-bound agent.
type CreateAgentRequest struct {
	ChainID     int         `json:"chainId"`
	Address     string      `json:"address"`
	Backstories []Backstory `json:"backstories"`
}

// EditAgentRequest mutates an existing agent.
type EditAgentRequest struct {
	AgentID     string      `json:"agentId"`
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Skills      []Skill     `json:"skills"`
	Backstories []Backstory `json:"backstories"`
}

// CreateAgent binds a new agent to a deployed contract.
func (c *Client) CreateAgent(ctx context.Context, req CreateAgentRequest) (*Agent, error) {
	var resp Agent
	if err := c.post(ctx, "/contract/agent/create", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// EditAgent updates an agent's name, description, skills, and backstories.
func (c *Client) EditAgent(ctx context.Context, req EditAgentRequest) (*Agent, error) {
	var resp Agent
	if err := c.post(ctx, "/contract/agent/edit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteAgent removes an agent by id.
func (c *Client) DeleteAgent(ctx context.Context, agentID string) error {
	req := struct {
		AgentID string `json:"agentId"`
	}{AgentID: agentID}
	return c.post(ctx, "/contract/agent/delete", req, nil)
}

// AgentDetail fetches the full record for one agent.
func (c *Client) AgentDetail(ctx context.Context, id string) (*Agent, error) {
	var resp Agent
	if err := c.get(ctx, "/contract/agent/"+id, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Agents lists the caller's agents.
func (c *Client) Agents(ctx context.Context) ([]AgentSummary, error) {
	var resp struct {
		Agents []AgentSummary `json:"agents"`
	}
	if err := c.get(ctx, "/contract/agent/list", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Agents, nil
}

// AgentNames returns the id to display name mapping used by the chat
// directory cache.
func (c *Client) AgentNames(ctx context.Context) (map[string]string, error) {
	agents, err := c.Agents(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(agents))
	for _, a := range agents {
		names[a.ID] = a.Name
	}
	return names, nil
}
