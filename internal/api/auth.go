package api

import (
	"context"
	"net/url"
)

// LoginRequest exchanges a wallet-signed challenge for a token. The signature
// is produced by the user's wallet; this client never computes one.
type LoginRequest struct {
	Signature string `json:"signature"`
	Message   string `json:"message"`
	Address   string `json:"address"`
}

// LoginAgent is the account-level agent record returned on login.
type LoginAgent struct {
	ID           string `json:"id"`
	AgentAddress string `json:"agentAddress"`
	OwnerAddress string `json:"ownerAddress"`
	State        int    `json:"state"`
}

// LoginResponse carries the bearer token for subsequent calls.
type LoginResponse struct {
	Token string     `json:"token"`
	Agent LoginAgent `json:"agent"`
}

// LoginMessage fetches the signable login challenge for a wallet address.
func (c *Client) LoginMessage(ctx context.Context, address string) (string, error) {
	var resp struct {
		Message string `json:"message"`
	}
	query := url.Values{"address": {address}}
	if err := c.get(ctx, "/user/login/message", query, &resp); err != nil {
		return "", err
	}
	return resp.Message, nil
}

// Login exchanges a signed challenge for a bearer token and installs it on
// the client.
func (c *Client) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.post(ctx, "/user/login", req, &resp); err != nil {
		return nil, err
	}
	c.SetToken(resp.Token)
	return &resp, nil
}
