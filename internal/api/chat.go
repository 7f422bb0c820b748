package api

import (
	"context"
	"encoding/json"

	"chainchat/internal/chat"
)

// SendMessageRequest posts one user message to a session. ChatID is empty for
// the first message of a new session.
type SendMessageRequest struct {
	Message string `json:"message"`
	ChatID  string `json:"chatId"`
	ChainID int    `json:"chainId"`
}

// ConfirmActionRequest submits a confirm/reject decision. TxData is the
// transaction payload for confirmations and null for rejections.
type ConfirmActionRequest struct {
	ActionID string          `json:"actionId"`
	TxData   json.RawMessage `json:"txData"`
	Confirm  bool            `json:"confirm"`
}

// ConfirmActionResponse carries the resulting transaction hash, when the
// backend broadcast one.
type ConfirmActionResponse struct {
	TxHash string `json:"txHash"`
}

// ChatHistory fetches the authoritative transcript for a session: messages,
// actions, and per-agent state.
func (c *Client) ChatHistory(ctx context.Context, chatID string) (*chat.History, error) {
	var resp chat.History
	if err := c.get(ctx, "/chat/"+chatID, nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// SendMessage posts a user message. The returned ChatID may be newly assigned
// when this send created the session.
func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) (*chat.SendResult, error) {
	var resp chat.SendResult
	if err := c.post(ctx, "/chat/send", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ConfirmAction submits the user's decision for an action awaiting
// confirmation.
func (c *Client) ConfirmAction(ctx context.Context, req ConfirmActionRequest) (*ConfirmActionResponse, error) {
	var resp ConfirmActionResponse
	if err := c.post(ctx, "/chat/action/confirm", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
