// Package chat implements the client-side conversation state machine for the
// contract-agent backend: transcript polling, timeline merging, action
// confirmation, and message dispatch. It is transport- and UI-agnostic; the
// REST client and the terminal front end plug in through small function types.
package chat

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ActionState is the backend-defined lifecycle state of an Action. The client
// observes these states and enforces them for UI gating only; the transitions
// themselves are driven by the backend.
type ActionState int

const (
	StatePending    ActionState = 0
	StateGenerating ActionState = 1
	StatePaused     ActionState = 2
	StateReviewing  ActionState = 3
	StateConfirmed  ActionState = 4
	StateProcessed  ActionState = 5
	StateRejected   ActionState = 6
)

func (s ActionState) String() string {
	switch s {
	case StatePending:
		return "pending"
	case StateGenerating:
		return "generating"
	case StatePaused:
		return "paused"
	case StateReviewing:
		return "reviewing"
	case StateConfirmed:
		return "confirmed"
	case StateProcessed:
		return "processed"
	case StateRejected:
		return "rejected"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Editable reports whether user interaction (editing, confirm, reject) is
// permitted for an action in this state. Only Reviewing qualifies.
func (s ActionState) Editable() bool {
	return s == StateReviewing
}

// Terminal reports whether the action has reached a final state.
func (s ActionState) Terminal() bool {
	return s == StateProcessed || s == StateRejected
}

// Message is a single chat turn. A message with an empty AgentID is attributed
// to the human user.
type Message struct {
	ID        string    `json:"id"`
	ChatID    string    `json:"chatId"`
	AgentID   string    `json:"agentId,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// UserAuthored reports whether the message was written by the human user
// rather than an agent.
func (m Message) UserAuthored() bool {
	return m.AgentID == ""
}

// NewLocalMessage builds a provisional user message for optimistic display.
// The identifier is timestamp-derived and is replaced by the server-assigned
// one on the next transcript fetch (full list replacement, not merge-by-id).
func NewLocalMessage(chatID, content string) Message {
	now := time.Now()
	return Message{
		ID:        strconv.FormatInt(now.UnixMilli(), 10),
		ChatID:    chatID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// TxPayload describes the contract call an action proposes. Arguments are kept
// loosely typed because the backend emits both scalars and nested arrays.
type TxPayload struct {
	Address         string `json:"address"`
	ContractName    string `json:"contractName"`
	MethodSignature string `json:"methodSignature"`
	Arguments       []any  `json:"arguments"`
}

// Task is the payload an agent attaches to an action once generation is done.
// Response carries the agent's natural-language reply; the timeline shows it
// in place of a separate agent message.
type Task struct {
	Tx       TxPayload `json:"tx"`
	IsCall   bool      `json:"isCall"`
	IsReady  bool      `json:"isReady"`
	Response string    `json:"response"`
}

// Receipt is the transaction receipt attached to a processed state-changing
// action.
type Receipt struct {
	TxHash      string `json:"txHash"`
	BlockNumber string `json:"blockNumber,omitempty"`
	GasUsed     string `json:"gasUsed,omitempty"`
	Status      string `json:"status,omitempty"`
}

// Action is one agent-proposed blockchain operation moving through the
// confirmation lifecycle. Result holds either a read-call return value or a
// transaction receipt; which one is keyed by Task.IsCall, so it stays raw
// until a caller asks for the right variant.
type Action struct {
	ID            string          `json:"id"`
	ChatID        string          `json:"chatId"`
	AgentID       string          `json:"agentId"`
	Skill         string          `json:"skill"`
	WorkflowIndex int             `json:"workflowIndex"`
	State         ActionState     `json:"state"`
	Task          *Task           `json:"task,omitempty"`
	Result        json.RawMessage `json:"result,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// CallOutput returns the read-call return value for actions whose task is a
// read-only call. The second return is false when no such result exists.
func (a Action) CallOutput() (json.RawMessage, bool) {
	if a.Task == nil || !a.Task.IsCall || len(a.Result) == 0 {
		return nil, false
	}
	return a.Result, true
}

// TxReceipt returns the transaction receipt for actions whose task is a
// state-changing send. The second return is false when no receipt exists or
// it does not decode.
func (a Action) TxReceipt() (*Receipt, bool) {
	if a.Task == nil || a.Task.IsCall || len(a.Result) == 0 {
		return nil, false
	}
	var r Receipt
	if err := json.Unmarshal(a.Result, &r); err != nil {
		return nil, false
	}
	return &r, true
}

// Response returns the agent's natural-language reply for this action, if the
// task has been generated.
func (a Action) Response() string {
	if a.Task == nil {
		return ""
	}
	return a.Task.Response
}

// AgentStatus is the per-agent state snapshot returned with a transcript.
type AgentStatus struct {
	AgentID          string `json:"agentId"`
	State            int    `json:"state"`
	StateDescription string `json:"stateDescription"`
}

// History is the backend's authoritative view of one session, as returned by
// the transcript endpoint. Each fetch wholly replaces the local collections.
type History struct {
	ChatID   string        `json:"chatId"`
	Agents   []AgentStatus `json:"agents"`
	Actions  []Action      `json:"actions"`
	Messages []Message     `json:"messages"`
}
