package chat

import (
	"context"
	"strings"

	"chainchat/internal/logging"
)

// FallbackChainID is used when no wallet connection supplies a chain (Base).
const FallbackChainID = 8453

// SendResult is the backend's response to a sent message. ChatID may be newly
// assigned when the send created the session.
type SendResult struct {
	ChatID   string   `json:"chatId"`
	AgentIDs []string `json:"agentIds"`
	Messages []string `json:"messages"`
}

// SendFunc delivers a user message to the backend.
type SendFunc func(ctx context.Context, message, chatID string, chainID int) (*SendResult, error)

// DispatcherConfig configures a Dispatcher.
type DispatcherConfig struct {
	Conversation *Conversation
	Poller       *Poller
	Send         SendFunc
	// ChainID returns the active wallet chain; zero falls back to
	// DefaultChainID. Optional.
	ChainID func() int
	// DefaultChainID is used when ChainID is nil or returns zero;
	// FallbackChainID when itself zero.
	DefaultChainID int
	// OnAdopt runs after a server-assigned session identifier is adopted
	// (first send of a new session). Optional.
	OnAdopt func(chatID string)
	// Notify surfaces send failures to the user. Optional.
	Notify func(error)
}

// Dispatcher sends user messages: it appends an optimistic local copy,
// suspends the poller for the duration of the round trip so a tick's full
// replacement cannot race the send, and adopts the server-assigned session
// identifier when this was the first message of a new session.
type Dispatcher struct {
	conv           *Conversation
	poller         *Poller
	send           SendFunc
	chainID        func() int
	defaultChainID int
	onAdopt        func(string)
	notify         func(error)
}

// NewDispatcher builds a Dispatcher.
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	def := cfg.DefaultChainID
	if def == 0 {
		def = FallbackChainID
	}
	return &Dispatcher{
		conv:           cfg.Conversation,
		poller:         cfg.Poller,
		send:           cfg.Send,
		chainID:        cfg.ChainID,
		defaultChainID: def,
		onAdopt:        cfg.OnAdopt,
		notify:         cfg.Notify,
	}
}

// Send dispatches a user message. Empty input (after trimming) and dispatch
// while a previous send is still in flight are silent no-ops. The optimistic
// local message stays in the list even when the send fails; the next
// successful poll reconciles it away. That inconsistency window is accepted
// behavior, not something to patch over with merge-by-id logic.
func (d *Dispatcher) Send(ctx context.Context, text string) error {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if d.poller.Suspended() {
		return nil
	}

	chatID := d.conv.SessionID()
	d.conv.AppendLocal(NewLocalMessage(chatID, text))

	d.poller.Suspend()
	defer d.poller.Resume()

	chain := 0
	if d.chainID != nil {
		chain = d.chainID()
	}
	if chain == 0 {
		chain = d.defaultChainID
	}

	log := logging.L(logging.CategoryChat)
	res, err := d.send(ctx, text, chatID, chain)
	if err != nil {
		log.Warnw("send failed", "chat_id", chatID, "error", err)
		if d.notify != nil {
			d.notify(err)
		}
		return err
	}

	if chatID == "" && res != nil && d.conv.AdoptSession(res.ChatID) {
		log.Infow("session adopted", "chat_id", res.ChatID)
		if d.onAdopt != nil {
			d.onAdopt(res.ChatID)
		}
	}
	return nil
}
