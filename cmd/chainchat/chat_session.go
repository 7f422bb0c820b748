package main

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"chainchat/internal/api"
	"chainchat/internal/chat"
	"chainchat/internal/config"
	"chainchat/internal/logging"
	"chainchat/internal/session"
)

// chatSession wires the chat state machine to the backend client and the
// bubbletea program: the poller, dispatcher, and confirm controller all settle
// on their own goroutines and report back through tea messages.
type chatSession struct {
	cfg        *config.Config
	client     *api.Client
	store      *session.Store
	conv       *chat.Conversation
	poller     *chat.Poller
	dispatcher *chat.Dispatcher
	confirm    *chat.ConfirmController
	directory  *chat.Directory
	binder     *session.Binder

	mu   sync.Mutex
	send func(tea.Msg)
}

// newChatSession builds the full backend wiring for one interactive chat.
// sessionID may be empty: the binder's session ref file is consulted first,
// and a still-empty identifier means a fresh session is created by the first
// send.
func newChatSession(cfg *config.Config, sessionID string) (*chatSession, error) {
	store, err := session.NewStore(config.StateDir())
	if err != nil {
		return nil, err
	}
	creds, err := store.LoadCredentials()
	if err != nil {
		return nil, err
	}
	if creds.Token == "" {
		return nil, fmt.Errorf("not logged in; run 'chainchat login' first")
	}

	s := &chatSession{
		cfg:   cfg,
		store: store,
		client: api.NewClient(api.Config{
			BaseURL: cfg.API.BaseURL,
			Token:   creds.Token,
			Timeout: cfg.APITimeout(),
		}),
	}

	s.binder = session.NewBinder(store, s.onExternalSession)
	if sessionID == "" {
		sessionID = s.binder.Current()
	}

	s.conv = chat.NewConversation(sessionID)
	s.poller = chat.NewPoller(chat.PollerConfig{
		Interval:  cfg.PollInterval(),
		Fetch:     s.fetchHistory,
		Notify:    s.notifyErr,
		Transient: api.IsUnavailable,
	})
	s.dispatcher = chat.NewDispatcher(chat.DispatcherConfig{
		Conversation: s.conv,
		Poller:       s.poller,
		Send:         s.sendMessage,
		ChainID:      func() int { return cfg.Wallet.ChainID },
		OnAdopt:      s.onAdopt,
		Notify:       s.notifyErr,
	})
	s.confirm = chat.NewConfirmController(s.submitDecision, s.poller.Refresh)
	s.directory = chat.NewDirectory(s.client.AgentNames)
	return s, nil
}

// attach installs the bubbletea program's Send so background goroutines can
// deliver messages to the UI.
func (s *chatSession) attach(send func(tea.Msg)) {
	s.mu.Lock()
	s.send = send
	s.mu.Unlock()
}

func (s *chatSession) emit(msg tea.Msg) {
	s.mu.Lock()
	send := s.send
	s.mu.Unlock()
	if send != nil {
		send(msg)
	}
}

// start begins background work: the session ref watcher and, when a session
// identifier is already known, the transcript poller.
func (s *chatSession) start() error {
	if err := s.binder.Watch(); err != nil {
		return err
	}
	if id := s.conv.SessionID(); id != "" {
		// Keep the ref file in sync when the session came from --session.
		if err := s.binder.Bind(id); err != nil {
			logging.L(logging.CategorySession).Warnw("session ref write failed", "error", err)
		}
		s.poller.Start(id)
	}
	return nil
}

// close tears down background work. The poller stop blocks until the loop has
// exited, so no tick mutates state after this returns.
func (s *chatSession) close() {
	s.poller.Stop()
	s.binder.Stop()
}

func (s *chatSession) fetchHistory(ctx context.Context, chatID string) error {
	h, err := s.client.ChatHistory(ctx, chatID)
	if err != nil {
		return err
	}
	s.conv.ApplyHistory(h)
	s.emit(transcriptMsg{})
	return nil
}

func (s *chatSession) sendMessage(ctx context.Context, message, chatID string, chainID int) (*chat.SendResult, error) {
	return s.client.SendMessage(ctx, api.SendMessageRequest{
		Message: message,
		ChatID:  chatID,
		ChainID: chainID,
	})
}

func (s *chatSession) submitDecision(ctx context.Context, actionID string, txData json.RawMessage, confirm bool) error {
	_, err := s.client.ConfirmAction(ctx, api.ConfirmActionRequest{
		ActionID: actionID,
		TxData:   txData,
		Confirm:  confirm,
	})
	return err
}

// onAdopt runs after the first send of a new session returned a
// server-assigned identifier: the ref file is updated and polling starts.
func (s *chatSession) onAdopt(chatID string) {
	if err := s.binder.Bind(chatID); err != nil {
		logging.L(logging.CategorySession).Warnw("session ref write failed", "error", err)
	}
	s.poller.Start(chatID)
}

// onExternalSession runs when the session ref file was edited from outside:
// the new identifier is adopted and the poller switches over, which also
// triggers an immediate fetch.
func (s *chatSession) onExternalSession(id string) {
	if s.conv.AdoptSession(id) {
		s.poller.Start(id)
		s.emit(noticeMsg{text: "switched to session " + id})
	}
}

func (s *chatSession) notifyErr(err error) {
	s.emit(noticeMsg{err: err})
}
