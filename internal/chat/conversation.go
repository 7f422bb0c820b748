package chat

import (
	"strings"
	"sync"
)

// Conversation is the state container for one chat session. It owns the local
// Message/Action collections and the per-agent state map, and is mutated only
// through the operations below: full replacement by the poller, a single
// optimistic append by the dispatcher, and session adoption after the first
// send. A mutex guards the container because the poller and dispatcher settle
// on different goroutines; there is no finer-grained coordination to do, the
// suspend gate on the poller already serializes the interesting interleavings.
type Conversation struct {
	mu sync.Mutex

	sessionID   string
	messages    []Message
	actions     []Action
	agentStates map[string]string
}

// NewConversation returns a conversation bound to the given session id, which
// may be empty for a not-yet-created session.
func NewConversation(sessionID string) *Conversation {
	return &Conversation{
		sessionID:   sessionID,
		agentStates: make(map[string]string),
	}
}

// SessionID returns the working session identifier, empty until the first
// successful send adopts one.
func (c *Conversation) SessionID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sessionID
}

// AdoptSession installs a server-assigned session identifier. It only applies
// when no identifier is held yet or the identifier actually changes, and
// reports whether an adoption happened.
func (c *Conversation) AdoptSession(id string) bool {
	id = strings.TrimSpace(id)
	if id == "" {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sessionID == id {
		return false
	}
	c.sessionID = id
	return true
}

// ApplyHistory replaces the local collections with the backend's view. This is
// deliberately a full replacement: an optimistic local append that raced a
// fetch is overwritten once the server catches up, and a ghost message from a
// failed send disappears on the next successful fetch.
func (c *Conversation) ApplyHistory(h *History) {
	if h == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	c.messages = append(c.messages[:0:0], h.Messages...)
	c.actions = append(c.actions[:0:0], h.Actions...)

	states := make(map[string]string, len(h.Agents))
	for _, a := range h.Agents {
		if a.AgentID == "" {
			continue
		}
		desc := a.StateDescription
		if desc == "" {
			desc = "no state description available"
		}
		states[a.AgentID] = desc
	}
	c.agentStates = states
}

// AppendLocal adds a provisional user message for optimistic display. The
// message survives until the next ApplyHistory.
func (c *Conversation) AppendLocal(m Message) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.messages = append(c.messages, m)
}

// Messages returns a copy of the current message list.
func (c *Conversation) Messages() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.messages...)
}

// Actions returns a copy of the current action list.
func (c *Conversation) Actions() []Action {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Action(nil), c.actions...)
}

// AgentStates returns a copy of the agent id to state-description map.
func (c *Conversation) AgentStates() map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]string, len(c.agentStates))
	for k, v := range c.agentStates {
		out[k] = v
	}
	return out
}

// Reviewing returns the first action awaiting user confirmation, in list
// order, or false when none is.
func (c *Conversation) Reviewing() (Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.actions {
		if a.State == StateReviewing {
			return a, true
		}
	}
	return Action{}, false
}

// Action looks up an action by id.
func (c *Conversation) Action(id string) (Action, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, a := range c.actions {
		if a.ID == id {
			return a, true
		}
	}
	return Action{}, false
}

// Timeline merges the current collections into the render-ready sequence.
func (c *Conversation) Timeline() []Item {
	c.mu.Lock()
	msgs := append([]Message(nil), c.messages...)
	acts := append([]Action(nil), c.actions...)
	c.mu.Unlock()
	return MergeTimeline(msgs, acts)
}
