package chat

import (
	"context"
	"sync"
	"time"

	"chainchat/internal/logging"
)

// DefaultPollInterval is the transcript refresh cadence.
const DefaultPollInterval = 3 * time.Second

// FetchFunc fetches the authoritative transcript for a session and applies it
// to local state. The poller treats any returned error as a failed tick.
type FetchFunc func(ctx context.Context, chatID string) error

// PollerConfig configures a Poller.
type PollerConfig struct {
	// Interval between ticks; DefaultPollInterval when zero.
	Interval time.Duration
	// Fetch runs once per tick. Required.
	Fetch FetchFunc
	// Notify surfaces non-transient fetch failures to the user. Optional.
	Notify func(error)
	// Transient classifies errors that are logged but not surfaced. Optional.
	Transient func(error) bool
}

// Poller keeps local session state consistent with the backend by re-fetching
// the full transcript on a fixed cadence. Ticks never overlap: the next tick
// is only scheduled after the previous fetch settles. A suspend gate, driven
// by the message dispatcher, skips ticks while a send is in flight; the
// in-flight fetch of an already started tick is allowed to finish.
type Poller struct {
	interval  time.Duration
	fetch     FetchFunc
	notify    func(error)
	transient func(error) bool

	mu        sync.Mutex
	suspended bool
	chatID    string
	cancel    context.CancelFunc
	done      chan struct{}
	kick      chan struct{}
}

// NewPoller builds an idle poller. It does nothing until Start is called with
// a session identifier.
func NewPoller(cfg PollerConfig) *Poller {
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultPollInterval
	}
	return &Poller{
		interval:  interval,
		fetch:     cfg.Fetch,
		notify:    cfg.Notify,
		transient: cfg.Transient,
	}
}

// Start begins polling for the given session: an immediate fetch, then one
// tick per interval. Calling Start with a new session identifier cancels the
// running loop first, so a pending tick for the old session never fires.
// An empty identifier stops the poller (idle state).
func (p *Poller) Start(chatID string) {
	if chatID == "" {
		p.Stop()
		return
	}

	p.mu.Lock()
	if p.cancel != nil && p.chatID == chatID {
		p.mu.Unlock()
		return
	}
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}

	ctx, cancelFn := context.WithCancel(context.Background())
	doneCh := make(chan struct{})
	kickCh := make(chan struct{}, 1)

	p.mu.Lock()
	p.cancel = cancelFn
	p.chatID = chatID
	p.done = doneCh
	p.kick = kickCh
	p.mu.Unlock()

	logging.L(logging.CategoryPoller).Debugw("poller started", "chat_id", chatID)
	go p.run(ctx, chatID, doneCh, kickCh)
}

// Stop cancels the polling loop and waits for it to exit, guaranteeing no
// further ticks mutate state after teardown.
func (p *Poller) Stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel = nil
	p.chatID = ""
	p.mu.Unlock()

	if cancel == nil {
		return
	}
	cancel()
	<-done
	logging.L(logging.CategoryPoller).Debugw("poller stopped")
}

// Suspend pauses scheduling of new ticks. A fetch already in flight finishes.
func (p *Poller) Suspend() {
	p.mu.Lock()
	p.suspended = true
	p.mu.Unlock()
}

// Resume lifts the suspend gate. Always called exactly once per send,
// regardless of the send's outcome.
func (p *Poller) Resume() {
	p.mu.Lock()
	p.suspended = false
	p.mu.Unlock()
}

// Suspended reports whether the suspend gate is set.
func (p *Poller) Suspended() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.suspended
}

// SessionID returns the session currently being polled, empty when idle.
func (p *Poller) SessionID() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cancel == nil {
		return ""
	}
	return p.chatID
}

// Refresh requests an out-of-band tick so state changes show up without
// waiting for the cadence. No-op when idle.
func (p *Poller) Refresh() {
	p.mu.Lock()
	kick := p.kick
	running := p.cancel != nil
	p.mu.Unlock()
	if !running || kick == nil {
		return
	}
	select {
	case kick <- struct{}{}:
	default:
	}
}

func (p *Poller) run(ctx context.Context, chatID string, done, kick chan struct{}) {
	defer close(done)
	log := logging.L(logging.CategoryPoller)

	for {
		if ctx.Err() != nil {
			return
		}
		if !p.Suspended() {
			if err := p.fetch(ctx, chatID); err != nil && ctx.Err() == nil {
				log.Warnw("transcript fetch failed", "chat_id", chatID, "error", err)
				if p.notify != nil && !p.isTransient(err) {
					p.notify(err)
				}
			}
		}

		timer := time.NewTimer(p.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		case <-kick:
			if !timer.Stop() {
				<-timer.C
			}
		}
	}
}

func (p *Poller) isTransient(err error) bool {
	return p.transient != nil && p.transient(err)
}
