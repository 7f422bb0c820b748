package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoller_ImmediateFirstFetch(t *testing.T) {
	fetched := make(chan string, 1)
	p := NewPoller(PollerConfig{
		Interval: time.Hour,
		Fetch: func(ctx context.Context, chatID string) error {
			select {
			case fetched <- chatID:
			default:
			}
			return nil
		},
	})
	defer p.Stop()

	p.Start("chat-1")

	select {
	case id := <-fetched:
		assert.Equal(t, "chat-1", id)
	case <-time.After(time.Second):
		t.Fatal("no fetch on activation")
	}
}

func TestPoller_TicksNeverOverlap(t *testing.T) {
	var inFlight, violations, count atomic.Int32
	p := NewPoller(PollerConfig{
		Interval: 5 * time.Millisecond,
		Fetch: func(ctx context.Context, chatID string) error {
			if inFlight.Add(1) > 1 {
				violations.Add(1)
			}
			defer inFlight.Add(-1)
			time.Sleep(3 * time.Millisecond)
			count.Add(1)
			return nil
		},
	})
	p.Start("chat-1")

	require.Eventually(t, func() bool { return count.Load() >= 5 },
		time.Second, 2*time.Millisecond)
	p.Stop()

	assert.Zero(t, violations.Load(), "ticks must not run concurrently")
}

func TestPoller_SuspendGatesTicks(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(PollerConfig{
		Interval: 5 * time.Millisecond,
		Fetch: func(ctx context.Context, chatID string) error {
			count.Add(1)
			return nil
		},
	})
	defer p.Stop()

	p.Start("chat-1")
	require.Eventually(t, func() bool { return count.Load() >= 1 },
		time.Second, time.Millisecond)

	p.Suspend()
	assert.True(t, p.Suspended())
	time.Sleep(20 * time.Millisecond) // drain any in-flight tick
	before := count.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, before, count.Load(), "no ticks while suspended")

	p.Resume()
	require.Eventually(t, func() bool { return count.Load() > before },
		time.Second, time.Millisecond, "ticks resume after the gate lifts")
}

func TestPoller_StopCancelsPendingTick(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(PollerConfig{
		Interval: 10 * time.Millisecond,
		Fetch: func(ctx context.Context, chatID string) error {
			count.Add(1)
			return nil
		},
	})

	p.Start("chat-1")
	require.Eventually(t, func() bool { return count.Load() >= 1 },
		time.Second, time.Millisecond)

	p.Stop()
	after := count.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, count.Load(), "no ticks after teardown")
	assert.Empty(t, p.SessionID())
}

func TestPoller_SessionChangeCancelsOldSession(t *testing.T) {
	var mu sync.Mutex
	var ids []string
	p := NewPoller(PollerConfig{
		Interval: 5 * time.Millisecond,
		Fetch: func(ctx context.Context, chatID string) error {
			mu.Lock()
			ids = append(ids, chatID)
			mu.Unlock()
			return nil
		},
	})
	defer p.Stop()

	p.Start("old")
	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) >= 1
	}, time.Second, time.Millisecond)

	p.Start("new")
	assert.Equal(t, "new", p.SessionID())

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return len(ids) >= 3 && ids[len(ids)-1] == "new"
	}, time.Second, time.Millisecond)

	// Once the new session's fetches begin, the old session never fires again.
	mu.Lock()
	firstNew := -1
	for i, id := range ids {
		if id == "new" {
			firstNew = i
			break
		}
	}
	for _, id := range ids[firstNew:] {
		assert.Equal(t, "new", id)
	}
	mu.Unlock()
}

func TestPoller_KeepsPollingThroughFailures(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(PollerConfig{
		Interval: 5 * time.Millisecond,
		Fetch: func(ctx context.Context, chatID string) error {
			count.Add(1)
			return errors.New("backend down")
		},
	})
	defer p.Stop()

	p.Start("chat-1")
	require.Eventually(t, func() bool { return count.Load() >= 3 },
		time.Second, time.Millisecond, "failure must not stop polling")
}

func TestPoller_ErrorSurfacing(t *testing.T) {
	transientErr := errors.New("service unavailable")
	seriousErr := errors.New("forbidden")

	var mu sync.Mutex
	var notified []error
	step := atomic.Int32{}

	p := NewPoller(PollerConfig{
		Interval: 5 * time.Millisecond,
		Fetch: func(ctx context.Context, chatID string) error {
			switch step.Add(1) {
			case 1:
				return transientErr
			case 2:
				return seriousErr
			default:
				return nil
			}
		},
		Notify: func(err error) {
			mu.Lock()
			notified = append(notified, err)
			mu.Unlock()
		},
		Transient: func(err error) bool { return errors.Is(err, transientErr) },
	})
	defer p.Stop()

	p.Start("chat-1")
	require.Eventually(t, func() bool { return step.Load() >= 3 },
		time.Second, time.Millisecond)
	p.Stop()

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, notified, 1, "only non-transient failures are surfaced")
	assert.ErrorIs(t, notified[0], seriousErr)
}

func TestPoller_RefreshTriggersOutOfBandTick(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(PollerConfig{
		Interval: time.Hour,
		Fetch: func(ctx context.Context, chatID string) error {
			count.Add(1)
			return nil
		},
	})
	defer p.Stop()

	p.Start("chat-1")
	require.Eventually(t, func() bool { return count.Load() == 1 },
		time.Second, time.Millisecond)

	p.Refresh()
	require.Eventually(t, func() bool { return count.Load() == 2 },
		time.Second, time.Millisecond, "refresh must not wait for the cadence")
}

func TestPoller_StartIsIdempotentPerSession(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(PollerConfig{
		Interval: time.Hour,
		Fetch: func(ctx context.Context, chatID string) error {
			count.Add(1)
			return nil
		},
	})
	defer p.Stop()

	p.Start("chat-1")
	p.Start("chat-1")
	require.Eventually(t, func() bool { return count.Load() >= 1 },
		time.Second, time.Millisecond)
	time.Sleep(20 * time.Millisecond)
	assert.EqualValues(t, 1, count.Load(), "restarting the same session must not double the loop")
}

func TestPoller_StartEmptyIsIdle(t *testing.T) {
	var count atomic.Int32
	p := NewPoller(PollerConfig{
		Interval: time.Millisecond,
		Fetch: func(ctx context.Context, chatID string) error {
			count.Add(1)
			return nil
		},
	})
	p.Start("")
	time.Sleep(20 * time.Millisecond)
	assert.Zero(t, count.Load(), "no session, no polling")
}
