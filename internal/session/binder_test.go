package session

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// changeRecorder collects onChange callbacks from the watcher loop.
type changeRecorder struct {
	mu  sync.Mutex
	ids []string
}

func (r *changeRecorder) record(id string) {
	r.mu.Lock()
	r.ids = append(r.ids, id)
	r.mu.Unlock()
}

func (r *changeRecorder) all() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.ids...)
}

func TestBinder_InitialFromFile(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.WriteSessionRef("chat-7"))

	b := NewBinder(store, nil)
	assert.Equal(t, "chat-7", b.Current())
}

func TestBinder_BindWritesThrough(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	b := NewBinder(store, nil)
	require.NoError(t, b.Bind("chat-1"))
	assert.Equal(t, "chat-1", b.Current())
	assert.Equal(t, "chat-1", store.ReadSessionRef())

	// Same id is a no-op.
	require.NoError(t, b.Bind("chat-1"))
	assert.Equal(t, "chat-1", store.ReadSessionRef())
}

func TestBinder_WatchAdoptsExternalEdit(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	rec := &changeRecorder{}
	b := NewBinder(store, rec.record)
	require.NoError(t, b.Watch())
	defer b.Stop()

	require.NoError(t, store.WriteSessionRef("chat-external"))

	require.Eventually(t, func() bool {
		return b.Current() == "chat-external"
	}, 3*time.Second, 10*time.Millisecond)
	assert.Contains(t, rec.all(), "chat-external")
}

func TestBinder_WatchIgnoresOtherFiles(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	rec := &changeRecorder{}
	b := NewBinder(store, rec.record)
	require.NoError(t, b.Watch())
	defer b.Stop()

	require.NoError(t, store.SaveCredentials(Credentials{Token: "tok"}))

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, rec.all())
	assert.Empty(t, b.Current())
}

func TestBinder_SelfWriteNotEchoed(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	rec := &changeRecorder{}
	b := NewBinder(store, rec.record)
	require.NoError(t, b.Watch())
	defer b.Stop()

	require.NoError(t, b.Bind("chat-self"))

	// The watcher sees the write, but the value already matches the working
	// identifier, so the callback must not fire.
	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, rec.all())
	assert.Equal(t, "chat-self", b.Current())
}

func TestBinder_StopIsIdempotent(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	b := NewBinder(store, nil)
	require.NoError(t, b.Watch())
	b.Stop()
	b.Stop()
}
