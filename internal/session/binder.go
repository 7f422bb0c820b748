package session

import (
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"

	"chainchat/internal/logging"
)

// Binder keeps the session reference file and the working session identifier
// in sync, bidirectionally. Bind pushes a newly adopted working identifier
// out to the file; the watcher picks up external edits and hands the new
// identifier to the onChange callback, which is expected to adopt it and
// trigger an immediate history fetch.
type Binder struct {
	store    *Store
	onChange func(id string)

	mu      sync.Mutex
	current string
	watcher *fsnotify.Watcher
	done    chan struct{}
}

// NewBinder builds a binder over the store's session reference file. The
// initial working identifier is read from the file.
func NewBinder(store *Store, onChange func(id string)) *Binder {
	return &Binder{
		store:    store,
		onChange: onChange,
		current:  store.ReadSessionRef(),
	}
}

// Current returns the working session identifier.
func (b *Binder) Current() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.current
}

// Bind records a change of the working identifier and updates the external
// representation to match. Writing through the binder marks the value as
// self-inflicted so the watcher does not echo it back.
func (b *Binder) Bind(id string) error {
	id = strings.TrimSpace(id)
	b.mu.Lock()
	if b.current == id {
		b.mu.Unlock()
		return nil
	}
	b.current = id
	b.mu.Unlock()
	return b.store.WriteSessionRef(id)
}

// Watch starts observing the reference file for external changes. Stop must
// be called on teardown.
func (b *Binder) Watch() error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	// Watch the directory: editors and atomic writes replace the file,
	// which would drop a watch set on the file itself.
	if err := watcher.Add(b.store.Dir()); err != nil {
		watcher.Close()
		return fmt.Errorf("failed to watch state directory: %w", err)
	}

	b.mu.Lock()
	b.watcher = watcher
	b.done = make(chan struct{})
	done := b.done
	b.mu.Unlock()

	go b.loop(watcher, done)
	return nil
}

// Stop ends the watch and waits for the loop to exit.
func (b *Binder) Stop() {
	b.mu.Lock()
	watcher, done := b.watcher, b.done
	b.watcher = nil
	b.done = nil
	b.mu.Unlock()

	if watcher == nil {
		return
	}
	watcher.Close()
	<-done
}

func (b *Binder) loop(watcher *fsnotify.Watcher, done chan struct{}) {
	defer close(done)
	log := logging.L(logging.CategorySession)
	refName := filepath.Base(b.store.SessionRefPath())

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != refName {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			id := b.store.ReadSessionRef()

			b.mu.Lock()
			changed := id != "" && id != b.current
			if changed {
				b.current = id
			}
			b.mu.Unlock()

			if changed {
				log.Infow("external session change", "chat_id", id)
				if b.onChange != nil {
					b.onChange(id)
				}
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warnw("watcher error", "error", err)
		}
	}
}
