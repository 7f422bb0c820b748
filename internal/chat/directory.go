package chat

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"chainchat/internal/logging"
)

// DirectoryFetchFunc loads the agent id to display name mapping.
type DirectoryFetchFunc func(ctx context.Context) (map[string]string, error)

// Directory resolves agent identifiers to display names. The mapping is
// fetched once per chat session; concurrent lookups share a single fetch.
type Directory struct {
	fetch DirectoryFetchFunc

	group singleflight.Group
	mu    sync.RWMutex
	names map[string]string
}

// NewDirectory builds an empty directory backed by fetch.
func NewDirectory(fetch DirectoryFetchFunc) *Directory {
	return &Directory{fetch: fetch}
}

// Load populates the directory. Safe to call repeatedly; only the first call
// per in-flight window hits the backend. A failed load leaves the directory
// empty, which degrades to fallback labels rather than failing the session.
func (d *Directory) Load(ctx context.Context) error {
	_, err, _ := d.group.Do("agents", func() (any, error) {
		names, err := d.fetch(ctx)
		if err != nil {
			logging.L(logging.CategoryChat).Warnw("agent directory load failed", "error", err)
			return nil, err
		}
		d.mu.Lock()
		d.names = names
		d.mu.Unlock()
		return nil, nil
	})
	return err
}

// Name resolves an agent id to its display name, falling back to a generic
// label for unknown ids.
func (d *Directory) Name(agentID string) string {
	d.mu.RLock()
	name := d.names[agentID]
	d.mu.RUnlock()
	if name != "" {
		return name
	}
	return "AI Agent"
}

// Known reports whether the id resolved to a configured display name.
func (d *Directory) Known(agentID string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.names[agentID]
	return ok
}
