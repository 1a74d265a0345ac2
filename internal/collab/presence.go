package collab

import (
	"sync"
	"time"
)

// presenceTable tracks the live presence of each user in one room: cursor,
// selected layer, and when it was last refreshed. Keyed by user rather than
// connection, so a user reconnecting replaces their stale entry.
type presenceTable struct {
	mu      sync.RWMutex
	entries map[string]presenceEntry
}

type presenceEntry struct {
	payload   PresencePayload
	refreshed time.Time
}

func newPresenceTable() *presenceTable {
	return &presenceTable{entries: make(map[string]presenceEntry)}
}

// Set records a user's latest presence payload.
func (t *presenceTable) Set(userID string, p PresencePayload) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.entries[userID] = presenceEntry{payload: p, refreshed: time.Now()}
}

// Drop forgets a user, typically on disconnect.
func (t *presenceTable) Drop(userID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, userID)
}

// Snapshot copies the current presence map for a joining client.
func (t *presenceTable) Snapshot() map[string]*PresencePayload {
	t.mu.RLock()
	defer t.mu.RUnlock()

	out := make(map[string]*PresencePayload, len(t.entries))
	for userID, e := range t.entries {
		p := e.payload
		out[userID] = &p
	}
	return out
}
