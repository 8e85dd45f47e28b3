// Package attach keeps receipt payloads keyed by expense id. The registry is
// local and non-authoritative: nothing enforces that a key matches a live
// expense, so an expense deletion has to cascade here explicitly. Payloads
// are opaque data URIs; the only inspection is a prefix sniff that tells the
// presentation layer whether to render an image or a document link.
package attach

import (
	"log/slog"
	"strings"
	"sync"
)

// Kind is the display hint derived from the payload prefix.
type Kind string

const (
	KindImage    Kind = "image"
	KindDocument Kind = "document"
)

// KindOf sniffs the payload prefix. Anything that is not an image data URI
// is treated as a document.
func KindOf(payload string) Kind {
	if strings.HasPrefix(payload, "data:image/") {
		return KindImage
	}
	return KindDocument
}

// Store persists the id→payload mapping across restarts.
type Store interface {
	LoadAttachments() (map[string]string, error)
	SaveAttachment(expenseID, payload string) error
	DeleteAttachment(expenseID string) error
}

// Registry is the in-memory view of the persisted mapping. Safe for
// concurrent use. Persistence failures are logged and swallowed: losing a
// receipt write must never break an expense operation.
type Registry struct {
	mu       sync.RWMutex
	payloads map[string]string
	store    Store
}

// NewRegistry reconstitutes the registry from store. A nil store keeps it
// in memory only; unreadable persisted data degrades to an empty registry.
func NewRegistry(store Store) *Registry {
	r := &Registry{payloads: make(map[string]string), store: store}
	if store == nil {
		return r
	}
	payloads, err := store.LoadAttachments()
	if err != nil {
		slog.Warn("Failed to load persisted attachments, starting empty", "error", err)
		return r
	}
	for id, p := range payloads {
		r.payloads[id] = p
	}
	return r
}

// Put inserts or overwrites the payload for an expense id and persists it.
func (r *Registry) Put(expenseID, payload string) {
	r.mu.Lock()
	r.payloads[expenseID] = payload
	r.mu.Unlock()

	if r.store != nil {
		if err := r.store.SaveAttachment(expenseID, payload); err != nil {
			slog.Warn("Failed to persist attachment", "expense_id", expenseID, "error", err)
		}
	}
}

// Get returns the payload for an expense id.
func (r *Registry) Get(expenseID string) (string, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	payload, ok := r.payloads[expenseID]
	return payload, ok
}

// Remove deletes the entry and its persisted row. Removing an absent id is
// a no-op.
func (r *Registry) Remove(expenseID string) {
	r.mu.Lock()
	_, had := r.payloads[expenseID]
	delete(r.payloads, expenseID)
	r.mu.Unlock()

	if had && r.store != nil {
		if err := r.store.DeleteAttachment(expenseID); err != nil {
			slog.Warn("Failed to delete persisted attachment", "expense_id", expenseID, "error", err)
		}
	}
}

// Len returns the number of stored attachments.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.payloads)
}
