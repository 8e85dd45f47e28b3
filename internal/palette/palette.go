// Package palette assigns stable display colors to category names.
//
// Assignment is deterministic: a hash of the category name selects from a
// fixed palette, so the same category gets the same color on every process,
// with no ordering ambiguity. Assignments are still mirrored to durable
// local storage and a persisted color always wins over the hash pick, so
// historical assignments survive palette changes.
package palette

import (
	"hash/fnv"
	"log/slog"
	"sync"
)

// Neutral is the color of the synthetic "All Categories" row. It is not part
// of the assignable palette.
const Neutral = "#a3a3a3"

// tokens is the assignable palette.
var tokens = []string{
	"#f43f5e", // rose
	"#14b8a6", // teal
	"#06b6d4", // cyan
	"#84cc16", // lime
	"#f59e0b", // amber
	"#d946ef", // fuchsia
	"#0ea5e9", // sky
	"#10b981", // emerald
	"#8b5cf6", // violet
	"#ec4899", // pink
	"#6366f1", // indigo
	"#f97316", // orange
	"#eab308", // yellow
	"#22c55e", // green
	"#3b82f6", // blue
	"#ef4444", // red
	"#6b7280", // gray
}

// Store persists the category→color mapping across restarts.
type Store interface {
	LoadColors() (map[string]string, error)
	SaveColor(name, color string) error
}

// Map is the process-wide color assignment cache. Safe for concurrent use.
type Map struct {
	mu     sync.Mutex
	colors map[string]string
	store  Store
}

// New loads persisted assignments from store. A nil store keeps the map
// purely in memory. Corrupt or missing persisted data is treated as an
// empty cache, never a fatal error.
func New(store Store) *Map {
	m := &Map{colors: make(map[string]string), store: store}
	if store == nil {
		return m
	}
	colors, err := store.LoadColors()
	if err != nil {
		slog.Warn("Failed to load persisted category colors, starting empty", "error", err)
		return m
	}
	for name, color := range colors {
		m.colors[name] = color
	}
	return m
}

// Pick returns the color for a category, assigning and persisting one on
// first sight. Assignment is append-only: a category once colored never
// changes color while its mapping persists.
func (m *Map) Pick(name string) string {
	m.mu.Lock()
	defer m.mu.Unlock()

	if color, ok := m.colors[name]; ok {
		return color
	}
	color := tokens[hashName(name)%uint32(len(tokens))]
	m.colors[name] = color
	if m.store != nil {
		if err := m.store.SaveColor(name, color); err != nil {
			slog.Warn("Failed to persist category color", "category", name, "error", err)
		}
	}
	return color
}

// Len returns the number of assigned categories.
func (m *Map) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.colors)
}

func hashName(name string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(name))
	return h.Sum32()
}

// Contains reports whether color belongs to the assignable palette.
func Contains(color string) bool {
	for _, t := range tokens {
		if t == color {
			return true
		}
	}
	return false
}
