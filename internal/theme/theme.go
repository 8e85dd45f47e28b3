// Package theme holds the light/dark presentation mode. The mode survives
// restarts through the settings store; an unreadable or unknown persisted
// value falls back to light.
package theme

import (
	"log/slog"
	"sync"
)

// Mode is the active presentation scheme.
type Mode string

const (
	Light Mode = "light"
	Dark  Mode = "dark"
)

const settingKey = "theme"

// Store reads and writes the persisted mode.
type Store interface {
	LoadSetting(key string) (string, error)
	SaveSetting(key, value string) error
}

// Applier receives the mode whenever it changes, so a presentation layer
// can react. May be nil.
type Applier interface {
	ApplyTheme(mode Mode)
}

// Manager is the single source of truth for the current mode. Safe for
// concurrent use.
type Manager struct {
	mu      sync.RWMutex
	mode    Mode
	store   Store
	applier Applier
}

// NewManager restores the persisted mode. Missing or unrecognized values
// start light; the applier is invoked once with the initial mode.
func NewManager(store Store, applier Applier) *Manager {
	m := &Manager{mode: Light, store: store, applier: applier}
	if store != nil {
		v, err := store.LoadSetting(settingKey)
		switch {
		case err != nil:
			slog.Warn("Failed to load persisted theme, defaulting to light", "error", err)
		case Mode(v) == Dark:
			m.mode = Dark
		case Mode(v) != Light:
			slog.Warn("Unrecognized persisted theme, defaulting to light", "value", v)
		}
	}
	if applier != nil {
		applier.ApplyTheme(m.mode)
	}
	return m
}

// Mode returns the current mode.
func (m *Manager) Mode() Mode {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.mode
}

// Toggle flips the mode and returns the new value.
func (m *Manager) Toggle() Mode {
	m.mu.Lock()
	next := Light
	if m.mode == Light {
		next = Dark
	}
	m.mode = next
	m.mu.Unlock()

	m.applied(next)
	return next
}

// Set forces a specific mode. Unknown values are ignored.
func (m *Manager) Set(mode Mode) {
	if mode != Light && mode != Dark {
		return
	}
	m.mu.Lock()
	changed := m.mode != mode
	m.mode = mode
	m.mu.Unlock()

	if changed {
		m.applied(mode)
	}
}

func (m *Manager) applied(mode Mode) {
	if m.applier != nil {
		m.applier.ApplyTheme(mode)
	}
	if m.store != nil {
		if err := m.store.SaveSetting(settingKey, string(mode)); err != nil {
			slog.Warn("Failed to persist theme", "mode", mode, "error", err)
		}
	}
}
