package theme

import (
	"errors"
	"testing"
)

type memStore struct {
	values  map[string]string
	loadErr error
}

func (s *memStore) LoadSetting(key string) (string, error) {
	if s.loadErr != nil {
		return "", s.loadErr
	}
	v, ok := s.values[key]
	if !ok {
		return "", errors.New("not found")
	}
	return v, nil
}

func (s *memStore) SaveSetting(key, value string) error {
	if s.values == nil {
		s.values = make(map[string]string)
	}
	s.values[key] = value
	return nil
}

type recordingApplier struct {
	applied []Mode
}

func (a *recordingApplier) ApplyTheme(mode Mode) {
	a.applied = append(a.applied, mode)
}

func TestDefaultsToLight(t *testing.T) {
	m := NewManager(&memStore{}, nil)
	if m.Mode() != Light {
		t.Fatalf("got %q", m.Mode())
	}
}

func TestRestoresPersistedDark(t *testing.T) {
	store := &memStore{values: map[string]string{"theme": "dark"}}
	m := NewManager(store, nil)
	if m.Mode() != Dark {
		t.Fatalf("got %q", m.Mode())
	}
}

func TestUnrecognizedValueFallsBack(t *testing.T) {
	store := &memStore{values: map[string]string{"theme": "sepia"}}
	if m := NewManager(store, nil); m.Mode() != Light {
		t.Fatalf("got %q", m.Mode())
	}
}

func TestTogglePersistsAndApplies(t *testing.T) {
	store := &memStore{}
	applier := &recordingApplier{}
	m := NewManager(store, applier)

	if got := m.Toggle(); got != Dark {
		t.Fatalf("first toggle: got %q", got)
	}
	if store.values["theme"] != "dark" {
		t.Fatalf("persisted %q", store.values["theme"])
	}
	if got := m.Toggle(); got != Light {
		t.Fatalf("second toggle: got %q", got)
	}

	// Initial apply plus one per toggle.
	want := []Mode{Light, Dark, Light}
	if len(applier.applied) != len(want) {
		t.Fatalf("applied %v", applier.applied)
	}
	for i, mode := range want {
		if applier.applied[i] != mode {
			t.Fatalf("applied[%d] = %q, want %q", i, applier.applied[i], mode)
		}
	}
}

func TestSetIgnoresUnknownMode(t *testing.T) {
	m := NewManager(&memStore{}, nil)
	m.Set("sepia")
	if m.Mode() != Light {
		t.Fatalf("got %q", m.Mode())
	}
	m.Set(Dark)
	if m.Mode() != Dark {
		t.Fatalf("got %q", m.Mode())
	}
}
