package palette

import (
	"errors"
	"testing"
)

type memStore struct {
	colors  map[string]string
	loadErr error
	saves   int
}

func (s *memStore) LoadColors() (map[string]string, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.colors, nil
}

func (s *memStore) SaveColor(name, color string) error {
	if s.colors == nil {
		s.colors = make(map[string]string)
	}
	s.colors[name] = color
	s.saves++
	return nil
}

func TestPickStableAndInPalette(t *testing.T) {
	m := New(nil)
	first := m.Pick("Food")
	if !Contains(first) {
		t.Fatalf("color %q not in palette", first)
	}
	for i := 0; i < 5; i++ {
		if got := m.Pick("Food"); got != first {
			t.Fatalf("color changed on repeat pick: %q != %q", got, first)
		}
	}
}

func TestPickDeterministicAcrossInstances(t *testing.T) {
	a := New(nil).Pick("Travel")
	b := New(nil).Pick("Travel")
	if a != b {
		t.Fatalf("hash assignment not deterministic: %q != %q", a, b)
	}
}

func TestPersistedColorWins(t *testing.T) {
	store := &memStore{colors: map[string]string{"Food": "#000001"}}
	m := New(store)
	if got := m.Pick("Food"); got != "#000001" {
		t.Fatalf("persisted color overridden: got %q", got)
	}
	if store.saves != 0 {
		t.Fatalf("existing assignment re-persisted %d times", store.saves)
	}
}

func TestNewPickPersists(t *testing.T) {
	store := &memStore{}
	m := New(store)
	color := m.Pick("Rent")
	if store.colors["Rent"] != color {
		t.Fatalf("assignment not persisted: %v", store.colors)
	}
}

func TestCorruptStoreStartsEmpty(t *testing.T) {
	store := &memStore{loadErr: errors.New("corrupt json")}
	m := New(store)
	if m.Len() != 0 {
		t.Fatalf("expected empty map, got %d entries", m.Len())
	}
	// Still usable after the degraded load.
	if c := m.Pick("Food"); !Contains(c) {
		t.Fatalf("pick after corrupt load returned %q", c)
	}
}

func TestCaseSensitiveNames(t *testing.T) {
	m := New(nil)
	m.Pick("Food")
	m.Pick("food")
	if m.Len() != 2 {
		t.Fatalf("differently-cased names must be distinct, got %d entries", m.Len())
	}
}
