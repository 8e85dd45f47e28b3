package attach

import (
	"errors"
	"testing"
)

type memStore struct {
	payloads map[string]string
	loadErr  error
}

func (s *memStore) LoadAttachments() (map[string]string, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.payloads, nil
}

func (s *memStore) SaveAttachment(id, payload string) error {
	if s.payloads == nil {
		s.payloads = make(map[string]string)
	}
	s.payloads[id] = payload
	return nil
}

func (s *memStore) DeleteAttachment(id string) error {
	delete(s.payloads, id)
	return nil
}

func TestPutGetRemove(t *testing.T) {
	store := &memStore{}
	r := NewRegistry(store)

	r.Put("e1", "data:image/png;base64,AAA")
	got, ok := r.Get("e1")
	if !ok || got != "data:image/png;base64,AAA" {
		t.Fatalf("got %q, %v", got, ok)
	}
	if store.payloads["e1"] == "" {
		t.Fatalf("payload not persisted")
	}

	r.Put("e1", "data:image/png;base64,BBB")
	if got, _ := r.Get("e1"); got != "data:image/png;base64,BBB" {
		t.Fatalf("overwrite failed, got %q", got)
	}

	r.Remove("e1")
	if _, ok := r.Get("e1"); ok {
		t.Fatalf("entry still present after remove")
	}
	if len(store.payloads) != 0 {
		t.Fatalf("persisted row not deleted: %v", store.payloads)
	}

	// Removing again is a no-op.
	r.Remove("e1")
}

func TestReconstituteFromStore(t *testing.T) {
	store := &memStore{payloads: map[string]string{"e2": "data:application/pdf;base64,X"}}
	r := NewRegistry(store)
	if got, ok := r.Get("e2"); !ok || got != "data:application/pdf;base64,X" {
		t.Fatalf("got %q, %v", got, ok)
	}
}

func TestCorruptStoreStartsEmpty(t *testing.T) {
	r := NewRegistry(&memStore{loadErr: errors.New("corrupt")})
	if r.Len() != 0 {
		t.Fatalf("expected empty registry, got %d", r.Len())
	}
}

func TestKindOf(t *testing.T) {
	cases := []struct {
		payload string
		want    Kind
	}{
		{"data:image/png;base64,AAA", KindImage},
		{"data:image/jpeg;base64,AAA", KindImage},
		{"data:application/pdf;base64,AAA", KindDocument},
		{"garbage", KindDocument},
	}
	for i, tc := range cases {
		if got := KindOf(tc.payload); got != tc.want {
			t.Fatalf("case %d: got %q, want %q", i, got, tc.want)
		}
	}
}
