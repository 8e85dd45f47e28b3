package localstore

import (
	"errors"
	"path/filepath"
	"testing"
)

func openTemp(t *testing.T) *Repository {
	t.Helper()
	repo, err := Open(filepath.Join(t.TempDir(), "dash.db"))
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestColorsRoundTrip(t *testing.T) {
	repo := openTemp(t)

	if err := repo.SaveColor("Food", "#f43f5e"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if err := repo.SaveColor("Food", "#14b8a6"); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	colors, err := repo.LoadColors()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if colors["Food"] != "#14b8a6" {
		t.Fatalf("got %q, want last write", colors["Food"])
	}
}

func TestAttachmentsRoundTrip(t *testing.T) {
	repo := openTemp(t)

	if err := repo.SaveAttachment("e1", "data:image/png;base64,AAA"); err != nil {
		t.Fatalf("save: %v", err)
	}
	payloads, err := repo.LoadAttachments()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if payloads["e1"] != "data:image/png;base64,AAA" {
		t.Fatalf("got %q", payloads["e1"])
	}

	if err := repo.DeleteAttachment("e1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := repo.DeleteAttachment("missing"); err != nil {
		t.Fatalf("delete of absent id must be a no-op: %v", err)
	}
	payloads, err = repo.LoadAttachments()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if len(payloads) != 0 {
		t.Fatalf("expected empty, got %v", payloads)
	}
}

func TestSettings(t *testing.T) {
	repo := openTemp(t)

	if _, err := repo.LoadSetting("theme"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if err := repo.SaveSetting("theme", "dark"); err != nil {
		t.Fatalf("save: %v", err)
	}
	v, err := repo.LoadSetting("theme")
	if err != nil || v != "dark" {
		t.Fatalf("got %q, %v", v, err)
	}
}
