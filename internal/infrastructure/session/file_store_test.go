package session

import (
	"path/filepath"
	"testing"
)

func TestFileStore_EmptyUntilSet(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	token, err := store.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if token != "" {
		t.Fatalf("expected no token, got %q", token)
	}
}

func TestFileStore_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token")
	store, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Set("tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}

	// A second store at the same path sees the token: survives "reload".
	reopened, err := NewFileStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	token, err := reopened.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if token != "tok-123" {
		t.Fatalf("expected tok-123, got %q", token)
	}
}

func TestFileStore_ClearIsIdempotent(t *testing.T) {
	store, err := NewFileStore(filepath.Join(t.TempDir(), "token"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}

	if err := store.Set("tok-123"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("second clear must be a no-op: %v", err)
	}

	token, err := store.Get()
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if token != "" {
		t.Fatalf("token survived clear: %q", token)
	}
}
