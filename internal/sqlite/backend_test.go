// Tests for the SQLite HostStorage backend.
package sqlite

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cairnapp/cairn/pkg/types"
)

func attachedBackend(t *testing.T) *Backend {
	t.Helper()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: t.TempDir(),
	}
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	t.Cleanup(func() { b.Detach() })
	return b
}

func TestBackendAttach(t *testing.T) {
	tmpDir := t.TempDir()

	b := NewBackend()
	config := types.Config{
		Backend: types.BackendSQLite,
		DataDir: tmpDir,
	}

	err := b.Attach(config)
	if err != nil {
		t.Fatalf("Attach failed: %v", err)
	}

	// Verify database file created
	dbPath := filepath.Join(tmpDir, dbFileName)
	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("cairn.db not created")
	}

	// Verify double attach fails
	err = b.Attach(config)
	if err != types.ErrAlreadyAttached {
		t.Errorf("expected ErrAlreadyAttached, got %v", err)
	}

	b.Detach()
}

func TestBackendAttachRejectsInvalidConfig(t *testing.T) {
	b := NewBackend()
	err := b.Attach(types.Config{Backend: "leveldb"})
	if err != types.ErrBackendUnknown {
		t.Errorf("expected ErrBackendUnknown, got %v", err)
	}
}

func TestBackendDetach(t *testing.T) {
	b := NewBackend()
	b.Attach(types.Config{Backend: types.BackendSQLite, DataDir: t.TempDir()})

	if err := b.Detach(); err != nil {
		t.Fatalf("Detach failed: %v", err)
	}

	// Verify idempotent
	if err := b.Detach(); err != nil {
		t.Errorf("second Detach failed: %v", err)
	}

	// Verify operations fail after detach
	if err := b.Set("k", []byte("v")); err != types.ErrStorageDetached {
		t.Errorf("expected ErrStorageDetached, got %v", err)
	}
	if _, err := b.Get("k"); err != types.ErrStorageDetached {
		t.Errorf("expected ErrStorageDetached, got %v", err)
	}
}

func TestBackendSetGetRemove(t *testing.T) {
	b := attachedBackend(t)

	if err := b.Set("alpha", []byte("one")); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	got, err := b.Get("alpha")
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if string(got) != "one" {
		t.Errorf("Get = %q, want %q", got, "one")
	}

	// Overwrite
	if err := b.Set("alpha", []byte("two")); err != nil {
		t.Fatalf("overwrite failed: %v", err)
	}
	got, _ = b.Get("alpha")
	if string(got) != "two" {
		t.Errorf("after overwrite Get = %q, want %q", got, "two")
	}

	if err := b.Remove("alpha"); err != nil {
		t.Fatalf("Remove failed: %v", err)
	}
	if _, err := b.Get("alpha"); err != types.ErrKeyNotFound {
		t.Errorf("expected ErrKeyNotFound after remove, got %v", err)
	}

	// Removing an absent key is not an error
	if err := b.Remove("alpha"); err != nil {
		t.Errorf("removing absent key failed: %v", err)
	}
}

func TestBackendKeysAndClearScopedToPrefix(t *testing.T) {
	b := attachedBackend(t)

	b.Set("app_cache_a", []byte("1"))
	b.Set("app_cache_b", []byte("2"))
	b.Set("app_token", []byte("3"))
	b.Set("other", []byte("4"))

	keys, err := b.Keys("app_cache_")
	if err != nil {
		t.Fatalf("Keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "app_cache_a" || keys[1] != "app_cache_b" {
		t.Errorf("Keys = %v, want [app_cache_a app_cache_b]", keys)
	}

	if err := b.Clear("app_"); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if _, err := b.Get("app_token"); err != types.ErrKeyNotFound {
		t.Errorf("prefixed key survived Clear: %v", err)
	}
	if _, err := b.Get("other"); err != nil {
		t.Errorf("unprefixed key did not survive Clear: %v", err)
	}
}

func TestBackendDataSurvivesReattach(t *testing.T) {
	tmpDir := t.TempDir()
	config := types.Config{Backend: types.BackendSQLite, DataDir: tmpDir}

	b := NewBackend()
	if err := b.Attach(config); err != nil {
		t.Fatalf("Attach failed: %v", err)
	}
	b.Set("durable", []byte("payload"))
	b.Detach()

	b2 := NewBackend()
	if err := b2.Attach(config); err != nil {
		t.Fatalf("reattach failed: %v", err)
	}
	defer b2.Detach()

	got, err := b2.Get("durable")
	if err != nil {
		t.Fatalf("Get after reattach failed: %v", err)
	}
	if string(got) != "payload" {
		t.Errorf("Get after reattach = %q, want %q", got, "payload")
	}
}

func TestBackendUsage(t *testing.T) {
	b := attachedBackend(t)

	u, err := b.Usage()
	if err != nil {
		t.Fatalf("Usage failed: %v", err)
	}
	if u.UsedBytes != 0 {
		t.Errorf("empty store UsedBytes = %d, want 0", u.UsedBytes)
	}
	if u.LimitBytes != types.DefaultLimitBytes {
		t.Errorf("LimitBytes = %d, want default %d", u.LimitBytes, types.DefaultLimitBytes)
	}

	b.Set("ab", []byte("cdef"))
	u, _ = b.Usage()
	if u.UsedBytes != 6 {
		t.Errorf("UsedBytes = %d, want 6", u.UsedBytes)
	}
}

func TestPrefixUpperBound(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{"abc", "abd"},
		{"a\xff", "b"},
		{"", "\xff\xff\xff\xff"},
	}
	for _, tt := range tests {
		if got := prefixUpperBound(tt.prefix); got != tt.want {
			t.Errorf("prefixUpperBound(%q) = %q, want %q", tt.prefix, got, tt.want)
		}
	}
}
