package lock

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gofrs/flock"
)

func TestManager_AcquireRelease(t *testing.T) {
	m := NewManager(t.TempDir())
	ctx := context.Background()

	release, err := m.Acquire(ctx, "example.com")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	release()

	// Re-acquirable after release.
	release, err = m.Acquire(ctx, "example.com")
	if err != nil {
		t.Fatalf("re-Acquire failed: %v", err)
	}
	release()
}

func TestManager_DifferentSitesDoNotContend(t *testing.T) {
	m := NewManager(t.TempDir())
	ctx := context.Background()

	r1, err := m.Acquire(ctx, "a.example.com")
	if err != nil {
		t.Fatalf("Acquire a: %v", err)
	}
	defer r1()

	r2, err := m.Acquire(ctx, "b.example.com")
	if err != nil {
		t.Fatalf("Acquire b should not block on a: %v", err)
	}
	r2()
}

func TestManager_HeldLockBlocksSecondHolder(t *testing.T) {
	dir := t.TempDir()
	m := NewManager(dir)

	// Simulate another process holding the flock.
	other := flock.New(filepath.Join(dir, "example.com.lock"))
	locked, err := other.TryLock()
	if err != nil || !locked {
		t.Fatalf("setup flock failed: %v", err)
	}
	defer func() { _ = other.Unlock() }()

	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	if _, err := m.Acquire(ctx, "example.com"); err == nil {
		t.Error("expected Acquire to fail while the lock is held elsewhere")
	}
}

func TestManager_CreatesLockDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "locks")
	m := NewManager(dir)

	release, err := m.Acquire(context.Background(), "example.com")
	if err != nil {
		t.Fatalf("Acquire failed: %v", err)
	}
	release()

	if _, err := os.Stat(dir); err != nil {
		t.Errorf("lock dir not created: %v", err)
	}
}
