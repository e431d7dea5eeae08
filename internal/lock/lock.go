// Package lock serializes mutating operations on a site across concurrent
// siteman invocations.
//
// The lock is an advisory flock on a file keyed by the site's full domain.
// Two operators (or a script retry) touching the same site block each
// other; different sites proceed in parallel. Read-only intents never take
// the lock.
package lock

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

// acquireTimeout bounds how long a second invocation waits for the holder.
const acquireTimeout = 10 * time.Second

// Manager creates per-site locks in a single directory.
type Manager struct {
	dir string
}

// NewManager creates a Manager storing lock files under dir.
func NewManager(dir string) *Manager {
	return &Manager{dir: dir}
}

// DefaultDir returns the lock directory for this user.
func DefaultDir() string {
	return filepath.Join(os.TempDir(), "siteman-locks")
}

// Acquire takes the exclusive lock for fullDomain, waiting up to the
// acquire timeout. The returned release function must be called exactly
// once; it also removes nothing on disk (lock files are reused).
func (m *Manager) Acquire(ctx context.Context, fullDomain string) (release func(), err error) {
	if err := os.MkdirAll(m.dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, acquireTimeout)
	defer cancel()

	fl := flock.New(filepath.Join(m.dir, fullDomain+".lock"))
	locked, err := fl.TryLockContext(ctx, 100*time.Millisecond)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock for %s: %w", fullDomain, err)
	}
	if !locked {
		return nil, fmt.Errorf("site %s is locked by another invocation", fullDomain)
	}

	return func() { _ = fl.Unlock() }, nil
}
