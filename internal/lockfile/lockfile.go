// Package lockfile provides the advisory, file-based lock taken for the
// duration of a mutating CLI invocation, so two bd processes against
// the same .beads directory don't race each other's writes.
package lockfile

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// DefaultTimeout is how long Acquire waits for a contended lock before
// giving up, absent an explicit override.
const DefaultTimeout = 10 * time.Second

// pollInterval is how often a blocked Acquire retries.
const pollInterval = 25 * time.Millisecond

// Lock wraps an exclusive advisory lock on a single file path.
type Lock struct {
	flock *flock.Flock
}

// New returns a Lock bound to path. The file is created on first
// acquisition if it doesn't already exist.
func New(path string) *Lock {
	return &Lock{flock: flock.New(path)}
}

// Acquire blocks until the lock is held, the context is done, or
// timeout elapses, whichever comes first. A zero timeout means "try
// once, don't wait."
func (l *Lock) Acquire(ctx context.Context, timeout time.Duration) error {
	if timeout <= 0 {
		locked, err := l.flock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", l.flock.Path(), err)
		}
		if !locked {
			return fmt.Errorf("lock %s is held by another process", l.flock.Path())
		}
		return nil
	}

	deadlineCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	for {
		locked, err := l.flock.TryLock()
		if err != nil {
			return fmt.Errorf("acquire lock %s: %w", l.flock.Path(), err)
		}
		if locked {
			return nil
		}
		select {
		case <-deadlineCtx.Done():
			return fmt.Errorf("timed out waiting for lock %s: another bd process may be running", l.flock.Path())
		case <-time.After(pollInterval):
		}
	}
}

// Release unlocks the file. Safe to call even if Acquire was never
// called or already failed.
func (l *Lock) Release() error {
	if l.flock == nil {
		return nil
	}
	return l.flock.Unlock()
}
