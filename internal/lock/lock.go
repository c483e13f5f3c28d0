// Package lock serializes installs of the same asset across processes.
package lock

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
)

const (
	// Suffix is appended to the guarded path to form the lock file path.
	Suffix = ".lock"
	// retryDelay is the delay between lock attempts while waiting.
	retryDelay = 50 * time.Millisecond
)

// ErrLocked is returned by TryAcquire when another holder has the lock.
var ErrLocked = errors.New("install lock held: another install may be in progress")

// Lock is an exclusive advisory lock on path + Suffix.
type Lock struct {
	path  string
	flock *flock.Flock
}

// Path returns the lock file path for a guarded path.
func Path(guarded string) string {
	return guarded + Suffix
}

// Acquire blocks until the lock for guarded is held or ctx is done.
func Acquire(ctx context.Context, guarded string) (*Lock, error) {
	l, err := newLock(guarded)
	if err != nil {
		return nil, err
	}

	locked, err := l.flock.TryLockContext(ctx, retryDelay)
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !locked {
		return nil, fmt.Errorf("acquire lock %s: %w", l.path, ErrLocked)
	}

	return l, nil
}

// TryAcquire takes the lock for guarded without waiting.
func TryAcquire(guarded string) (*Lock, error) {
	l, err := newLock(guarded)
	if err != nil {
		return nil, err
	}

	locked, err := l.flock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", l.path, err)
	}
	if !locked {
		return nil, ErrLocked
	}

	return l, nil
}

func newLock(guarded string) (*Lock, error) {
	path := Path(guarded)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	return &Lock{path: path, flock: flock.New(path)}, nil
}

// Release releases the lock. The lock file stays on disk: removing it while
// another process waits on it would let a third process lock a new inode.
func (l *Lock) Release() error {
	if l.flock == nil {
		return nil
	}
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release lock %s: %w", l.path, err)
	}
	l.flock = nil
	return nil
}

// With runs fn while holding the lock for guarded. When another holder has
// the lock, waiting (if non-nil) is called once before blocking. fn's error
// wins over a release error.
func With(ctx context.Context, guarded string, waiting func(), fn func() error) (err error) {
	l, err := TryAcquire(guarded)
	if errors.Is(err, ErrLocked) {
		if waiting != nil {
			waiting()
		}
		l, err = Acquire(ctx, guarded)
	}
	if err != nil {
		return err
	}
	defer func() {
		if releaseErr := l.Release(); err == nil {
			err = releaseErr
		}
	}()

	return fn()
}
