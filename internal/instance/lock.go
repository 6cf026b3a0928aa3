// pattern: Imperative Shell
package instance

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

const watchLockName = "taskwt-watch.lock"

// LockRepo acquires the per-repository lock, blocking until it is free.
// Lifecycle operations targeting the same repository must not interleave;
// operations on different repositories are independent.
func LockRepo(dataDir, repoName string) (*flock.Flock, error) {
	lockDir := filepath.Join(dataDir, "locks")
	if err := os.MkdirAll(lockDir, 0755); err != nil {
		return nil, fmt.Errorf("creating lock directory: %w", err)
	}
	fl := flock.New(filepath.Join(lockDir, repoName+".lock"))
	if err := fl.Lock(); err != nil {
		return nil, fmt.Errorf("failed to lock repository %s: %w", repoName, err)
	}
	return fl, nil
}

// Unlock releases a lock taken by LockRepo or LockWatch.
func Unlock(fl *flock.Flock) {
	if fl != nil {
		_ = fl.Unlock()
	}
}

// LockWatch acquires the watch daemon's single-instance lock without
// blocking. Returns an error if another watcher already holds it.
func LockWatch(dataDir string) (*flock.Flock, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}
	fl := flock.New(filepath.Join(dataDir, watchLockName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire watch lock: %w", err)
	}
	if !locked {
		return nil, fmt.Errorf("another taskwt watcher is already running")
	}
	return fl, nil
}

// CleanupWatch removes a stale watch lock file left by a crashed watcher.
// Fails if a live watcher still holds the lock.
func CleanupWatch(dataDir string) error {
	fl, err := LockWatch(dataDir)
	if err != nil {
		return err
	}
	Unlock(fl)
	return os.Remove(filepath.Join(dataDir, watchLockName))
}
