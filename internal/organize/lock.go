package organize

import (
	"path/filepath"

	"github.com/gofrs/flock"

	"reelsort/internal/services"
)

const lockFileName = ".reelsort.lock"

// Lock holds the advisory per-source lock that keeps concurrent runs from
// racing each other's collision probes.
type Lock struct {
	fl *flock.Flock
}

// AcquireLock takes a non-blocking advisory lock scoped to the source root.
// A held lock means another run is processing the same tree.
func AcquireLock(root string) (*Lock, error) {
	fl := flock.New(filepath.Join(root, lockFileName))
	locked, err := fl.TryLock()
	if err != nil {
		return nil, services.Wrap(services.ErrFilesystem, "organizing", "lock", "failed to acquire source lock", err)
	}
	if !locked {
		return nil, services.Wrap(services.ErrFilesystem, "organizing", "lock", "another run holds the source lock", nil)
	}
	return &Lock{fl: fl}, nil
}

// Release drops the lock. Safe to call on a nil receiver.
func (l *Lock) Release() {
	if l == nil || l.fl == nil {
		return
	}
	_ = l.fl.Unlock()
}

// Path returns the lock file path so cleanup can skip it.
func (l *Lock) Path() string {
	if l == nil || l.fl == nil {
		return ""
	}
	return l.fl.Path()
}
