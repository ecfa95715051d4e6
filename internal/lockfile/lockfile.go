// Package lockfile provides an opt-in advisory cross-process lock used
// to serialize concurrent builders against the same index file. It is
// advisory only: nothing stops a process that skips Acquire from
// touching the file, the same way flock never stops a non-cooperating
// writer.
package lockfile

import (
	"fmt"
	"os"

	"golang.org/x/sys/unix"
)

// Lock holds an advisory exclusive lock on a file descriptor.
type Lock struct {
	f *os.File
}

// Acquire opens (creating if necessary) path and takes an exclusive,
// non-blocking advisory lock on it. IndexUnavailable-flavored callers
// should treat ErrLocked as "another builder currently owns this
// index" rather than a hard failure.
func Acquire(path string) (*Lock, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_RDWR, 0o644)
	if err != nil {
		return nil, fmt.Errorf("lockfile: open %s: %w", path, err)
	}

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX|unix.LOCK_NB); err != nil {
		f.Close()
		if err == unix.EWOULDBLOCK {
			return nil, ErrLocked
		}
		return nil, fmt.Errorf("lockfile: flock %s: %w", path, err)
	}

	return &Lock{f: f}, nil
}

// ErrLocked is returned by Acquire when another process already holds
// the lock.
var ErrLocked = fmt.Errorf("lockfile: already locked by another process")

// Release unlocks and closes the underlying file descriptor.
func (l *Lock) Release() error {
	if err := unix.Flock(int(l.f.Fd()), unix.LOCK_UN); err != nil {
		l.f.Close()
		return fmt.Errorf("lockfile: unlock: %w", err)
	}
	return l.f.Close()
}
