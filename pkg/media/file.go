package media

import (
	"os"

	"github.com/rubiojr/medialog/pkg/message"
	"golang.org/x/sys/unix"
)

// fileMedium appends one JSON line per message to a file, optionally under
// an exclusive advisory lock.
type fileMedium struct {
	path   string
	locked bool
}

func (m *fileMedium) Name() string {
	if m.locked {
		return "lockedfile:" + m.path
	}
	return "file:" + m.path
}

func (m *fileMedium) Write(msg message.Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	line := append(data, '\n')

	file, err := os.OpenFile(m.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		if m.locked {
			return &LockError{Path: m.path, Err: err}
		}
		return &WriteError{Path: m.path, Err: err}
	}
	// Close on every exit path. For the locked case close also releases
	// the flock, so a failed write can never leave the lock held and
	// starve other writers.
	defer func() {
		_ = file.Close()
	}()

	if m.locked {
		// Blocks until the lock is available; a stuck holder stalls
		// every writer to this file.
		if err := unix.Flock(int(file.Fd()), unix.LOCK_EX); err != nil {
			return &LockError{Path: m.path, Err: err}
		}
		defer func() {
			_ = unix.Flock(int(file.Fd()), unix.LOCK_UN)
		}()
	}

	if _, err := file.Write(line); err != nil {
		return &WriteError{Path: m.path, Err: err}
	}
	return nil
}
