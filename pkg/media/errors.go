package media

import "fmt"

// SetupError means a destination could not be constructed: parent directory
// missing or uncreatable, path not writable, target file uncreatable. It is
// raised at factory time so configuration mistakes surface immediately,
// not on the first log call.
type SetupError struct {
	Path string
	Err  error
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("setting up destination %s: %v", e.Path, e.Err)
}

func (e *SetupError) Unwrap() error { return e.Err }

// LockError means the destination file could not be opened or the exclusive
// lock could not be acquired.
type LockError struct {
	Path string
	Err  error
}

func (e *LockError) Error() string {
	return fmt.Sprintf("locking %s: %v", e.Path, e.Err)
}

func (e *LockError) Unwrap() error { return e.Err }

// WriteError means open (and lock, when applicable) succeeded but the write
// itself failed, e.g. disk full.
type WriteError struct {
	Path string
	Err  error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// StoreError means the embedded store could not be opened, its schema could
// not be created, or an insert failed.
type StoreError struct {
	Path  string
	Table string
	Err   error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store %s table %s: %v", e.Path, e.Table, e.Err)
}

func (e *StoreError) Unwrap() error { return e.Err }
