package media

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rubiojr/medialog/pkg/storage"
)

// Factory constructs media, running each destination's one-time setup
// (directory validation, file creation, schema creation) exactly once per
// distinct configuration. Constructed store media are memoized per
// path+table so the database handle is shared.
type Factory struct {
	cache  *SetupCache
	mu     sync.Mutex
	stores map[string]*storeMedium
}

func NewFactory() *Factory {
	return &Factory{
		cache:  NewSetupCache(),
		stores: make(map[string]*storeMedium),
	}
}

// defaultFactory backs the package-level constructors for callers that do
// not manage a factory of their own.
var defaultFactory = NewFactory()

// DefaultFactory returns the process-wide factory.
func DefaultFactory() *Factory { return defaultFactory }

// NewFile constructs an unlocked file medium using the default factory.
func NewFile(path string) (Medium, error) { return defaultFactory.File(path) }

// NewLockedFile constructs a locked file medium using the default factory.
func NewLockedFile(path string) (Medium, error) { return defaultFactory.LockedFile(path) }

// NewStore constructs an embedded-store medium using the default factory.
func NewStore(path, table string) (Medium, error) { return defaultFactory.Store(path, table) }

// File returns a medium appending one serialized message per line to path,
// without locking. Setup failures return a *SetupError immediately.
//
// The unlocked append trades safety for throughput: concurrent writers from
// multiple processes may interleave partial records. Use LockedFile when
// more than one writer can touch the file.
func (f *Factory) File(path string) (Medium, error) {
	if err := f.cache.Do("file:"+path, func() error {
		return ensureFileTarget(path)
	}); err != nil {
		return nil, err
	}
	return &fileMedium{path: path}, nil
}

// LockedFile is File with an exclusive flock held around each write, making
// it safe for concurrent writers across processes. Lock acquisition blocks
// until the lock is available.
func (f *Factory) LockedFile(path string) (Medium, error) {
	if err := f.cache.Do("file:"+path, func() error {
		return ensureFileTarget(path)
	}); err != nil {
		return nil, err
	}
	return &fileMedium{path: path, locked: true}, nil
}

// Store returns a medium inserting messages into an sqlite database. The
// database is opened and the table created here, at factory time. Repeated
// calls with the same path and table share one handle.
func (f *Factory) Store(path, table string) (Medium, error) {
	if table == "" {
		table = storage.DefaultTable
	}
	key := "store:" + path + "|" + table
	err := f.cache.Do(key, func() error {
		st, err := storage.Open(path, table)
		if err != nil {
			return &StoreError{Path: path, Table: table, Err: err}
		}
		f.mu.Lock()
		f.stores[key] = &storeMedium{store: st}
		f.mu.Unlock()
		return nil
	})
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	m := f.stores[key]
	f.mu.Unlock()
	return m, nil
}

// Close closes any store handles the factory opened.
func (f *Factory) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	var firstErr error
	for key, m := range f.stores {
		if err := m.store.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("closing %s: %w", key, err)
		}
		delete(f.stores, key)
	}
	return firstErr
}

// ensureFileTarget verifies the target is usable before any message flows:
// the parent directory exists (created if missing), is a directory, is
// writable, and the file itself exists or can be created.
func ensureFileTarget(path string) error {
	dir := filepath.Dir(path)

	info, err := os.Stat(dir)
	switch {
	case os.IsNotExist(err):
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &SetupError{Path: path, Err: fmt.Errorf("creating directory %s: %w", dir, err)}
		}
	case err != nil:
		return &SetupError{Path: path, Err: fmt.Errorf("checking directory %s: %w", dir, err)}
	case !info.IsDir():
		return &SetupError{Path: path, Err: fmt.Errorf("%s is not a directory", dir)}
	}

	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return &SetupError{Path: path, Err: fmt.Errorf("opening %s for append: %w", path, err)}
	}
	if err := file.Close(); err != nil {
		return &SetupError{Path: path, Err: fmt.Errorf("closing %s: %w", path, err)}
	}
	return nil
}
