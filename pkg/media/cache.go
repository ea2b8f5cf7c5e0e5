package media

import "sync"

// SetupCache records which idempotent setup actions have already run, keyed
// by destination configuration (a file path, or a database path plus table
// name). Setup runs once per distinct key for the life of the cache and is
// skipped on every later factory call with the same key.
//
// Only successful runs are recorded: a failed setup returns its error to
// the factory caller and a retry runs the setup again.
type SetupCache struct {
	mu   sync.Mutex
	done map[string]bool
}

// NewSetupCache returns an empty cache. A Factory owns one; tests create
// their own to stay independent of each other.
func NewSetupCache() *SetupCache {
	return &SetupCache{done: make(map[string]bool)}
}

// Do runs fn if no successful run is recorded for key, and records success.
// Concurrent callers with the same key serialize; fn runs at most once.
func (c *SetupCache) Do(key string, fn func() error) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.done[key] {
		return nil
	}
	if err := fn(); err != nil {
		return err
	}
	c.done[key] = true
	return nil
}

// Done reports whether a successful run is recorded for key.
func (c *SetupCache) Done(key string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.done[key]
}
