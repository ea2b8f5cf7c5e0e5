package media

import (
	"github.com/rubiojr/medialog/pkg/message"
	"github.com/rubiojr/medialog/pkg/storage"
)

// storeMedium inserts messages into an embedded sqlite store. Concurrent
// writers serialize through sqlite's own locking.
type storeMedium struct {
	store *storage.Store
}

func (m *storeMedium) Name() string {
	return "store:" + m.store.Path() + "#" + m.store.Table()
}

func (m *storeMedium) Write(msg message.Message) error {
	if !msg.Validate() {
		// Surface the encoding problem as the encoding error itself
		// rather than a store error about a write never attempted.
		_, err := msg.Encode()
		return err
	}
	if err := m.store.Insert(msg); err != nil {
		return &StoreError{Path: m.store.Path(), Table: m.store.Table(), Err: err}
	}
	return nil
}
