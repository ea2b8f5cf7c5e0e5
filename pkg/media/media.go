// Package media implements the log destinations ("media") a message can be
// dispatched to: the system log, plain and lock-protected file appends, and
// an embedded sqlite store. Each medium does one write per message; failure
// containment is the dispatcher's job, not the medium's.
package media

import (
	"github.com/rubiojr/medialog/pkg/message"
)

// Medium is a configured, reusable log destination. This single-method
// contract is the extension point: anything that can accept a message and
// perform a write can be handed to the dispatcher, including third-party
// sinks and wrappers around existing media.
//
// Write performs one write of one message. Implementations do not catch
// their own failures; they return a destination-specific error (see
// errors.go) and leave containment to the caller.
type Medium interface {
	// Name identifies the destination for diagnostics, e.g. "file:/var/log/app.jsonl".
	Name() string

	// Write serializes and persists one message.
	Write(msg message.Message) error
}
