package message

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TimeLayout is the canonical timestamp form used everywhere a message is
// persisted: ISO-8601 with microsecond precision and a numeric UTC offset,
// e.g. "2025-12-30T10:30:45.123456+00:00".
const TimeLayout = "2006-01-02T15:04:05.000000-07:00"

// Message is a single immutable log event. The id is assigned exactly once
// at creation and never regenerated; the timestamp is the creation time,
// not the write time, so every destination persists the same instant.
type Message struct {
	id      string
	level   Level
	text    string
	context map[string]interface{}
	time    time.Time
}

// New creates a message with a fresh random id and the current UTC time.
// The context map is deep-copied so later mutation by the caller cannot
// leak into an already-created message. New performs no I/O and cannot
// fail; an unrepresentable context surfaces later through Validate/Encode.
func New(level Level, text string, context map[string]interface{}) Message {
	return Message{
		id:      uuid.NewString(),
		level:   level,
		text:    text,
		context: copyContext(context),
		time:    time.Now().UTC(),
	}
}

// NewAt is New with an explicit timestamp. Used when reconstructing
// messages from storage; normal logging paths should use New.
func NewAt(id string, level Level, text string, context map[string]interface{}, t time.Time) Message {
	return Message{
		id:      id,
		level:   level,
		text:    text,
		context: copyContext(context),
		time:    t.UTC(),
	}
}

func (m Message) ID() string   { return m.id }
func (m Message) Level() Level { return m.level }
func (m Message) Text() string { return m.text }

// Context returns a deep copy of the message context.
func (m Message) Context() map[string]interface{} {
	return copyContext(m.context)
}

// Time returns the UTC creation time of the message.
func (m Message) Time() time.Time { return m.time }

// wire is the serialized projection of a message. Field order matters: the
// file destinations append one such object per line and the field is named
// "message" on the wire, not "text".
type wire struct {
	ID      string                 `json:"id"`
	Level   string                 `json:"level"`
	Message string                 `json:"message"`
	Context map[string]interface{} `json:"context"`
	Time    string                 `json:"time"`
}

func (m Message) wire() wire {
	ctx := m.context
	if ctx == nil {
		ctx = map[string]interface{}{}
	}
	return wire{
		ID:      m.id,
		Level:   string(m.level),
		Message: m.text,
		Context: ctx,
		Time:    m.time.Format(TimeLayout),
	}
}

// Validate reports whether the message serializes cleanly. It is safe to
// call speculatively, before any lock is taken or file opened, on paths
// where an encoding problem must become a boolean rather than an error.
func (m Message) Validate() bool {
	_, err := json.Marshal(m.wire())
	return err == nil
}

// Encode returns the canonical JSON form of the message. A context that
// cannot be represented as JSON yields an *EncodingError.
func (m Message) Encode() ([]byte, error) {
	data, err := json.Marshal(m.wire())
	if err != nil {
		return nil, &EncodingError{Text: m.text, Context: m.context, Err: err}
	}
	return data, nil
}

// EncodingError means the message context cannot be represented in JSON.
// It is not retriable without the caller changing the context payload.
type EncodingError struct {
	Text    string
	Context map[string]interface{}
	Err     error
}

func (e *EncodingError) Error() string {
	return fmt.Sprintf("encoding message %q: %v", e.Text, e.Err)
}

func (e *EncodingError) Unwrap() error { return e.Err }

// copyContext deep-copies the JSON-shaped parts of a context map. Values
// that are not maps or slices are shared; those are either immutable
// scalars or values json.Marshal will reject anyway.
func copyContext(ctx map[string]interface{}) map[string]interface{} {
	if ctx == nil {
		return nil
	}
	out := make(map[string]interface{}, len(ctx))
	for k, v := range ctx {
		out[k] = copyValue(v)
	}
	return out
}

func copyValue(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		return copyContext(val)
	case []interface{}:
		out := make([]interface{}, len(val))
		for i, item := range val {
			out[i] = copyValue(item)
		}
		return out
	default:
		return v
	}
}
