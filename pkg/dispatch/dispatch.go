// Package dispatch fans a single log event out to a list of media with
// per-destination failure isolation: one destination failing never stops
// delivery to the others and never propagates to the caller. Logging is a
// side effect, not a value the application branches on.
package dispatch

import (
	"fmt"
	"sync"

	"github.com/rubiojr/medialog/pkg/logfallback"
	"github.com/rubiojr/medialog/pkg/media"
	"github.com/rubiojr/medialog/pkg/message"
)

// Dispatcher routes messages to media. It owns the default-destination
// list and a media factory with its one-time setup cache, so independent
// dispatchers (and tests) do not leak state into each other.
type Dispatcher struct {
	mu       sync.Mutex
	defaults []media.Medium
	factory  *media.Factory
}

func New() *Dispatcher {
	return &Dispatcher{factory: media.NewFactory()}
}

// Factory returns the dispatcher's media factory.
func (d *Dispatcher) Factory() *media.Factory {
	return d.factory
}

// Dispatch builds a message from text, level and context and writes it to
// each destination in order. With no explicit destinations the current
// defaults are used, lazily seeded with the system log.
//
// A failing destination is reported on the fallback channel, with the
// original message text, and the remaining destinations are still written.
// Dispatch never returns an error: a sink outage must not become an
// application failure.
func (d *Dispatcher) Dispatch(text string, level message.Level, context map[string]interface{}, destinations ...media.Medium) {
	msg := message.New(level, text, context)
	if len(destinations) == 0 {
		destinations = d.Defaults()
	}
	for _, m := range destinations {
		d.write(m, msg)
	}
}

// write invokes one medium and contains whatever goes wrong in it,
// including panics from third-party media.
func (d *Dispatcher) write(m media.Medium, msg message.Message) {
	defer func() {
		if r := recover(); r != nil {
			logfallback.Report(m.Name(), fmt.Errorf("panic: %v", r), msg.Text())
		}
	}()
	if err := m.Write(msg); err != nil {
		logfallback.Report(m.Name(), err, msg.Text())
	}
}

// SetDefaults replaces the default destination list wholesale and returns
// what was set. There is no per-destination removal, only replacement.
func (d *Dispatcher) SetDefaults(destinations ...media.Medium) []media.Medium {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.defaults = append([]media.Medium(nil), destinations...)
	return append([]media.Medium(nil), d.defaults...)
}

// Defaults returns the current default destinations. An unset list is
// atomically initialized to a single system-log medium first, so a reader
// never observes an empty default set.
func (d *Dispatcher) Defaults() []media.Medium {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.defaults) == 0 {
		d.defaults = []media.Medium{media.NewSyslog(media.DefaultSyslogTag)}
	}
	return append([]media.Medium(nil), d.defaults...)
}
