package dispatch

import (
	"github.com/rubiojr/medialog/pkg/media"
	"github.com/rubiojr/medialog/pkg/message"
)

// defaultDispatcher backs the package-level convenience API for programs
// that want one process-wide dispatcher.
var defaultDispatcher = New()

// Default returns the process-wide dispatcher.
func Default() *Dispatcher { return defaultDispatcher }

// Dispatch routes one message through the default dispatcher.
func Dispatch(text string, level message.Level, context map[string]interface{}, destinations ...media.Medium) {
	defaultDispatcher.Dispatch(text, level, context, destinations...)
}

// SetDefaults replaces the default dispatcher's destination list.
func SetDefaults(destinations ...media.Medium) []media.Medium {
	return defaultDispatcher.SetDefaults(destinations...)
}

// Defaults returns the default dispatcher's destination list.
func Defaults() []media.Medium {
	return defaultDispatcher.Defaults()
}

// Severity sugar over Dispatch. A nil context is fine.

func Emergency(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelEmergency, context)
}

func Alert(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelAlert, context)
}

func Critical(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelCritical, context)
}

func Error(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelError, context)
}

func Warning(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelWarning, context)
}

func Notice(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelNotice, context)
}

func Info(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelInfo, context)
}

func Debug(text string, context map[string]interface{}) {
	Dispatch(text, message.LevelDebug, context)
}
