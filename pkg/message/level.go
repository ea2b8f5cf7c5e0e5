package message

import (
	"fmt"
	"strings"
)

// Level is a log severity. Levels are compared and stored by name; the only
// numeric interpretation anywhere in the system is the syslog priority
// mapping in pkg/media.
type Level string

const (
	LevelEmergency Level = "EMERGENCY"
	LevelAlert     Level = "ALERT"
	LevelCritical  Level = "CRITICAL"
	LevelError     Level = "ERROR"
	LevelWarning   Level = "WARNING"
	LevelNotice    Level = "NOTICE"
	LevelInfo      Level = "INFO"
	LevelDebug     Level = "DEBUG"
)

// Levels returns all valid levels, most to least severe.
func Levels() []Level {
	return []Level{
		LevelEmergency,
		LevelAlert,
		LevelCritical,
		LevelError,
		LevelWarning,
		LevelNotice,
		LevelInfo,
		LevelDebug,
	}
}

// Valid reports whether l is one of the eight known severity names.
func (l Level) Valid() bool {
	switch l {
	case LevelEmergency, LevelAlert, LevelCritical, LevelError,
		LevelWarning, LevelNotice, LevelInfo, LevelDebug:
		return true
	}
	return false
}

func (l Level) String() string {
	return string(l)
}

// ParseLevel converts a case-insensitive level name to a Level.
func ParseLevel(s string) (Level, error) {
	l := Level(strings.ToUpper(strings.TrimSpace(s)))
	if !l.Valid() {
		return "", fmt.Errorf("unknown log level %q", s)
	}
	return l, nil
}
