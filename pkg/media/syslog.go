package media

import (
	"log/syslog"
	"sync"

	"github.com/rubiojr/medialog/pkg/logfallback"
	"github.com/rubiojr/medialog/pkg/message"
)

// DefaultSyslogTag is the syslog program tag used when none is configured.
const DefaultSyslogTag = "medialog"

// SyslogPriority maps a severity level to its syslog priority. Unknown
// levels map to LOG_INFO.
func SyslogPriority(l message.Level) syslog.Priority {
	switch l {
	case message.LevelEmergency:
		return syslog.LOG_EMERG
	case message.LevelAlert:
		return syslog.LOG_ALERT
	case message.LevelCritical:
		return syslog.LOG_CRIT
	case message.LevelError:
		return syslog.LOG_ERR
	case message.LevelWarning:
		return syslog.LOG_WARNING
	case message.LevelNotice:
		return syslog.LOG_NOTICE
	case message.LevelInfo:
		return syslog.LOG_INFO
	case message.LevelDebug:
		return syslog.LOG_DEBUG
	default:
		return syslog.LOG_INFO
	}
}

// syslogMedium writes to the system log. It dials lazily on first write and
// keeps the connection. If syslog is unavailable, or a write fails, the
// line goes to the fallback channel and the write reports success: the
// system log is the destination of last resort, so it never fails visibly.
type syslogMedium struct {
	tag string
	mu  sync.Mutex
	w   *syslog.Writer
}

// NewSyslog returns a system-log medium. There is no setup to fail, so
// unlike the file and store factories this cannot return an error.
func NewSyslog(tag string) Medium {
	if tag == "" {
		tag = DefaultSyslogTag
	}
	return &syslogMedium{tag: tag}
}

func (m *syslogMedium) Name() string {
	return "syslog:" + m.tag
}

func (m *syslogMedium) Write(msg message.Message) error {
	data, err := msg.Encode()
	if err != nil {
		return err
	}
	line := string(data)

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.w == nil {
		w, err := syslog.New(syslog.LOG_INFO|syslog.LOG_USER, m.tag)
		if err != nil {
			logfallback.Writef("medialog: syslog unavailable (%v): %s", err, line)
			return nil
		}
		m.w = w
	}

	if err := m.emit(SyslogPriority(msg.Level()), line); err != nil {
		// Drop the connection so the next write redials.
		_ = m.w.Close()
		m.w = nil
		logfallback.Writef("medialog: syslog write failed (%v): %s", err, line)
	}
	return nil
}

func (m *syslogMedium) emit(priority syslog.Priority, line string) error {
	switch priority {
	case syslog.LOG_EMERG:
		return m.w.Emerg(line)
	case syslog.LOG_ALERT:
		return m.w.Alert(line)
	case syslog.LOG_CRIT:
		return m.w.Crit(line)
	case syslog.LOG_ERR:
		return m.w.Err(line)
	case syslog.LOG_WARNING:
		return m.w.Warning(line)
	case syslog.LOG_NOTICE:
		return m.w.Notice(line)
	case syslog.LOG_DEBUG:
		return m.w.Debug(line)
	default:
		return m.w.Info(line)
	}
}
