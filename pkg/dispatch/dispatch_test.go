package dispatch

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rubiojr/medialog/pkg/logfallback"
	"github.com/rubiojr/medialog/pkg/media"
	"github.com/rubiojr/medialog/pkg/message"
)

// stubMedium records what it is asked to write and optionally fails.
type stubMedium struct {
	name   string
	err    error
	panics bool
	wrote  []message.Message
}

func (m *stubMedium) Name() string { return m.name }

func (m *stubMedium) Write(msg message.Message) error {
	m.wrote = append(m.wrote, msg)
	if m.panics {
		panic("stub panic")
	}
	return m.err
}

func captureFallback(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	logfallback.SetOutput(&buf)
	t.Cleanup(func() { logfallback.SetOutput(os.Stderr) })
	return &buf
}

func TestDispatchReachesAllMedia(t *testing.T) {
	captureFallback(t)

	a := &stubMedium{name: "a"}
	b := &stubMedium{name: "b"}
	d := New()

	d.Dispatch("hello", message.LevelInfo, map[string]interface{}{"k": "v"}, a, b)

	for _, m := range []*stubMedium{a, b} {
		if len(m.wrote) != 1 {
			t.Fatalf("medium %s wrote %d messages, want 1", m.name, len(m.wrote))
		}
		msg := m.wrote[0]
		if msg.Text() != "hello" || msg.Level() != message.LevelInfo {
			t.Errorf("medium %s got message %q level %s", m.name, msg.Text(), msg.Level())
		}
	}

	// Every medium must see the same message instance: same id, same
	// creation time.
	if a.wrote[0].ID() != b.wrote[0].ID() {
		t.Error("media saw different message ids")
	}
	if !a.wrote[0].Time().Equal(b.wrote[0].Time()) {
		t.Error("media saw different message times")
	}
}

func TestDispatchIsolatesFailures(t *testing.T) {
	buf := captureFallback(t)

	a := &stubMedium{name: "a", err: errors.New("disk full")}
	b := &stubMedium{name: "b"}
	c := &stubMedium{name: "c"}
	d := New()

	d.Dispatch("survives", message.LevelWarning, nil, a, b, c)

	for _, m := range []*stubMedium{a, b, c} {
		if len(m.wrote) != 1 {
			t.Errorf("medium %s invoked %d times, want 1", m.name, len(m.wrote))
		}
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("fallback got %d lines, want 2: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "a") || !strings.Contains(lines[0], "disk full") {
		t.Errorf("first fallback line missing destination or reason: %q", lines[0])
	}
	if !strings.Contains(lines[1], "survives") {
		t.Errorf("second fallback line missing original text: %q", lines[1])
	}
}

func TestDispatchContainsPanics(t *testing.T) {
	buf := captureFallback(t)

	a := &stubMedium{name: "a", panics: true}
	b := &stubMedium{name: "b"}
	d := New()

	d.Dispatch("still here", message.LevelInfo, nil, a, b)

	if len(b.wrote) != 1 {
		t.Error("panic in one medium suppressed delivery to the next")
	}
	if !strings.Contains(buf.String(), "panic") {
		t.Errorf("fallback should mention the panic: %q", buf.String())
	}
}

func TestDefaultsLazySeed(t *testing.T) {
	d := New()

	defaults := d.Defaults()
	if len(defaults) != 1 {
		t.Fatalf("fresh defaults has %d media, want 1", len(defaults))
	}
	if !strings.HasPrefix(defaults[0].Name(), "syslog:") {
		t.Errorf("fresh default should be the system log, got %s", defaults[0].Name())
	}
}

func TestSetDefaultsReplacesWholesale(t *testing.T) {
	a := &stubMedium{name: "a"}
	b := &stubMedium{name: "b"}
	c := &stubMedium{name: "c"}
	d := New()

	set := d.SetDefaults(a, b)
	if len(set) != 2 || set[0] != media.Medium(a) || set[1] != media.Medium(b) {
		t.Errorf("SetDefaults returned %v", set)
	}

	got := d.Defaults()
	if len(got) != 2 || got[0] != media.Medium(a) || got[1] != media.Medium(b) {
		t.Errorf("Defaults = %v, want [a b]", got)
	}

	d.SetDefaults(c)
	got = d.Defaults()
	if len(got) != 1 || got[0] != media.Medium(c) {
		t.Errorf("second SetDefaults did not replace: %v", got)
	}
}

func TestDispatchUsesDefaults(t *testing.T) {
	captureFallback(t)

	a := &stubMedium{name: "a"}
	d := New()
	d.SetDefaults(a)

	d.Dispatch("to defaults", message.LevelNotice, nil)
	if len(a.wrote) != 1 {
		t.Errorf("default medium wrote %d messages, want 1", len(a.wrote))
	}
}

func TestDispatchWithDefaultsUnsetDoesNotTouchDisk(t *testing.T) {
	captureFallback(t)

	dir := t.TempDir()
	d := New()

	// Routes to the lazily seeded system log (or its stderr fallback);
	// must not raise and must not create files.
	d.Dispatch("hello world", message.LevelInfo, nil)

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		t.Errorf("dispatch wrote files: %v", entries)
	}
}

func TestEndToEndLockedFile(t *testing.T) {
	captureFallback(t)

	path := filepath.Join(t.TempDir(), "t.log")
	d := New()

	m, err := d.Factory().LockedFile(path)
	if err != nil {
		t.Fatalf("creating locked file destination: %v", err)
	}
	d.SetDefaults(m)

	d.Dispatch("first", message.LevelInfo, nil)
	d.Dispatch("second", message.LevelInfo, nil)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	for i, want := range []string{"first", "second"} {
		var decoded map[string]interface{}
		if err := json.Unmarshal([]byte(lines[i]), &decoded); err != nil {
			t.Fatalf("line %d not valid JSON: %v", i, err)
		}
		if decoded["message"] != want {
			t.Errorf("line %d message = %v, want %q", i, decoded["message"], want)
		}
	}
}

func TestEncodingFailureIsContained(t *testing.T) {
	buf := captureFallback(t)

	path := filepath.Join(t.TempDir(), "enc.log")
	d := New()
	m, err := d.Factory().File(path)
	if err != nil {
		t.Fatal(err)
	}

	d.Dispatch("unencodable", message.LevelInfo, map[string]interface{}{"fn": func() {}}, m)

	if !strings.Contains(buf.String(), "unencodable") {
		t.Errorf("fallback should carry the original text: %q", buf.String())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) != 0 {
		t.Errorf("file should stay empty, got %q", data)
	}
}
