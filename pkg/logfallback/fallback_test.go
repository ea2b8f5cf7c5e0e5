package logfallback

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
)

func TestSetOutputRedirects(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Writef("hello %d", 42)
	if got := buf.String(); got != "hello 42\n" {
		t.Errorf("got %q", got)
	}

	// nil writers are ignored
	SetOutput(nil)
	if Output() != &buf {
		t.Error("nil writer replaced the current output")
	}
}

func TestReportEmitsTwoLines(t *testing.T) {
	var buf bytes.Buffer
	SetOutput(&buf)
	defer SetOutput(os.Stderr)

	Report("file:/var/log/x.jsonl", errors.New("disk full"), "original text")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), lines)
	}
	if !strings.Contains(lines[0], "file:/var/log/x.jsonl") || !strings.Contains(lines[0], "disk full") {
		t.Errorf("first line = %q", lines[0])
	}
	if !strings.Contains(lines[1], "original text") {
		t.Errorf("second line = %q", lines[1])
	}
}
