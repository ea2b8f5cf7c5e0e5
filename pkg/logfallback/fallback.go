// Package logfallback is the always-available channel of last resort. When a
// configured destination fails, the dispatcher reports the failure here so
// the operator keeps an audit trail even with every sink down. The default
// output is process stderr; tests can redirect it with SetOutput.
package logfallback

import (
	"fmt"
	"io"
	"os"
	"sync/atomic"
)

// writerHolder wraps an io.Writer so that atomic.Value always stores the
// same concrete type, avoiding the "inconsistently typed value" panic when
// swapping from *os.File to *bytes.Buffer in tests.
type writerHolder struct {
	w io.Writer
}

var output atomic.Value // writerHolder

func init() {
	output.Store(writerHolder{w: os.Stderr})
}

// SetOutput replaces the fallback writer. A nil writer is ignored.
func SetOutput(w io.Writer) {
	if w == nil {
		return
	}
	output.Store(writerHolder{w: w})
}

// Output returns the current fallback writer.
func Output() io.Writer {
	return output.Load().(writerHolder).w
}

// Writef writes a single formatted line to the fallback channel. Errors
// writing to the fallback itself are ignored; there is nowhere left to
// report them.
func Writef(format string, args ...interface{}) {
	fmt.Fprintf(Output(), format+"\n", args...)
}

// Report emits the standard two-line failure record: one line naming the
// destination and the reason, one line carrying the original message text
// verbatim.
func Report(destination string, reason error, text string) {
	w := Output()
	fmt.Fprintf(w, "medialog: destination %s failed: %v\n", destination, reason)
	fmt.Fprintf(w, "medialog: dropped message: %s\n", text)
}
