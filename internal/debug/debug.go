// Package debug provides opt-in diagnostic logging. Output is disabled unless
// enabled at build time or via the UIMAP_DEBUG environment variable, and goes
// to the configured writer only, never stdout (the CLI prints JSON there).
package debug

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Build flag for debug mode - can be overridden at build time:
// go build -ldflags "-X github.com/standardbeagle/uimap/internal/debug.EnableDebug=true"
var EnableDebug = "false"

var (
	mu     sync.Mutex
	output io.Writer
)

// SetOutput sets the writer for debug output. Pass nil to disable entirely.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// Enabled reports whether debug logging is active.
func Enabled() bool {
	if EnableDebug == "true" {
		return true
	}
	v := os.Getenv("UIMAP_DEBUG")
	return v == "1" || v == "true"
}

func writer() io.Writer {
	mu.Lock()
	defer mu.Unlock()
	return output
}

// Log writes a component-tagged debug line when debug mode is enabled.
func Log(component, format string, args ...interface{}) {
	if !Enabled() {
		return
	}
	w := writer()
	if w == nil {
		w = os.Stderr
	}
	fmt.Fprintf(w, "[DEBUG:"+component+"] "+format+"\n", args...)
}

// LogWalk logs file walking diagnostics.
func LogWalk(format string, args ...interface{}) {
	Log("WALK", format, args...)
}

// LogClassify logs per-file classification diagnostics.
func LogClassify(format string, args ...interface{}) {
	Log("CLASSIFY", format, args...)
}

// LogResolve logs reference resolution diagnostics.
func LogResolve(format string, args ...interface{}) {
	Log("RESOLVE", format, args...)
}

// LogCache logs cache load/save diagnostics.
func LogCache(format string, args ...interface{}) {
	Log("CACHE", format, args...)
}
