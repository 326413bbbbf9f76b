package loom

import (
	"fmt"
	"strings"
	"sync"
)

// Debug logging goes into a bounded in-memory ring instead of a stream: the
// library owns the terminal while raw mode is active, so nothing may write
// to stdout or stderr behind the compositor's back. The ring is dumped on
// demand, typically after Fini.

const debugRingSize = 512

var debugRing = struct {
	mu    sync.Mutex
	lines []string
	next  int
	full  bool
}{lines: make([]string, debugRingSize)}

// Logf records a formatted line in the debug ring. Safe for concurrent use.
func Logf(format string, args ...any) {
	r := &debugRing
	r.mu.Lock()
	r.lines[r.next] = fmt.Sprintf(format, args...)
	r.next = (r.next + 1) % len(r.lines)
	if r.next == 0 {
		r.full = true
	}
	r.mu.Unlock()
}

// DebugLog returns the ring's contents, oldest first.
func DebugLog() []string {
	r := &debugRing
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []string
	if r.full {
		out = append(out, r.lines[r.next:]...)
	}
	out = append(out, r.lines[:r.next]...)
	return out
}

// DumpDebugLog returns the ring as one newline-joined string and clears it.
func DumpDebugLog() string {
	out := strings.Join(DebugLog(), "\n")
	r := &debugRing
	r.mu.Lock()
	r.next = 0
	r.full = false
	for i := range r.lines {
		r.lines[i] = ""
	}
	r.mu.Unlock()
	return out
}
