package boogiex

import (
	"log"
	"os"
	"sync/atomic"
)

// Lightweight, opt-in tracing: gated by an atomic.Bool flipped from an
// environment variable at package init, or programmatically via
// EnableTrace.

var traceEnabled atomic.Bool

func init() {
	if os.Getenv("BOOGIEX_TRACE") == "1" {
		traceEnabled.Store(true)
	}
}

// EnableTrace turns on debug tracing for the evaluator, heap GC, and
// solver bridge, independent of the BOOGIEX_TRACE environment variable.
func EnableTrace() { traceEnabled.Store(true) }

// DisableTrace turns tracing back off.
func DisableTrace() { traceEnabled.Store(false) }

func tracef(tag, format string, args ...any) {
	if !traceEnabled.Load() {
		return
	}
	log.Printf("["+tag+"] "+format, args...)
}

func traceHeap(format string, args ...any)  { tracef("GC", format, args...) }
func traceEval(format string, args ...any)  { tracef("EVAL", format, args...) }
func traceSolve(format string, args ...any) { tracef("SOLVER", format, args...) }
