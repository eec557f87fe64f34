package errors

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"
)

var (
	// DefaultHandler receives every reported error. It starts as a
	// non-verbose LogHandler.
	DefaultHandler ErrorHandler = &LogHandler{}

	handlerMu sync.RWMutex
)

// SetHandler replaces the global error handler. Nil restores a
// non-verbose LogHandler.
func SetHandler(h ErrorHandler) {
	if h == nil {
		h = &LogHandler{}
	}
	handlerMu.Lock()
	DefaultHandler = h
	handlerMu.Unlock()
}

func currentHandler() ErrorHandler {
	handlerMu.RLock()
	defer handlerMu.RUnlock()
	return DefaultHandler
}

// stamp fills a zero timestamp and hands the error to deliver when a
// handler is installed.
func stamp(ts *time.Time, deliver func(ErrorHandler)) {
	if ts.IsZero() {
		*ts = time.Now()
	}
	if h := currentHandler(); h != nil {
		deliver(h)
	}
}

// Report sends a ReactiveError to the global handler.
func Report(err *ReactiveError) {
	if err != nil {
		stamp(&err.Timestamp, func(h ErrorHandler) { h.HandleError(err) })
	}
}

// ReportPanic sends a recovered panic to the global handler.
func ReportPanic(err *PanicError) {
	if err != nil {
		stamp(&err.Timestamp, func(h ErrorHandler) { h.HandlePanic(err) })
	}
}

// ReportPassError sends an aborted update pass to the global handler.
func ReportPassError(err *PassError) {
	if err != nil {
		stamp(&err.Timestamp, func(h ErrorHandler) { h.HandlePassError(err) })
	}
}

// ReportReflectionError sends a skipped attribute value to the global handler.
func ReportReflectionError(err *ReflectionError) {
	if err != nil {
		stamp(&err.Timestamp, func(h ErrorHandler) { h.HandleReflectionError(err) })
	}
}

// Recover reports a panic in the calling goroutine and stops it from
// unwinding further. Use it directly in a defer:
//
//	defer errors.Recover("scheduler.Loop.Turn")
func Recover(op string) {
	if r := recover(); r != nil {
		ReportPanic(&PanicError{
			Op:         op,
			Value:      r,
			StackTrace: CaptureStack(),
		})
	}
}

// CaptureStack formats the caller's stack, one "function\n\tfile:line"
// entry per frame, starting above CaptureStack's caller.
func CaptureStack() string {
	var pcs [32]uintptr
	n := runtime.Callers(3, pcs[:])
	if n == 0 {
		return ""
	}

	var sb strings.Builder
	frames := runtime.CallersFrames(pcs[:n])
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&sb, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			return sb.String()
		}
	}
}
