package errors

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

var stderrLogger = zerolog.New(zerolog.ConsoleWriter{
	Out:        os.Stderr,
	TimeFormat: time.RFC3339,
}).With().Timestamp().Logger()

// LogHandler is an ErrorHandler that writes errors to a zerolog logger.
type LogHandler struct {
	// Logger receives the records. Nil logs to stderr.
	Logger *zerolog.Logger
	// Verbose enables detailed output including stack traces.
	Verbose bool
}

func (h *LogHandler) logger() *zerolog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return &stderrLogger
}

// HandleError logs a ReactiveError.
func (h *LogHandler) HandleError(err *ReactiveError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().Str("op", err.Op).Stringer("kind", err.Kind).Err(err.Err)
	if err.Host != "" {
		ev = ev.Str("host", err.Host)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("reactive error")
}

// HandlePanic logs a PanicError.
func (h *LogHandler) HandlePanic(err *PanicError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().Interface("value", err.Value)
	if err.Op != "" {
		ev = ev.Str("op", err.Op)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("reactive panic")
}

// HandlePassError logs an aborted update pass.
func (h *LogHandler) HandlePassError(err *PassError) {
	if err == nil {
		return
	}
	ev := h.logger().Error().
		Str("host", err.Host).
		Str("component", err.Component).
		Str("phase", err.Phase).
		Str("hook", err.Hook)
	if err.Err != nil {
		ev = ev.Err(err.Err)
	}
	if err.Recovered != nil {
		ev = ev.Interface("recovered", err.Recovered)
	}
	if h.Verbose && err.StackTrace != "" {
		ev = ev.Str("stack", err.StackTrace)
	}
	ev.Msg("update pass aborted")
}

// HandleReflectionError logs a reflection mismatch as a warning.
func (h *LogHandler) HandleReflectionError(err *ReflectionError) {
	if err == nil {
		return
	}
	h.logger().Warn().
		Str("host", err.Host).
		Str("attribute", err.Attribute).
		Str("property", err.Property).
		Str("raw", err.Raw).
		Err(err.Err).
		Msg("attribute value skipped")
}
