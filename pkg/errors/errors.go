// Package errors provides structured error handling for the reactive update core.
package errors

import (
	stderrors "errors"
	"fmt"
	"time"
)

// ErrorKind identifies the category of an error.
type ErrorKind int

const (
	// KindUnknown indicates an error of unknown type.
	KindUnknown ErrorKind = iota
	// KindRender indicates a Renderer or lifecycle hook failure during a pass.
	KindRender
	// KindReflection indicates an attribute value that could not be converted.
	KindReflection
	// KindAttachment indicates a controller attached or detached out of order.
	KindAttachment
	// KindScheduler indicates a scheduling loop failure.
	KindScheduler
	// KindConfig indicates a configuration error.
	KindConfig
	// KindPanic indicates a recovered panic.
	KindPanic
)

func (k ErrorKind) String() string {
	switch k {
	case KindRender:
		return "render"
	case KindReflection:
		return "reflection"
	case KindAttachment:
		return "attachment"
	case KindScheduler:
		return "scheduler"
	case KindConfig:
		return "config"
	case KindPanic:
		return "panic"
	default:
		return "unknown"
	}
}

// Is reports whether err, or any error it wraps, is of the given kind.
func Is(err error, kind ErrorKind) bool {
	var re *ReactiveError
	if stderrors.As(err, &re) && re.Kind == kind {
		return true
	}
	switch kind {
	case KindRender:
		var pe *PassError
		return stderrors.As(err, &pe)
	case KindReflection:
		var fe *ReflectionError
		return stderrors.As(err, &fe)
	case KindAttachment:
		var ae *AttachmentError
		return stderrors.As(err, &ae)
	case KindPanic:
		var pe *PanicError
		return stderrors.As(err, &pe)
	}
	return false
}

// ReactiveError represents a structured error raised by the update core.
type ReactiveError struct {
	// Op is the operation that failed (e.g., "attr.FileSource.Set").
	Op string
	// Kind categorizes the error.
	Kind ErrorKind
	// Host is the identity of the host involved, if any.
	Host string
	// Err is the underlying error.
	Err error
	// StackTrace contains the call stack at the time of the error.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ReactiveError) Error() string {
	if e.Host != "" {
		return fmt.Sprintf("%s [%s] host=%s: %v", e.Op, e.Kind, e.Host, e.Err)
	}
	return fmt.Sprintf("%s [%s]: %v", e.Op, e.Kind, e.Err)
}

func (e *ReactiveError) Unwrap() error {
	return e.Err
}

// PanicError represents a recovered panic.
type PanicError struct {
	// Op is the operation that panicked (e.g., "scheduler.Loop.Turn").
	Op string
	// Value is the value passed to panic().
	Value any
	// StackTrace contains the call stack at the time of the panic.
	StackTrace string
	// Timestamp is when the panic occurred.
	Timestamp time.Time
}

func (e *PanicError) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
	}
	return fmt.Sprintf("panic: %v", e.Value)
}

// PassError reports a Renderer or hook failure that aborted an update pass.
// The host stays in the phase named by Phase until an explicit update request.
type PassError struct {
	// Host is the identity of the host whose pass failed.
	Host string
	// Component is the type name of the host's component.
	Component string
	// Phase is the lifecycle phase the pass was in (e.g., "will-update").
	Phase string
	// Hook names the callback that failed (e.g., "Render", "WillUpdate").
	Hook string
	// Recovered is the panic value (nil for regular errors).
	Recovered any
	// Err is the underlying error (nil for panics).
	Err error
	// StackTrace contains the call stack for recovered panics.
	StackTrace string
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *PassError) Error() string {
	if e.Recovered != nil {
		return fmt.Sprintf("panic in %s.%s() during %s: %v", e.Component, e.Hook, e.Phase, e.Recovered)
	}
	if e.Err != nil {
		return fmt.Sprintf("error in %s.%s() during %s: %v", e.Component, e.Hook, e.Phase, e.Err)
	}
	return fmt.Sprintf("unknown error in %s.%s() during %s", e.Component, e.Hook, e.Phase)
}

func (e *PassError) Unwrap() error {
	return e.Err
}

// ReflectionError reports an external attribute value that failed to convert
// into its property. The write is skipped; the host is unaffected.
type ReflectionError struct {
	// Host is the identity of the host receiving the value.
	Host string
	// Attribute is the external attribute name.
	Attribute string
	// Property is the property the attribute maps to.
	Property string
	// Raw is the external value that failed to convert.
	Raw string
	// Err is the converter error.
	Err error
	// Timestamp is when the error occurred.
	Timestamp time.Time
}

func (e *ReflectionError) Error() string {
	return fmt.Sprintf("cannot convert attribute %s=%q into property %s: %v", e.Attribute, e.Raw, e.Property, e.Err)
}

func (e *ReflectionError) Unwrap() error {
	return e.Err
}

// AttachmentError reports a controller attached twice or detached while not attached.
type AttachmentError struct {
	// Host is the identity of the host the operation targeted.
	Host string
	// Controller is the controller's type name.
	Controller string
	// Op is "attach" or "detach".
	Op string
	// Owner is the identity of the host already holding the controller, for attach.
	Owner string
}

func (e *AttachmentError) Error() string {
	if e.Op == "attach" {
		if e.Owner != "" && e.Owner != e.Host {
			return fmt.Sprintf("controller %s is already attached to host %s", e.Controller, e.Owner)
		}
		return fmt.Sprintf("controller %s is already attached to host %s", e.Controller, e.Host)
	}
	return fmt.Sprintf("controller %s is not attached to host %s", e.Controller, e.Host)
}

// ErrorHandler receives errors reported by the update core.
type ErrorHandler interface {
	// HandleError is called when an error occurs.
	HandleError(err *ReactiveError)
	// HandlePanic is called when a panic is recovered.
	HandlePanic(err *PanicError)
	// HandlePassError is called when an update pass aborts.
	HandlePassError(err *PassError)
	// HandleReflectionError is called when an external attribute cannot be converted.
	HandleReflectionError(err *ReflectionError)
}
