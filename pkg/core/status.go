package core

import "fmt"

// Status is the lifecycle phase of a host's update cycle.
//
//	Idle ──RequestUpdate──► RequestedUpdate ──turn──► WillUpdate
//	  ▲                                                   │ Render
//	  └──────────── Committed ◄──── reflect ◄──── Rendered
//
// A failed pass leaves the host in the phase where it failed.
type Status int

const (
	// StatusIdle means no pass is pending or running.
	StatusIdle Status = iota
	// StatusRequestedUpdate means a pass is scheduled for a future turn.
	StatusRequestedUpdate
	// StatusWillUpdate means a pass is running its pre-render hooks.
	StatusWillUpdate
	// StatusRendered means the Renderer produced output and post-render hooks run.
	StatusRendered
	// StatusCommitted means the pass finished and attributes were reflected.
	StatusCommitted
)

// String returns a human-readable representation of the status.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRequestedUpdate:
		return "requested-update"
	case StatusWillUpdate:
		return "will-update"
	case StatusRendered:
		return "rendered"
	case StatusCommitted:
		return "committed"
	default:
		return fmt.Sprintf("Status(%d)", int(s))
	}
}
