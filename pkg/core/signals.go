package core

import "github.com/zoobzio/capitan"

// Update pass signals.
var (
	// SignalPassScheduled is emitted when an idle host schedules a pass.
	SignalPassScheduled = capitan.NewSignal(
		"reactive.pass.scheduled",
		"Update pass scheduled",
	)

	// SignalPassCommitted is emitted when a pass reaches Committed.
	SignalPassCommitted = capitan.NewSignal(
		"reactive.pass.committed",
		"Update pass committed",
	)

	// SignalPassFailed is emitted when a Renderer or hook aborts a pass.
	SignalPassFailed = capitan.NewSignal(
		"reactive.pass.failed",
		"Update pass failed",
	)
)

// Host and controller lifecycle signals.
var (
	// SignalHostConnected is emitted after a host and its controllers connect.
	SignalHostConnected = capitan.NewSignal(
		"reactive.host.connected",
		"Host connected",
	)

	// SignalHostDisconnected is emitted after a host and its controllers disconnect.
	SignalHostDisconnected = capitan.NewSignal(
		"reactive.host.disconnected",
		"Host disconnected",
	)

	// SignalControllerAttached is emitted when a controller is added to a host.
	SignalControllerAttached = capitan.NewSignal(
		"reactive.controller.attached",
		"Controller attached",
	)

	// SignalControllerDetached is emitted when a controller is removed from a host.
	SignalControllerDetached = capitan.NewSignal(
		"reactive.controller.detached",
		"Controller detached",
	)

	// SignalReflectionMismatch is emitted when an external attribute fails to convert.
	SignalReflectionMismatch = capitan.NewSignal(
		"reactive.reflection.mismatch",
		"Attribute value could not be converted",
	)
)

// Field keys for reactive events.
var (
	// KeyHost is the host identity.
	KeyHost = capitan.NewStringKey("host")

	// KeyStatus is the host's lifecycle status.
	KeyStatus = capitan.NewStringKey("status")

	// KeyPhase is the phase a failed pass stopped in.
	KeyPhase = capitan.NewStringKey("phase")

	// KeyError is the error message when an operation fails.
	KeyError = capitan.NewStringKey("error")

	// KeyAttribute is the external attribute name.
	KeyAttribute = capitan.NewStringKey("attribute")

	// KeyController is the controller type name.
	KeyController = capitan.NewStringKey("controller")

	// KeyPass is the host's committed pass count.
	KeyPass = capitan.NewIntKey("pass")
)
