package core

import (
	"context"
	stderrors "errors"
	"reflect"
	"slices"

	"github.com/zoobzio/capitan"

	"github.com/go-drift/reactive/pkg/errors"
)

var (
	// ErrNilController is returned when attaching a nil controller.
	ErrNilController = stderrors.New("core: nil controller")
	// ErrControllerNotPointer is returned when a controller is not a pointer.
	// Controllers are tracked by identity.
	ErrControllerNotPointer = stderrors.New("core: controller must be a pointer")
)

// Controller is a reusable behavior attached to a host. It receives the
// host's lifecycle hooks and influences rendering only by requesting
// updates through the ControllerHost it was given.
type Controller interface {
	// HostConnected runs after the host connects, or on attach to a
	// connected host.
	HostConnected()
	// HostDisconnected runs before the host disconnects, or on detach from
	// a connected host.
	HostDisconnected()
	// HostUpdate runs during a pass, after the host's WillUpdate.
	HostUpdate()
	// HostUpdated runs during a pass, after the host's Updated.
	HostUpdated()
}

// ControllerBase provides no-op implementations of every Controller hook.
type ControllerBase struct{}

// HostConnected is a no-op default implementation.
func (ControllerBase) HostConnected() {}

// HostDisconnected is a no-op default implementation.
func (ControllerBase) HostDisconnected() {}

// HostUpdate is a no-op default implementation.
func (ControllerBase) HostUpdate() {}

// HostUpdated is a no-op default implementation.
func (ControllerBase) HostUpdated() {}

// ControllerHost is the view of a host available to controllers.
type ControllerHost interface {
	ID() string
	IsConnected() bool
	RequestUpdate()
	AddController(c Controller) error
	RemoveController(c Controller) error
	Scheduler() Scheduler
}

var _ ControllerHost = (*Host)(nil)

// AddController attaches c after any existing controllers. If the host is
// connected, c.HostConnected runs immediately. Attaching a controller that
// is already attached to any host of the same owner fails with an
// *errors.AttachmentError.
func (h *Host) AddController(c Controller) error {
	if c == nil {
		return ErrNilController
	}
	if reflect.TypeOf(c).Kind() != reflect.Pointer {
		return ErrControllerNotPointer
	}
	if h.disposed {
		return ErrDisposed
	}
	if holder, ok := h.owner.attach(h, c); !ok {
		return &errors.AttachmentError{
			Host:       h.id,
			Controller: controllerName(c),
			Op:         "attach",
			Owner:      holder.id,
		}
	}
	h.controllers = append(h.controllers, c)
	capitan.Emit(context.Background(), SignalControllerAttached,
		KeyHost.Field(h.id),
		KeyController.Field(controllerName(c)),
	)
	if h.connected {
		c.HostConnected()
	}
	return nil
}

// RemoveController detaches c. If the host is connected, c.HostDisconnected
// runs immediately. Removing a controller that is not attached to this host
// fails with an *errors.AttachmentError.
func (h *Host) RemoveController(c Controller) error {
	if c == nil {
		return ErrNilController
	}
	i := slices.Index(h.controllers, c)
	if i < 0 {
		return &errors.AttachmentError{
			Host:       h.id,
			Controller: controllerName(c),
			Op:         "detach",
		}
	}
	h.controllers = slices.Delete(h.controllers, i, i+1)
	h.owner.detach(c)
	capitan.Emit(context.Background(), SignalControllerDetached,
		KeyHost.Field(h.id),
		KeyController.Field(controllerName(c)),
	)
	if h.connected {
		c.HostDisconnected()
	}
	return nil
}

// Controllers returns the attached controllers in attachment order.
func (h *Host) Controllers() []Controller {
	return h.snapshotControllers()
}

func (h *Host) snapshotControllers() []Controller {
	return slices.Clone(h.controllers)
}

func (h *Host) hasController(c Controller) bool {
	return slices.Contains(h.controllers, c)
}

// Use attaches c to h and returns it. Call it from Component.Init; an
// attachment error is returned by Owner.NewHost.
//
// Example:
//
//	func (c *clock) Init(h *core.Host) {
//	    c.timer = core.Use(h, controllers.NewClockController(h, time.Second))
//	}
func Use[C Controller](h *Host, c C) C {
	if err := h.AddController(c); err != nil {
		h.initErrs = append(h.initErrs, err)
	}
	return c
}

func controllerName(c Controller) string {
	t := reflect.TypeOf(c)
	if t == nil {
		return "<nil>"
	}
	return t.String()
}
