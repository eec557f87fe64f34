package core

// RenderOutput is whatever a Renderer produces. The core never inspects it.
type RenderOutput any

// Props is a read-only view of a host's committed property values.
type Props interface {
	// Get returns the value of a declared property.
	Get(name string) (any, bool)
}

// Get returns the typed value of name from props, or the zero value.
func Get[T any](props Props, name string) T {
	v, _ := props.Get(name)
	t, _ := v.(T)
	return t
}

// Component supplies a host's Renderer and lifecycle hooks.
//
// Hooks returning an error, or panicking, abort the running pass. Embed
// ComponentBase to get no-op defaults for every hook.
type Component interface {
	// Init declares properties and attaches controllers. Called once by
	// Owner.NewHost before the host is scheduled.
	Init(h *Host)
	// Render maps committed state to output. Called once per pass.
	Render(props Props) (RenderOutput, error)
	// FirstUpdated runs once per host lifetime, on the first pass that
	// runs while the host is connected, before WillUpdate.
	FirstUpdated(changed *ChangeSet) error
	// WillUpdate runs before Render. Property writes made here join the
	// in-flight change set and do not schedule another pass.
	WillUpdate(changed *ChangeSet) error
	// Updated runs after Render with the same change set.
	Updated(changed *ChangeSet) error
	// Connected runs when the host is attached to a live tree.
	Connected()
	// Disconnected runs when the host is detached from a live tree.
	Disconnected()
}

// ComponentBase provides no-op implementations of every Component hook.
// Embed it in your component and override what you need.
//
// Example:
//
//	type clock struct {
//	    core.ComponentBase
//	    now *core.Prop[time.Time]
//	}
type ComponentBase struct{}

// Init is a no-op default implementation.
func (ComponentBase) Init(*Host) {}

// Render is a default implementation that renders nothing.
func (ComponentBase) Render(Props) (RenderOutput, error) { return nil, nil }

// FirstUpdated is a no-op default implementation.
func (ComponentBase) FirstUpdated(*ChangeSet) error { return nil }

// WillUpdate is a no-op default implementation.
func (ComponentBase) WillUpdate(*ChangeSet) error { return nil }

// Updated is a no-op default implementation.
func (ComponentBase) Updated(*ChangeSet) error { return nil }

// Connected is a no-op default implementation.
func (ComponentBase) Connected() {}

// Disconnected is a no-op default implementation.
func (ComponentBase) Disconnected() {}
