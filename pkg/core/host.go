package core

import (
	"context"
	stderrors "errors"
	"fmt"
	"reflect"

	"github.com/google/uuid"
	"github.com/zoobzio/capitan"

	"github.com/go-drift/reactive/pkg/attr"
	"github.com/go-drift/reactive/pkg/errors"
)

var (
	// ErrNilComponent is returned when a host is created without a component.
	ErrNilComponent = stderrors.New("core: nil component")
	// ErrDisposed is returned when writing to a disposed host.
	ErrDisposed = stderrors.New("core: host is disposed")
)

// HostOption configures a Host at creation.
type HostOption func(*Host)

// WithID overrides the generated host identity.
func WithID(id string) HostOption {
	return func(h *Host) {
		if id != "" {
			h.id = id
		}
	}
}

// WithSource sets the attribute source reflecting properties read from and
// write to.
func WithSource(src attr.Source) HostOption {
	return func(h *Host) {
		h.source = src
	}
}

// Host is a reactive state-holding unit. It owns declared properties, a
// change set, a lifecycle status and an ordered list of controllers, and
// renders through its Component.
//
// Host is NOT thread-safe. See the package documentation.
type Host struct {
	id        string
	owner     *Owner
	component Component
	source    attr.Source

	props    []*property
	byName   map[string]*property
	byAttr   map[string]*property
	initErrs []error
	initDone bool

	status   Status
	running  bool
	failed   bool
	followUp bool
	pending  *ChangeSet
	inflight *ChangeSet

	controllers  []Controller
	connected    bool
	disposed     bool
	firstUpdated bool

	output    RenderOutput
	passes    int
	lastErr   *errors.PassError
	disposers []func()
}

func newHost(o *Owner, c Component) *Host {
	return &Host{
		id:        uuid.NewString(),
		owner:     o,
		component: c,
		byName:    make(map[string]*property),
		byAttr:    make(map[string]*property),
		pending:   NewChangeSet(),
	}
}

func (h *Host) init() (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &errors.ReactiveError{
				Op:         "core.Host.Init",
				Kind:       errors.KindPanic,
				Host:       h.id,
				Err:        fmt.Errorf("panic: %v", r),
				StackTrace: errors.CaptureStack(),
			}
		}
	}()

	h.component.Init(h)
	h.initDone = true
	if len(h.initErrs) > 0 {
		return &errors.ReactiveError{
			Op:   "core.Host.Init",
			Kind: errors.KindUnknown,
			Host: h.id,
			Err:  stderrors.Join(h.initErrs...),
		}
	}
	h.syncAllFromSource()
	for _, p := range h.props {
		p.restored, p.hasRestored = p.value, true
	}
	return nil
}

// InitError records an error raised while the component initializes.
// Owner.NewHost returns it. Calls after initialization are ignored.
func (h *Host) InitError(err error) {
	if err != nil && !h.initDone {
		h.initErrs = append(h.initErrs, err)
	}
}

// ID returns the host's identity.
func (h *Host) ID() string {
	return h.id
}

// Owner returns the owner scheduling this host's passes.
func (h *Host) Owner() *Owner {
	return h.owner
}

// Component returns the host's component.
func (h *Host) Component() Component {
	return h.component
}

// Source returns the attribute source, or nil.
func (h *Host) Source() attr.Source {
	return h.source
}

// Scheduler returns the scheduling primitive the host's passes run on.
func (h *Host) Scheduler() Scheduler {
	return h.owner.sched
}

// Status returns the host's lifecycle status.
func (h *Host) Status() Status {
	return h.status
}

// Failed reports whether the last pass aborted and no update has been
// requested since.
func (h *Host) Failed() bool {
	return h.failed
}

// LastError returns the error that aborted the most recent failed pass.
func (h *Host) LastError() *errors.PassError {
	return h.lastErr
}

// IsConnected reports whether the host is attached to a live tree.
func (h *Host) IsConnected() bool {
	return h.connected
}

// IsDisposed reports whether Dispose has been called.
func (h *Host) IsDisposed() bool {
	return h.disposed
}

// HasFirstUpdated reports whether the one-time FirstUpdated hook has run.
func (h *Host) HasFirstUpdated() bool {
	return h.firstUpdated
}

// Output returns the Renderer's output from the last committed pass.
func (h *Host) Output() RenderOutput {
	return h.output
}

// Passes returns the number of committed passes.
func (h *Host) Passes() int {
	return h.passes
}

// Declare adds a property with an initial value. The initial value counts
// as a change, so the first pass sees every declared property.
func (h *Host) Declare(name string, initial any, opts PropertyOptions) error {
	if h.disposed {
		return ErrDisposed
	}
	if _, ok := h.byName[name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateProperty, name)
	}
	p, err := newProperty(name, initial, opts)
	if err != nil {
		return err
	}
	if p.attribute != "" {
		if other, ok := h.byAttr[p.attribute]; ok {
			return fmt.Errorf("%w: %q used by %q and %q", ErrDuplicateAttribute, p.attribute, other.name, name)
		}
		h.byAttr[p.attribute] = p
	}
	h.byName[name] = p
	h.props = append(h.props, p)
	if !p.untracked {
		h.recordChange(p, nil, initial)
	}
	return nil
}

// Properties returns the declared property names in declaration order.
func (h *Host) Properties() []string {
	names := make([]string, len(h.props))
	for i, p := range h.props {
		names[i] = p.name
	}
	return names
}

// Get returns the current value of a declared property.
func (h *Host) Get(name string) (any, bool) {
	p, ok := h.byName[name]
	if !ok {
		return nil, false
	}
	return p.value, true
}

// Restored returns the value a property held when initialization
// finished, after the attribute source was applied. Later writes do not
// change it.
func (h *Host) Restored(name string) (any, bool) {
	p, ok := h.byName[name]
	if !ok || !p.hasRestored {
		return nil, false
	}
	return p.restored, true
}

// Set writes a property. A write equal to the current value under the
// property's equality is ignored. Otherwise the change is recorded and, if
// the host is idle, an update is requested.
func (h *Host) Set(name string, value any) error {
	if h.disposed {
		return ErrDisposed
	}
	p, ok := h.byName[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownProperty, name)
	}
	if !p.accepts(value) {
		return fmt.Errorf("%w: %q holds %v, got %T", ErrPropertyType, name, p.typ, value)
	}
	if value == nil && p.typ != nil {
		value = reflect.Zero(p.typ).Interface()
	}
	old := p.value
	if p.equal(old, value) {
		return nil
	}
	p.value = value
	if !p.untracked {
		h.recordChange(p, old, value)
	}
	return nil
}

func (h *Host) recordChange(p *property, old, value any) {
	switch {
	case !h.initDone:
		h.pending.Record(p.name, old, value, p.equal)
	case h.running && h.status == StatusWillUpdate:
		h.inflight.Record(p.name, old, value, p.equal)
	case h.running:
		h.pending.Record(p.name, old, value, p.equal)
		h.followUp = true
	default:
		h.pending.Record(p.name, old, value, p.equal)
		h.requestUpdate()
	}
}

// RequestUpdate asks for a pass without a property change. On a host whose
// last pass failed it discards the failed state and retries with every
// change the failed pass had not committed.
func (h *Host) RequestUpdate() {
	if h.disposed {
		return
	}
	if h.failed && !h.running {
		h.failed = false
		if h.inflight != nil {
			h.inflight.merge(h.pending)
			h.pending = h.inflight
			h.inflight = nil
		}
		h.status = StatusIdle
	}
	h.requestUpdate()
}

func (h *Host) requestUpdate() {
	if h.disposed || h.failed || !h.initDone {
		return
	}
	if h.running {
		if h.status >= StatusRendered {
			h.followUp = true
		}
		return
	}
	if h.status != StatusIdle {
		return
	}
	h.status = StatusRequestedUpdate
	h.owner.schedule(h)
}

// performUpdate runs one update pass. It is only called from a scheduled
// loop task.
func (h *Host) performUpdate() {
	if h.disposed || h.status != StatusRequestedUpdate {
		return
	}

	h.running = true
	defer func() { h.running = false }()
	h.followUp = false

	h.inflight = h.pending.DrainAndClear()
	h.status = StatusWillUpdate
	changed := h.inflight

	if h.connected && !h.firstUpdated {
		h.firstUpdated = true
		if !h.call("FirstUpdated", func() error { return h.component.FirstUpdated(changed) }) {
			return
		}
	}
	if !h.call("WillUpdate", func() error { return h.component.WillUpdate(changed) }) {
		return
	}
	for _, c := range h.snapshotControllers() {
		if !h.hasController(c) {
			continue
		}
		if !h.call("HostUpdate", func() error { c.HostUpdate(); return nil }) {
			return
		}
	}

	var output RenderOutput
	if !h.call("Render", func() (err error) {
		output, err = h.component.Render(hostProps{h})
		return err
	}) {
		return
	}
	h.output = output
	h.status = StatusRendered

	if !h.call("Updated", func() error { return h.component.Updated(changed) }) {
		return
	}
	for _, c := range h.snapshotControllers() {
		if !h.hasController(c) {
			continue
		}
		if !h.call("HostUpdated", func() error { c.HostUpdated(); return nil }) {
			return
		}
	}
	if h.disposed {
		return
	}

	h.syncToExternal(changed)

	h.status = StatusCommitted
	h.passes++
	h.inflight = nil
	h.lastErr = nil
	h.owner.logger.Debug().Str("host", h.id).Int("pass", h.passes).Strs("changed", changed.Names()).Msg("pass committed")
	capitan.Emit(context.Background(), SignalPassCommitted,
		KeyHost.Field(h.id),
		KeyPass.Field(h.passes),
	)
	if h.owner.OnCommit != nil {
		h.owner.OnCommit(h, output)
	}
	h.status = StatusIdle

	if h.followUp || h.pending.Len() > 0 {
		h.running = false
		h.requestUpdate()
	}
}

// call runs one hook of the pass, converting an error or panic into a
// pass failure. It reports whether the pass may continue.
func (h *Host) call(hook string, fn func() error) (ok bool) {
	phase := h.status
	defer func() {
		if r := recover(); r != nil {
			h.fail(&errors.PassError{
				Host:       h.id,
				Component:  componentName(h.component),
				Phase:      phase.String(),
				Hook:       hook,
				Recovered:  r,
				StackTrace: errors.CaptureStack(),
			})
			ok = false
		}
	}()
	if err := fn(); err != nil {
		h.fail(&errors.PassError{
			Host:      h.id,
			Component: componentName(h.component),
			Phase:     phase.String(),
			Hook:      hook,
			Err:       err,
		})
		return false
	}
	return true
}

// fail aborts the running pass. The host keeps its current phase and the
// in-flight change set so an explicit RequestUpdate can retry it.
func (h *Host) fail(err *errors.PassError) {
	h.failed = true
	h.lastErr = err
	errors.ReportPassError(err)
	h.owner.logger.Debug().Str("host", h.id).Str("phase", err.Phase).Str("hook", err.Hook).Msg("pass failed")
	capitan.Emit(context.Background(), SignalPassFailed,
		KeyHost.Field(h.id),
		KeyPhase.Field(err.Phase),
		KeyError.Field(err.Error()),
	)
	if h.owner.OnPassError != nil {
		h.owner.OnPassError(h, err)
	}
}

// Connect attaches the host to a live tree. The host's Connected hook runs
// first, then each controller's HostConnected in attachment order.
func (h *Host) Connect() {
	if h.disposed || h.connected {
		return
	}
	h.connected = true
	h.component.Connected()
	for _, c := range h.snapshotControllers() {
		if h.hasController(c) {
			c.HostConnected()
		}
	}
	capitan.Emit(context.Background(), SignalHostConnected,
		KeyHost.Field(h.id),
		KeyStatus.Field(h.status.String()),
	)
	if !h.firstUpdated {
		if h.running {
			h.followUp = true
		} else {
			h.requestUpdate()
		}
	}
}

// Disconnect detaches the host from the live tree. Each controller's
// HostDisconnected runs in attachment order, then the host's Disconnected.
func (h *Host) Disconnect() {
	if !h.connected {
		return
	}
	h.connected = false
	for _, c := range h.snapshotControllers() {
		if h.hasController(c) {
			c.HostDisconnected()
		}
	}
	h.component.Disconnected()
	capitan.Emit(context.Background(), SignalHostDisconnected,
		KeyHost.Field(h.id),
		KeyStatus.Field(h.status.String()),
	)
}

// Dispose disconnects the host, detaches every controller, makes the host
// inert and runs the OnDispose callbacks. Later writes return ErrDisposed;
// update requests are ignored.
func (h *Host) Dispose() {
	if h.disposed {
		return
	}
	h.Disconnect()
	for _, c := range h.snapshotControllers() {
		_ = h.RemoveController(c)
	}
	h.disposed = true
	h.owner.forget(h)
	disposers := h.disposers
	h.disposers = nil
	for _, cleanup := range disposers {
		cleanup()
	}
}

// OnDispose registers cleanup to run once when the host is disposed, in
// registration order. On a disposed host cleanup runs immediately.
func (h *Host) OnDispose(cleanup func()) {
	if cleanup == nil {
		return
	}
	if h.disposed {
		cleanup()
		return
	}
	h.disposers = append(h.disposers, cleanup)
}

type hostProps struct {
	h *Host
}

func (p hostProps) Get(name string) (any, bool) {
	return p.h.Get(name)
}

func componentName(c Component) string {
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Name() == "" {
		return t.String()
	}
	return t.Name()
}
