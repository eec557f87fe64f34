package core

import (
	"sync"
	"testing"

	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/scheduler"
)

// probe records every hook call into a shared log.
type probe struct {
	ComponentBase
	name  string
	log   *[]string
	count *Prop[int]
	label *Prop[string]

	renders      int
	firstUpdates int
	changes      []*ChangeSet
	renderErr    error
	onWillUpdate func(cs *ChangeSet)
	onUpdated    func(cs *ChangeSet)
}

func (p *probe) Init(h *Host) {
	p.count = NewProp(h, "count", 0, PropertyOptions{})
	p.label = NewProp(h, "label", "", PropertyOptions{})
}

func (p *probe) record(event string) {
	if p.log != nil {
		*p.log = append(*p.log, p.name+"."+event)
	}
}

func (p *probe) FirstUpdated(*ChangeSet) error {
	p.firstUpdates++
	p.record("firstUpdated")
	return nil
}

func (p *probe) WillUpdate(cs *ChangeSet) error {
	p.changes = append(p.changes, cs)
	p.record("willUpdate")
	if p.onWillUpdate != nil {
		p.onWillUpdate(cs)
	}
	return nil
}

func (p *probe) Render(Props) (RenderOutput, error) {
	p.record("render")
	if p.renderErr != nil {
		return nil, p.renderErr
	}
	p.renders++
	return p.count.Get(), nil
}

func (p *probe) Updated(cs *ChangeSet) error {
	p.record("updated")
	if p.onUpdated != nil {
		p.onUpdated(cs)
	}
	return nil
}

func (p *probe) Connected()    { p.record("connected") }
func (p *probe) Disconnected() { p.record("disconnected") }

// recorder is a controller that logs its hooks.
type recorder struct {
	name     string
	log      *[]string
	onUpdate func()
}

func (r *recorder) HostConnected()    { *r.log = append(*r.log, r.name+".hostConnected") }
func (r *recorder) HostDisconnected() { *r.log = append(*r.log, r.name+".hostDisconnected") }
func (r *recorder) HostUpdated()      { *r.log = append(*r.log, r.name+".hostUpdated") }
func (r *recorder) HostUpdate() {
	*r.log = append(*r.log, r.name+".hostUpdate")
	if r.onUpdate != nil {
		r.onUpdate()
	}
}

type captureHandler struct {
	mu         sync.Mutex
	passes     []*errors.PassError
	reflection []*errors.ReflectionError
	other      []*errors.ReactiveError
}

func (c *captureHandler) HandleError(err *errors.ReactiveError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.other = append(c.other, err)
}

func (c *captureHandler) HandlePanic(*errors.PanicError) {}

func (c *captureHandler) HandlePassError(err *errors.PassError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.passes = append(c.passes, err)
}

func (c *captureHandler) HandleReflectionError(err *errors.ReflectionError) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reflection = append(c.reflection, err)
}

func captureErrors(t *testing.T) *captureHandler {
	t.Helper()
	h := &captureHandler{}
	errors.SetHandler(h)
	t.Cleanup(func() { errors.SetHandler(nil) })
	return h
}

func newTestOwner(t *testing.T) (*Owner, *scheduler.Loop) {
	t.Helper()
	loop := scheduler.New()
	return NewOwner(loop), loop
}

func mustHost(t *testing.T, o *Owner, c Component, opts ...HostOption) *Host {
	t.Helper()
	h, err := o.NewHost(c, opts...)
	if err != nil {
		t.Fatalf("NewHost: %v", err)
	}
	return h
}

func turn(t *testing.T, loop *scheduler.Loop) int {
	t.Helper()
	n, err := loop.Turn()
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	return n
}

// settle runs turns until the loop has no queued work.
func settle(t *testing.T, loop *scheduler.Loop) {
	t.Helper()
	for i := 0; loop.Pending(); i++ {
		if i > 100 {
			t.Fatal("loop did not settle")
		}
		turn(t, loop)
	}
}
