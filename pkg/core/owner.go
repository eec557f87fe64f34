package core

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/zoobzio/capitan"

	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/scheduler"
)

// Scheduler is the primitive that runs update passes on a later turn.
// *scheduler.Loop satisfies it.
type Scheduler interface {
	// Schedule queues task for the next turn.
	Schedule(task func())
	// AfterFunc runs task on the first turn at or after d from now.
	AfterFunc(d time.Duration, task func()) *scheduler.Timer
	// Every runs task on a turn after each multiple of period.
	Every(period time.Duration, task func()) *scheduler.Timer
	// Clock returns the time source timers fire against.
	Clock() scheduler.Clock
}

// OwnerOption configures an Owner.
type OwnerOption func(*Owner)

// WithLogger sets the logger used for pass diagnostics.
func WithLogger(logger zerolog.Logger) OwnerOption {
	return func(o *Owner) {
		o.logger = logger
	}
}

// Owner schedules update passes for the hosts it creates.
//
// Each host has at most one pass pending. A host that requests an update
// while already pending is absorbed into the pass that is already queued.
type Owner struct {
	sched  Scheduler
	logger zerolog.Logger

	mu          sync.Mutex
	hosts       []*Host
	pending     map[*Host]bool
	controllers map[Controller]*Host

	// OnPassError is called when a pass aborts, after the error has been
	// reported to the global handler.
	OnPassError func(h *Host, err *errors.PassError)

	// OnCommit is called when a pass reaches Committed with the Renderer's output.
	OnCommit func(h *Host, output RenderOutput)
}

// NewOwner creates an Owner that schedules passes on s.
func NewOwner(s Scheduler, opts ...OwnerOption) *Owner {
	if s == nil {
		panic("core: NewOwner requires a scheduler")
	}
	o := &Owner{
		sched:       s,
		logger:      zerolog.Nop(),
		pending:     make(map[*Host]bool),
		controllers: make(map[Controller]*Host),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Scheduler returns the scheduling primitive passes run on.
func (o *Owner) Scheduler() Scheduler {
	return o.sched
}

// Logger returns the owner's logger.
func (o *Owner) Logger() zerolog.Logger {
	return o.logger
}

// NewHost creates a host for c, runs c.Init, seeds properties from the
// attribute source if one is given, and schedules the initial pass.
func (o *Owner) NewHost(c Component, opts ...HostOption) (*Host, error) {
	if c == nil {
		return nil, &errors.ReactiveError{
			Op:   "core.Owner.NewHost",
			Kind: errors.KindUnknown,
			Err:  ErrNilComponent,
		}
	}
	h := newHost(o, c)
	for _, opt := range opts {
		opt(h)
	}

	if err := h.init(); err != nil {
		return nil, err
	}

	o.mu.Lock()
	o.hosts = append(o.hosts, h)
	o.mu.Unlock()

	h.requestUpdate()
	return h, nil
}

// Hosts returns the live hosts in creation order.
func (o *Owner) Hosts() []*Host {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]*Host, len(o.hosts))
	copy(out, o.hosts)
	return out
}

// PendingCount returns the number of hosts with a pass queued.
func (o *Owner) PendingCount() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.pending)
}

// IsPending reports whether h has a pass queued.
func (o *Owner) IsPending(h *Host) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.pending[h]
}

// NeedsWork returns true if any host has a pass queued.
func (o *Owner) NeedsWork() bool {
	return o.PendingCount() > 0
}

// schedule queues a pass for h unless one is already queued.
func (o *Owner) schedule(h *Host) bool {
	added := func() bool {
		o.mu.Lock()
		defer o.mu.Unlock()
		if o.pending[h] {
			return false
		}
		o.pending[h] = true
		return true
	}()
	if !added {
		return false
	}

	o.logger.Debug().Str("host", h.id).Msg("pass scheduled")
	capitan.Emit(context.Background(), SignalPassScheduled,
		KeyHost.Field(h.id),
	)

	o.sched.Schedule(func() {
		o.mu.Lock()
		delete(o.pending, h)
		o.mu.Unlock()
		h.performUpdate()
	})
	return true
}

// attach records that c belongs to h. It returns the current holder if c
// is already attached to a host of this owner.
func (o *Owner) attach(h *Host, c Controller) (*Host, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if holder, ok := o.controllers[c]; ok {
		return holder, false
	}
	o.controllers[c] = h
	return h, true
}

func (o *Owner) detach(c Controller) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.controllers, c)
}

func (o *Owner) forget(h *Host) {
	o.mu.Lock()
	defer o.mu.Unlock()
	delete(o.pending, h)
	for i, live := range o.hosts {
		if live == h {
			o.hosts = append(o.hosts[:i], o.hosts[i+1:]...)
			break
		}
	}
}
