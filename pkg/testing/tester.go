package testing

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/reactive/pkg/core"
	"github.com/go-drift/reactive/pkg/errors"
	"github.com/go-drift/reactive/pkg/scheduler"
)

// ErrSettleTimeout is returned when PumpAndSettle exceeds its timeout.
var ErrSettleTimeout = stderrors.New("PumpAndSettle timed out: hosts did not settle")

// frameDuration is how far PumpAndSettle moves the clock between turns.
const frameDuration = 16 * time.Millisecond

// HostTester drives hosts on a loop with a fake clock. It records every
// committed render and every pass failure.
type HostTester struct {
	loop    *scheduler.Loop
	owner   *core.Owner
	clock   *FakeClock
	hosts   []*core.Host
	prev    errors.ErrorHandler
	failed  []*errors.PassError
	turn    []error
	renders map[*core.Host][]core.RenderOutput
}

// NewHostTester creates a tester with a fresh loop, owner and fake clock.
// Pass errors are collected instead of logged. Call Cleanup() when done,
// or use NewHostTesterWithT() instead.
func NewHostTester() *HostTester {
	clk := NewFakeClock()
	loop := scheduler.New(scheduler.WithClock(clk))
	t := &HostTester{
		loop:    loop,
		owner:   core.NewOwner(loop),
		clock:   clk,
		prev:    errors.DefaultHandler,
		renders: make(map[*core.Host][]core.RenderOutput),
	}
	quiet := zerolog.Nop()
	errors.SetHandler(&errors.LogHandler{Logger: &quiet})
	t.owner.OnCommit = func(h *core.Host, out core.RenderOutput) {
		t.renders[h] = append(t.renders[h], out)
	}
	t.owner.OnPassError = func(_ *core.Host, err *errors.PassError) {
		t.failed = append(t.failed, err)
		t.turn = append(t.turn, err)
	}
	return t
}

// NewHostTesterWithT creates a tester that auto-cleans up via t.Cleanup().
// This is the recommended constructor for tests.
func NewHostTesterWithT(t *testing.T) *HostTester {
	tester := NewHostTester()
	t.Cleanup(tester.Cleanup)
	return tester
}

// Cleanup disposes every host created by the tester and restores the
// global error handler.
func (t *HostTester) Cleanup() {
	for _, h := range t.hosts {
		h.Dispose()
	}
	t.hosts = nil
	errors.SetHandler(t.prev)
}

// Clock returns the fake clock for advancing time in tests.
func (t *HostTester) Clock() *FakeClock {
	return t.clock
}

// Loop returns the scheduling loop.
func (t *HostTester) Loop() *scheduler.Loop {
	return t.loop
}

// Owner returns the owner hosts are created on.
func (t *HostTester) Owner() *core.Owner {
	return t.owner
}

// Create hosts c without connecting it or running any pass.
func (t *HostTester) Create(c core.Component, opts ...core.HostOption) (*core.Host, error) {
	h, err := t.owner.NewHost(c, opts...)
	if err != nil {
		return nil, err
	}
	t.hosts = append(t.hosts, h)
	return h, nil
}

// Mount hosts c, connects it and runs turns until it settles.
func (t *HostTester) Mount(c core.Component, opts ...core.HostOption) (*core.Host, error) {
	h, err := t.Create(c, opts...)
	if err != nil {
		return nil, err
	}
	h.Connect()
	return h, t.PumpAndSettle(time.Second)
}

// Pump runs a single loop turn. It returns the pass failures raised during
// the turn, joined.
func (t *HostTester) Pump() error {
	t.turn = nil
	if _, err := t.loop.Turn(); err != nil {
		return err
	}
	return stderrors.Join(t.turn...)
}

// PumpAndSettle runs turns until no work is queued or due, or the timeout
// is reached. Each turn after the first advances the fake clock by 16ms.
// Returns ErrSettleTimeout if the hosts do not settle within timeout.
// Pass failures stop the loop and are returned.
func (t *HostTester) PumpAndSettle(timeout time.Duration) error {
	var elapsed time.Duration
	for elapsed <= timeout {
		if err := t.Pump(); err != nil {
			return err
		}
		if !t.needsWork() {
			return nil
		}
		t.clock.Advance(frameDuration)
		elapsed += frameDuration
	}
	return ErrSettleTimeout
}

// Advance moves the fake clock forward by d and runs turns until every
// timer that came due has fired and the resulting passes have committed.
func (t *HostTester) Advance(d time.Duration) error {
	t.clock.Advance(d)
	var errs []error
	for i := 0; t.needsWork(); i++ {
		if i > 10000 {
			return ErrSettleTimeout
		}
		if err := t.Pump(); err != nil {
			errs = append(errs, err)
		}
	}
	return stderrors.Join(errs...)
}

func (t *HostTester) needsWork() bool {
	return t.loop.Pending() || t.owner.NeedsWork()
}

// Renders returns every output h committed, oldest first.
func (t *HostTester) Renders(h *core.Host) []core.RenderOutput {
	return t.renders[h]
}

// RenderCount returns how many passes h committed.
func (t *HostTester) RenderCount(h *core.Host) int {
	return len(t.renders[h])
}

// LastOutput returns the latest output h committed, or nil.
func (t *HostTester) LastOutput(h *core.Host) core.RenderOutput {
	r := t.renders[h]
	if len(r) == 0 {
		return nil
	}
	return r[len(r)-1]
}

// PassErrors returns every pass failure seen so far.
func (t *HostTester) PassErrors() []*errors.PassError {
	return t.failed
}
