package testing

import (
	stderrors "errors"
	"testing"
	"time"

	"github.com/go-drift/reactive/pkg/core"
)

type label struct {
	core.ComponentBase
	text *core.Prop[string]
	err  error
}

func (l *label) Init(h *core.Host) {
	l.text = core.NewProp(h, "text", "hello", core.PropertyOptions{})
}

func (l *label) Render(core.Props) (core.RenderOutput, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.text.Get(), nil
}

func TestHostTester_MountRunsFirstPass(t *testing.T) {
	tester := NewHostTesterWithT(t)
	l := &label{}
	h, err := tester.Mount(l)
	if err != nil {
		t.Fatal(err)
	}
	if !h.IsConnected() || !h.HasFirstUpdated() {
		t.Error("expected connected host after first render")
	}
	if got := tester.LastOutput(h); got != "hello" {
		t.Errorf("expected hello, got %v", got)
	}
	if tester.RenderCount(h) != 1 {
		t.Errorf("expected 1 render, got %d", tester.RenderCount(h))
	}
}

func TestHostTester_PumpRecordsRenders(t *testing.T) {
	tester := NewHostTesterWithT(t)
	l := &label{}
	h, err := tester.Mount(l)
	if err != nil {
		t.Fatal(err)
	}

	l.text.Set("a")
	l.text.Set("b")
	if err := tester.Pump(); err != nil {
		t.Fatal(err)
	}
	renders := tester.Renders(h)
	if len(renders) != 2 || renders[1] != "b" {
		t.Errorf("expected [hello b], got %v", renders)
	}
}

func TestHostTester_PumpReturnsPassErrors(t *testing.T) {
	tester := NewHostTesterWithT(t)
	l := &label{}
	h, err := tester.Mount(l)
	if err != nil {
		t.Fatal(err)
	}

	boom := stderrors.New("boom")
	l.err = boom
	l.text.Set("c")
	if err := tester.Pump(); !stderrors.Is(err, boom) {
		t.Errorf("expected boom, got %v", err)
	}
	if len(tester.PassErrors()) != 1 {
		t.Errorf("expected 1 pass error, got %d", len(tester.PassErrors()))
	}
	if h.Status() == core.StatusIdle {
		t.Error("expected non-idle host after failure")
	}
	if err := tester.PumpAndSettle(time.Second); err != nil {
		t.Errorf("failed host should not keep the loop busy: %v", err)
	}
}

func TestHostTester_CleanupDisposesHosts(t *testing.T) {
	tester := NewHostTester()
	h, err := tester.Create(&label{})
	if err != nil {
		t.Fatal(err)
	}
	tester.Cleanup()
	if !h.IsDisposed() {
		t.Error("expected host disposed on cleanup")
	}
}
