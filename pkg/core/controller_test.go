package core

import (
	stderrors "errors"
	"slices"
	"strings"
	"testing"

	"github.com/go-drift/reactive/pkg/errors"
)

func TestController_ConnectDisconnectOrder(t *testing.T) {
	owner, loop := newTestOwner(t)
	var log []string
	h := mustHost(t, owner, &probe{name: "host", log: &log})
	var attached []*recorder
	for _, name := range []string{"a", "b"} {
		c := &recorder{name: name, log: &log}
		if err := h.AddController(c); err != nil {
			t.Fatal(err)
		}
		attached = append(attached, c)
	}

	h.Connect()
	h.Disconnect()

	want := []string{
		"host.connected", "a.hostConnected", "b.hostConnected",
		"a.hostDisconnected", "b.hostDisconnected", "host.disconnected",
	}
	if !slices.Equal(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}

	for _, c := range attached {
		if err := h.RemoveController(c); err != nil {
			t.Fatal(err)
		}
	}
	mark := len(log)
	h.Connect()
	h.RequestUpdate()
	settle(t, loop)
	h.Disconnect()

	for _, entry := range log[mark:] {
		if strings.HasPrefix(entry, "a.") || strings.HasPrefix(entry, "b.") {
			t.Errorf("detached controller received %q", entry)
		}
	}
	if len(h.Controllers()) != 0 {
		t.Errorf("expected no controllers, got %d", len(h.Controllers()))
	}
}

func TestController_AttachToConnectedHost(t *testing.T) {
	owner, _ := newTestOwner(t)
	var log []string
	h := mustHost(t, owner, &probe{})
	h.Connect()

	c := &recorder{name: "c", log: &log}
	if err := h.AddController(c); err != nil {
		t.Fatal(err)
	}
	if err := h.RemoveController(c); err != nil {
		t.Fatal(err)
	}
	want := []string{"c.hostConnected", "c.hostDisconnected"}
	if !slices.Equal(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}

func TestController_DoubleAttachment(t *testing.T) {
	owner, _ := newTestOwner(t)
	var log []string
	h1 := mustHost(t, owner, &probe{})
	h2 := mustHost(t, owner, &probe{})
	c := &recorder{name: "c", log: &log}

	if err := h1.AddController(c); err != nil {
		t.Fatal(err)
	}

	var ae *errors.AttachmentError
	err := h1.AddController(c)
	if !stderrors.As(err, &ae) || ae.Op != "attach" {
		t.Errorf("expected attach error, got %v", err)
	}
	err = h2.AddController(c)
	if !stderrors.As(err, &ae) || ae.Owner != h1.ID() {
		t.Errorf("expected attach error naming first host, got %v", err)
	}
	err = h2.RemoveController(c)
	if !stderrors.As(err, &ae) || ae.Op != "detach" {
		t.Errorf("expected detach error, got %v", err)
	}
	if !errors.Is(err, errors.KindAttachment) {
		t.Error("expected attachment kind")
	}
	if got := len(h1.Controllers()); got != 1 {
		t.Errorf("expected controller list unchanged, got %d", got)
	}
}

type valueController struct {
	ControllerBase
}

func TestController_Validation(t *testing.T) {
	owner, _ := newTestOwner(t)
	h := mustHost(t, owner, &probe{})

	if err := h.AddController(nil); !stderrors.Is(err, ErrNilController) {
		t.Errorf("expected ErrNilController, got %v", err)
	}
	if err := h.AddController(valueController{}); !stderrors.Is(err, ErrControllerNotPointer) {
		t.Errorf("expected ErrControllerNotPointer, got %v", err)
	}
}

func TestController_DetachedMidPassGetsNoHooks(t *testing.T) {
	owner, loop := newTestOwner(t)
	var log []string
	h := mustHost(t, owner, &probe{})
	b := &recorder{name: "b", log: &log}
	a := &recorder{name: "a", log: &log}
	a.onUpdate = func() {
		if err := h.RemoveController(b); err != nil {
			t.Errorf("remove: %v", err)
		}
	}
	if err := h.AddController(a); err != nil {
		t.Fatal(err)
	}
	if err := h.AddController(b); err != nil {
		t.Fatal(err)
	}
	settle(t, loop)

	want := []string{"a.hostUpdate", "a.hostUpdated"}
	if !slices.Equal(log, want) {
		t.Errorf("expected %v, got %v", want, log)
	}
}

// requester asks for an update when fired, like a timer-driven controller.
type requester struct {
	ControllerBase
	host ControllerHost
}

func (r *requester) fire() { r.host.RequestUpdate() }

func TestController_RequestsCoalesce(t *testing.T) {
	owner, loop := newTestOwner(t)
	p := &probe{}
	h := mustHost(t, owner, p)
	r1 := Use(h, &requester{host: h})
	r2 := Use(h, &requester{host: h})
	settle(t, loop)

	r1.fire()
	r2.fire()
	p.count.Set(1)
	if got := owner.PendingCount(); got != 1 {
		t.Errorf("expected 1 pending pass, got %d", got)
	}
	settle(t, loop)
	if p.renders != 2 {
		t.Errorf("expected 2 renders, got %d", p.renders)
	}
}

type usesController struct {
	ComponentBase
	shared *requester
}

func (u *usesController) Init(h *Host) {
	Use(h, u.shared)
}

func TestUse_ReportsAttachmentErrorFromNewHost(t *testing.T) {
	owner, _ := newTestOwner(t)
	shared := &requester{}
	mustHost(t, owner, &usesController{shared: shared})

	_, err := owner.NewHost(&usesController{shared: shared})
	if !errors.Is(err, errors.KindAttachment) {
		t.Errorf("expected attachment error, got %v", err)
	}
}
