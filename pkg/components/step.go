package components

import (
	"fmt"

	"github.com/go-drift/reactive/pkg/attr"
	"github.com/go-drift/reactive/pkg/core"
)

const (
	// StepButtonTag is the registration tag for StepButton.
	StepButtonTag = "counter-button"
	// StepCounterTag is the registration tag for StepCounter.
	StepCounterTag = "step-counter"
)

// StepButton reports its step to OnStep when clicked. The step is read
// from the "step" attribute.
type StepButton struct {
	core.ComponentBase

	// OnStep receives the step on each click.
	OnStep func(step int)

	step *core.Prop[int]
}

func (b *StepButton) Init(h *core.Host) {
	b.step = core.NewProp(h, "step", 0, core.PropertyOptions{})
}

func (b *StepButton) Render(core.Props) (core.RenderOutput, error) {
	return b.Label(), nil
}

// Label returns the button text, e.g. "+ 1" or "- 2".
func (b *StepButton) Label() string {
	if step := b.step.Get(); step < 0 {
		return fmt.Sprintf("- %d", -step)
	}
	return fmt.Sprintf("+ %d", b.step.Get())
}

// Click reports the step.
func (b *StepButton) Click() {
	if b.OnStep != nil {
		b.OnStep(b.step.Get())
	}
}

// Step returns the button's step.
func (b *StepButton) Step() int {
	return b.step.Get()
}

// StepCounter sums the steps reported by a "-1" and a "+1" button it
// hosts as children on the same owner.
type StepCounter struct {
	core.ComponentBase
	count   *core.Prop[int]
	buttons []*core.Host
}

func (c *StepCounter) Init(h *core.Host) {
	c.count = core.NewProp(h, "count", 0, core.PropertyOptions{})
	for _, step := range []string{"-1", "1"} {
		button := &StepButton{OnStep: c.add}
		child, err := h.Owner().NewHost(button, core.WithSource(attr.NewMapSource(map[string]string{"step": step})))
		if err != nil {
			h.InitError(err)
			continue
		}
		c.buttons = append(c.buttons, child)
		h.OnDispose(child.Dispose)
	}
}

func (c *StepCounter) add(step int) {
	c.count.Update(func(n int) int { return n + step })
}

func (c *StepCounter) Connected() {
	for _, b := range c.buttons {
		b.Connect()
	}
}

func (c *StepCounter) Disconnected() {
	for _, b := range c.buttons {
		b.Disconnect()
	}
}

func (c *StepCounter) Render(core.Props) (core.RenderOutput, error) {
	out := fmt.Sprintf("Σ %d", c.count.Get())
	for _, b := range c.buttons {
		out += fmt.Sprintf(" [%s]", b.Component().(*StepButton).Label())
	}
	return out, nil
}

// Buttons returns the hosted step buttons, "-1" first.
func (c *StepCounter) Buttons() []*StepButton {
	out := make([]*StepButton, len(c.buttons))
	for i, b := range c.buttons {
		out[i] = b.Component().(*StepButton)
	}
	return out
}

// Count returns the sum of reported steps.
func (c *StepCounter) Count() int {
	return c.count.Get()
}
