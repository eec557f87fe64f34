package components

import (
	"fmt"

	"github.com/go-drift/reactive/pkg/core"
)

// CounterTag is the registration tag for Counter.
const CounterTag = "my-counter"

// Counter holds a count with increment and decrement actions.
type Counter struct {
	core.ComponentBase
	count *core.Prop[int]
}

func (c *Counter) Init(h *core.Host) {
	c.count = core.NewProp(h, "count", 0, core.PropertyOptions{})
}

func (c *Counter) Render(core.Props) (core.RenderOutput, error) {
	return fmt.Sprintf("[-] %d [+]", c.count.Get()), nil
}

// Inc adds one to the count.
func (c *Counter) Inc() {
	c.count.Update(func(n int) int { return n + 1 })
}

// Dec subtracts one from the count.
func (c *Counter) Dec() {
	c.count.Update(func(n int) int { return n - 1 })
}

// Count returns the current count.
func (c *Counter) Count() int {
	return c.count.Get()
}
