package components

import (
	"fmt"
	"time"

	"github.com/go-drift/reactive/pkg/controllers"
	"github.com/go-drift/reactive/pkg/core"
	"github.com/go-drift/reactive/pkg/scheduler"
)

const (
	// ClockTag is the registration tag for Clock.
	ClockTag = "lit-clock"
	// ControllerClockTag is the registration tag for ControllerClock.
	ControllerClockTag = "controller-clock"
)

// TickPeriod is how often the clocks update.
const TickPeriod = time.Second

// Clock shows the time from a timer it starts on connect and stops on
// disconnect.
type Clock struct {
	core.ComponentBase
	host  *core.Host
	date  *core.Prop[time.Time]
	timer *scheduler.Timer
}

func (c *Clock) Init(h *core.Host) {
	c.host = h
	c.date = core.NewProp(h, "date", h.Scheduler().Clock().Now(), core.PropertyOptions{State: true})
}

func (c *Clock) Connected() {
	c.timer = c.host.Scheduler().Every(TickPeriod, c.tick)
}

func (c *Clock) Disconnected() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Clock) tick() {
	if c.timer == nil {
		return
	}
	c.date.Set(c.host.Scheduler().Clock().Now())
}

func (c *Clock) Render(core.Props) (core.RenderOutput, error) {
	return fmt.Sprintf("It is %s.", c.date.Get().Format(time.TimeOnly)), nil
}

// Time returns the last time the clock ticked.
func (c *Clock) Time() time.Time {
	return c.date.Get()
}

// ControllerClock shows the time kept by a ClockController.
type ControllerClock struct {
	core.ComponentBase
	clock *controllers.ClockController
}

func (c *ControllerClock) Init(h *core.Host) {
	c.clock = core.Use(h, controllers.NewClockController(h, TickPeriod))
}

func (c *ControllerClock) Render(core.Props) (core.RenderOutput, error) {
	return fmt.Sprintf("It is %s.", c.clock.Now().Format(time.TimeOnly)), nil
}

// Controller returns the clock's controller.
func (c *ControllerClock) Controller() *controllers.ClockController {
	return c.clock
}
