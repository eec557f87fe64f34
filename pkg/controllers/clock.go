package controllers

import (
	"time"

	"github.com/go-drift/reactive/pkg/core"
)

// ClockController keeps the current time and asks its host to update on
// every tick. The time lives on the controller, not on a host property, so
// the controller requests the update itself.
//
// Example:
//
//	func (c *controllerClock) Init(h *core.Host) {
//	    c.clock = core.Use(h, controllers.NewClockController(h, time.Second))
//	}
//
//	func (c *controllerClock) Render(core.Props) (core.RenderOutput, error) {
//	    return c.clock.Now().Format(time.TimeOnly), nil
//	}
type ClockController struct {
	*Interval
	host core.ControllerHost
	now  time.Time
}

// NewClockController creates a ClockController ticking every period.
func NewClockController(host core.ControllerHost, period time.Duration) *ClockController {
	c := &ClockController{
		host: host,
		now:  host.Scheduler().Clock().Now(),
	}
	c.Interval = NewInterval(host, period, c.tick)
	return c
}

func (c *ClockController) tick() {
	c.now = c.host.Scheduler().Clock().Now()
	c.host.RequestUpdate()
}

// HostConnected refreshes the time and starts ticking.
func (c *ClockController) HostConnected() {
	c.now = c.host.Scheduler().Clock().Now()
	c.Interval.HostConnected()
}

// Now returns the time of the last tick.
func (c *ClockController) Now() time.Time {
	return c.now
}
