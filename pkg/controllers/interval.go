package controllers

import (
	"time"

	"github.com/go-drift/reactive/pkg/core"
	"github.com/go-drift/reactive/pkg/scheduler"
)

// Interval calls a function every period while its host is connected.
// The timer stops on disconnect and restarts on the next connect.
type Interval struct {
	core.ControllerBase

	host   core.ControllerHost
	period time.Duration
	fn     func()
	timer  *scheduler.Timer
	ticks  int
}

// NewInterval creates an Interval for host. Attach it with core.Use.
func NewInterval(host core.ControllerHost, period time.Duration, fn func()) *Interval {
	if period <= 0 {
		panic("controllers: non-positive interval period")
	}
	return &Interval{host: host, period: period, fn: fn}
}

// HostConnected starts the timer.
func (i *Interval) HostConnected() {
	if i.timer != nil {
		return
	}
	i.timer = i.host.Scheduler().Every(i.period, i.tick)
}

// HostDisconnected stops the timer.
func (i *Interval) HostDisconnected() {
	if i.timer != nil {
		i.timer.Stop()
		i.timer = nil
	}
}

func (i *Interval) tick() {
	if i.timer == nil {
		return
	}
	i.ticks++
	if i.fn != nil {
		i.fn()
	}
}

// Running reports whether the timer is active.
func (i *Interval) Running() bool {
	return i.timer != nil
}

// Ticks returns how many times the interval has fired.
func (i *Interval) Ticks() int {
	return i.ticks
}

// Period returns the interval period.
func (i *Interval) Period() time.Duration {
	return i.period
}
