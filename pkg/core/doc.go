// Package core provides the reactive update core: hosts, change sets,
// controllers, attribute reflection, and the update scheduler.
//
// A [Host] holds declared properties for one [Component]. Writing a property
// records the change and, if the host is idle, asks its [Owner] to schedule
// an update pass on the next turn of the scheduling loop. Any number of
// writes made before that turn collapse into a single pass.
//
// # Components
//
// Embed ComponentBase in your component to get no-op lifecycle hooks, then
// declare properties in Init and produce output in Render:
//
//	type counter struct {
//	    core.ComponentBase
//	    count *core.Prop[int]
//	}
//
//	func (c *counter) Init(h *core.Host) {
//	    c.count = core.NewProp(h, "count", 0, core.PropertyOptions{})
//	}
//
//	func (c *counter) Render(core.Props) (core.RenderOutput, error) {
//	    return fmt.Sprintf("count=%d", c.count.Get()), nil
//	}
//
// # Update pass
//
// A pass runs, in order: drain the change set, the one-time FirstUpdated
// hook (only while connected), WillUpdate and controller HostUpdate hooks,
// Render, Updated and controller HostUpdated hooks, then reflection of
// changed properties to the host's attribute source. Writes made during
// WillUpdate join the in-flight change set; writes made after Render
// schedule one follow-up pass.
//
// # Controllers
//
// A [Controller] attaches to a host and receives its connect, disconnect
// and update hooks. Controllers influence rendering only through
// [ControllerHost.RequestUpdate].
//
// # Threading
//
// Hosts are NOT thread-safe. Property writes, connects and controller
// callbacks must happen on the goroutine that runs the loop's turns, or
// before the loop starts. Background goroutines hand work to the loop with
// scheduler.Loop.Schedule.
package core
