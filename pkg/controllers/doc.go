// Package controllers provides reusable controllers for reactive hosts.
//
// Controllers attach to a host with core.Use from the component's Init and
// drive updates through the host's RequestUpdate. Timers run on the host's
// scheduler, so their callbacks execute on the loop goroutine.
package controllers
