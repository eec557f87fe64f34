// Package scheduler provides the cooperative scheduling primitive used by the
// reactive update core.
//
// A [Loop] runs work in turns. Work submitted with [Loop.Schedule] during a
// turn never runs in that same turn; it waits for the next one. This gives the
// "run this callback at the next turn" semantics hosts rely on to batch
// property writes into a single update pass:
//
//	loop := scheduler.New()
//	loop.Schedule(func() { fmt.Println("second turn") })
//	loop.Turn() // prints "second turn"
//
// Timers created with [Loop.AfterFunc] and [Loop.Every] fire on the first turn
// after the loop's [Clock] passes their deadline. Tests swap the clock with
// [WithClock] and drive turns by hand; production code calls [Loop.Run].
//
// Only one goroutine may run turns. Schedule is safe from any goroutine, so
// background work (file watchers, network callbacks) hands results to the
// loop instead of touching host state directly.
package scheduler
