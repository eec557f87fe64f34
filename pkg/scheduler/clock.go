package scheduler

import "time"

// Clock provides time for loop timers. The default implementation uses
// system time. Tests inject a fake clock via WithClock to fire timers
// deterministically.
type Clock interface {
	Now() time.Time
}

// realClock uses system time.
type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// SystemClock is the wall clock used when no clock is configured.
var SystemClock Clock = realClock{}
