package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"
)

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func newManualClock() *manualClock {
	return &manualClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func TestLoop_ScheduleRunsOnNextTurnInOrder(t *testing.T) {
	loop := New()
	var order []int
	loop.Schedule(func() { order = append(order, 1) })
	loop.Schedule(func() { order = append(order, 2) })
	loop.Schedule(func() { order = append(order, 3) })

	if len(order) != 0 {
		t.Fatalf("tasks ran before a turn: %v", order)
	}

	n, err := loop.Turn()
	if err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if n != 3 {
		t.Errorf("expected 3 tasks, got %d", n)
	}
	want := []int{1, 2, 3}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected order %v, got %v", want, order)
		}
	}
}

func TestLoop_TaskScheduledDuringTurnWaitsForNextTurn(t *testing.T) {
	loop := New()
	var ran []string
	loop.Schedule(func() {
		ran = append(ran, "outer")
		loop.Schedule(func() { ran = append(ran, "inner") })
	})

	loop.Turn()
	if len(ran) != 1 || ran[0] != "outer" {
		t.Fatalf("expected only outer after first turn, got %v", ran)
	}
	if !loop.Pending() {
		t.Error("expected pending work after first turn")
	}

	loop.Turn()
	if len(ran) != 2 || ran[1] != "inner" {
		t.Fatalf("expected inner on second turn, got %v", ran)
	}
	if loop.Pending() {
		t.Error("expected no pending work after second turn")
	}
}

func TestLoop_ReentrantTurnFails(t *testing.T) {
	loop := New()
	var nestedErr error
	loop.Schedule(func() {
		_, nestedErr = loop.Turn()
	})
	loop.Turn()
	if nestedErr != ErrReentrantTurn {
		t.Errorf("expected ErrReentrantTurn, got %v", nestedErr)
	}
}

func TestLoop_PanickingTaskDoesNotStopTurn(t *testing.T) {
	loop := New()
	ranAfter := false
	loop.Schedule(func() { panic("task failure") })
	loop.Schedule(func() { ranAfter = true })

	if _, err := loop.Turn(); err != nil {
		t.Fatalf("Turn: %v", err)
	}
	if !ranAfter {
		t.Error("expected task after panicking task to run")
	}
	if loop.InTurn() {
		t.Error("expected turn to be finished")
	}
}

func TestLoop_AfterFuncFiresOnceDeadlinePasses(t *testing.T) {
	clk := newManualClock()
	loop := New(WithClock(clk))
	fired := 0
	loop.AfterFunc(time.Second, func() { fired++ })

	loop.Turn()
	if fired != 0 {
		t.Fatalf("timer fired early")
	}

	clk.Advance(time.Second)
	if !loop.Pending() {
		t.Error("expected due timer to count as pending")
	}
	loop.Turn()
	loop.Turn()
	if fired != 1 {
		t.Errorf("expected one-shot timer to fire once, got %d", fired)
	}
	if loop.TimerCount() != 0 {
		t.Errorf("expected no timers left, got %d", loop.TimerCount())
	}
}

func TestLoop_EveryFiresEachPeriodUntilStopped(t *testing.T) {
	clk := newManualClock()
	loop := New(WithClock(clk))
	ticks := 0
	timer := loop.Every(time.Second, func() { ticks++ })

	for i := 0; i < 3; i++ {
		clk.Advance(time.Second)
		loop.Turn()
	}
	if ticks != 3 {
		t.Errorf("expected 3 ticks, got %d", ticks)
	}

	if !timer.Stop() {
		t.Error("expected Stop to cancel an active timer")
	}
	if timer.Stop() {
		t.Error("expected second Stop to report already stopped")
	}
	clk.Advance(5 * time.Second)
	loop.Turn()
	if ticks != 3 {
		t.Errorf("expected no ticks after Stop, got %d", ticks)
	}
}

func TestLoop_EveryCatchesUpOnePeriodPerTurn(t *testing.T) {
	clk := newManualClock()
	loop := New(WithClock(clk))
	ticks := 0
	loop.Every(time.Second, func() { ticks++ })

	clk.Advance(3 * time.Second)
	loop.Turn()
	if ticks != 1 {
		t.Fatalf("expected a single tick per turn, got %d", ticks)
	}
	for loop.Pending() {
		loop.Turn()
	}
	if ticks != 3 {
		t.Errorf("expected catch-up to 3 ticks, got %d", ticks)
	}
}

func TestLoop_TimersFireInDeadlineOrder(t *testing.T) {
	clk := newManualClock()
	loop := New(WithClock(clk))
	var order []string
	loop.AfterFunc(2*time.Second, func() { order = append(order, "late") })
	loop.AfterFunc(time.Second, func() { order = append(order, "early") })
	loop.AfterFunc(time.Second, func() { order = append(order, "early-second") })

	clk.Advance(2 * time.Second)
	loop.Turn()

	want := []string{"early", "early-second", "late"}
	if len(order) != len(want) {
		t.Fatalf("expected %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, order)
		}
	}
}

func TestLoop_RunStopsOnContextCancel(t *testing.T) {
	loop := New()
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	ran := make(chan struct{})
	loop.Schedule(func() { close(ran) })

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("scheduled task never ran")
	}

	cancel()
	select {
	case err := <-done:
		if err != context.Canceled {
			t.Errorf("expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

func TestLoop_StopCancelsTickQueuedInSameTurn(t *testing.T) {
	clk := newManualClock()
	loop := New(WithClock(clk))
	ticks := 0
	var timer *Timer
	loop.Schedule(func() {
		if !timer.Stop() {
			t.Error("expected Stop to cancel the queued tick")
		}
	})
	timer = loop.Every(time.Second, func() { ticks++ })

	clk.Advance(time.Second)
	loop.Turn()
	if ticks != 0 {
		t.Errorf("expected stopped timer not to tick, got %d ticks", ticks)
	}
	if loop.TimerCount() != 0 {
		t.Errorf("expected no timers left, got %d", loop.TimerCount())
	}

	clk.Advance(5 * time.Second)
	for loop.Pending() {
		loop.Turn()
	}
	if ticks != 0 {
		t.Errorf("expected no ticks after Stop, got %d", ticks)
	}
}

func TestLoop_StopAfterOneShotFired(t *testing.T) {
	clk := newManualClock()
	loop := New(WithClock(clk))
	timer := loop.AfterFunc(time.Second, func() {})

	clk.Advance(time.Second)
	loop.Turn()
	if timer.Stop() {
		t.Error("expected Stop on a fired one-shot timer to report false")
	}
}
