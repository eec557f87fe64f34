package scheduler

import (
	"container/heap"
	"time"
)

// Timer is a task scheduled to run on the first turn at or after a deadline.
// Periodic timers reschedule themselves until stopped.
type Timer struct {
	loop   *Loop
	when   time.Time
	period time.Duration
	task   func()
	seq    uint64
	index  int

	// queued counts ticks handed to the run queue that have not run yet.
	queued  int
	stopped bool
}

// Stop cancels the timer, including a tick already queued for the current
// turn. It returns false if the timer already fired (one-shot) or was
// already stopped.
func (t *Timer) Stop() bool {
	if t == nil || t.loop == nil {
		return false
	}
	l := t.loop
	l.mu.Lock()
	defer l.mu.Unlock()
	if t.stopped {
		return false
	}
	if t.index >= 0 {
		heap.Remove(&l.timers, t.index)
		t.index = -1
	} else if t.queued == 0 {
		return false
	}
	t.stopped = true
	return true
}

// fire runs one queued tick unless the timer was stopped after queuing it.
func (t *Timer) fire() {
	l := t.loop
	l.mu.Lock()
	t.queued--
	stopped := t.stopped
	l.mu.Unlock()
	if !stopped {
		t.task()
	}
}

// Deadline returns the time the timer fires next.
func (t *Timer) Deadline() time.Time {
	t.loop.mu.Lock()
	defer t.loop.mu.Unlock()
	return t.when
}

// timerHeap is a min-heap of timers ordered by deadline, then creation order.
type timerHeap []*Timer

func (h timerHeap) Len() int { return len(h) }

func (h timerHeap) Less(i, j int) bool {
	if h[i].when.Equal(h[j].when) {
		return h[i].seq < h[j].seq
	}
	return h[i].when.Before(h[j].when)
}

func (h timerHeap) Swap(i, j int) {
	h[i], h[j] = h[j], h[i]
	h[i].index = i
	h[j].index = j
}

func (h *timerHeap) Push(x any) {
	t := x.(*Timer)
	t.index = len(*h)
	*h = append(*h, t)
}

func (h *timerHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*h = old[:n-1]
	return t
}
