package scheduler

import (
	"container/heap"
	"context"
	stderrors "errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/go-drift/reactive/pkg/errors"
)

var (
	// ErrReentrantTurn is returned when Turn is called from within a running task.
	ErrReentrantTurn = stderrors.New("scheduler: cannot run a turn from within a task")

	// ErrLoopRunning is returned when Run is called on a loop that is already running.
	ErrLoopRunning = stderrors.New("scheduler: loop is already running")
)

// Option configures a Loop.
type Option func(*Loop)

// WithClock sets the clock used to fire timers.
func WithClock(c Clock) Option {
	return func(l *Loop) {
		if c != nil {
			l.clock = c
		}
	}
}

// WithLogger sets the logger used for loop diagnostics.
func WithLogger(logger zerolog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// Loop is a single-threaded cooperative task queue.
//
// Tasks run in FIFO order, one turn at a time. A task queued while a turn
// is running is deferred to the next turn, so a turn always terminates even
// when tasks keep scheduling more work.
type Loop struct {
	clock  Clock
	logger zerolog.Logger

	mu     sync.Mutex
	queue  []func()
	timers timerHeap
	seq    uint64

	turns   atomic.Uint64
	inTurn  atomic.Bool
	running atomic.Bool
	wake    chan struct{}
}

// New creates a loop. Without options it uses the system clock and discards logs.
func New(opts ...Option) *Loop {
	l := &Loop{
		clock:  SystemClock,
		logger: zerolog.Nop(),
		wake:   make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Clock returns the loop's time source.
func (l *Loop) Clock() Clock {
	return l.clock
}

// Schedule queues task for the next turn. Safe to call from any goroutine.
func (l *Loop) Schedule(task func()) {
	if task == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, task)
	l.mu.Unlock()
	l.signal()
}

// AfterFunc runs task on the first turn at or after d from now.
func (l *Loop) AfterFunc(d time.Duration, task func()) *Timer {
	return l.addTimer(d, 0, task)
}

// Every runs task on the first turn after each multiple of period.
// A turn fires a periodic timer at most once; missed periods are
// caught up on subsequent turns.
func (l *Loop) Every(period time.Duration, task func()) *Timer {
	if period <= 0 {
		panic("scheduler: non-positive period for Every")
	}
	return l.addTimer(period, period, task)
}

func (l *Loop) addTimer(d, period time.Duration, task func()) *Timer {
	if d < 0 {
		d = 0
	}
	l.mu.Lock()
	l.seq++
	t := &Timer{
		loop:   l,
		when:   l.clock.Now().Add(d),
		period: period,
		task:   task,
		seq:    l.seq,
	}
	heap.Push(&l.timers, t)
	l.mu.Unlock()
	l.signal()
	return t
}

func (l *Loop) signal() {
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// Turn runs one turn: due timers are queued, then every task queued before
// the turn began runs in order. It returns the number of tasks run.
func (l *Loop) Turn() (int, error) {
	if !l.inTurn.CompareAndSwap(false, true) {
		return 0, ErrReentrantTurn
	}
	defer l.inTurn.Store(false)

	now := l.clock.Now()
	l.mu.Lock()
	var due []*Timer
	for len(l.timers) > 0 && !l.timers[0].when.After(now) {
		t := heap.Pop(&l.timers).(*Timer)
		due = append(due, t)
		if t.task != nil {
			t.queued++
			l.queue = append(l.queue, t.fire)
		}
	}
	for _, t := range due {
		if t.period > 0 {
			t.when = t.when.Add(t.period)
			heap.Push(&l.timers, t)
		}
	}
	tasks := l.queue
	l.queue = nil
	l.mu.Unlock()

	turn := l.turns.Add(1)
	if len(tasks) > 0 {
		l.logger.Trace().Uint64("turn", turn).Int("tasks", len(tasks)).Msg("turn")
	}
	for _, task := range tasks {
		l.runTask(task)
	}
	return len(tasks), nil
}

func (l *Loop) runTask(task func()) {
	defer errors.Recover("scheduler.Loop.Turn")
	task()
}

// InTurn reports whether a turn is currently running.
func (l *Loop) InTurn() bool {
	return l.inTurn.Load()
}

// Turns returns the number of turns run so far.
func (l *Loop) Turns() uint64 {
	return l.turns.Load()
}

// Pending reports whether the next turn has work: queued tasks or due timers.
func (l *Loop) Pending() bool {
	now := l.clock.Now()
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) > 0 {
		return true
	}
	return len(l.timers) > 0 && !l.timers[0].when.After(now)
}

// NextDeadline returns the deadline of the earliest timer, if any.
func (l *Loop) NextDeadline() (time.Time, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.timers) == 0 {
		return time.Time{}, false
	}
	return l.timers[0].when, true
}

// TimerCount returns the number of active timers.
func (l *Loop) TimerCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.timers)
}

// Run drives turns until ctx is done, sleeping between turns until new work
// is scheduled or the next timer is due.
func (l *Loop) Run(ctx context.Context) error {
	if !l.running.CompareAndSwap(false, true) {
		return ErrLoopRunning
	}
	defer l.running.Store(false)

	l.logger.Debug().Msg("loop started")
	defer l.logger.Debug().Uint64("turns", l.Turns()).Msg("loop stopped")

	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		if _, err := l.Turn(); err != nil {
			return err
		}
		if l.Pending() {
			continue
		}

		var timerC <-chan time.Time
		var sleep *time.Timer
		if next, ok := l.NextDeadline(); ok {
			sleep = time.NewTimer(next.Sub(l.clock.Now()))
			timerC = sleep.C
		}

		select {
		case <-ctx.Done():
		case <-l.wake:
		case <-timerC:
		}
		if sleep != nil {
			sleep.Stop()
		}
	}
}
