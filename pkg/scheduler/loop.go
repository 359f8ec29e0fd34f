package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Loop is a real-time Scheduler whose callbacks all run on the goroutine
// executing Run. Timers fire on runtime goroutines and only enqueue their
// callback; host code that touches forms from elsewhere should go through
// Dispatch for the same reason.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
}

// NewLoop constructs an idle loop. Nothing runs until Run is called.
func NewLoop() *Loop {
	return &Loop{wake: make(chan struct{}, 1)}
}

// Dispatch enqueues fn to run on the loop goroutine. It never blocks.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()
	select {
	case l.wake <- struct{}{}:
	default:
	}
}

// AfterFunc starts a real timer that dispatches fn onto the loop when it
// fires.
func (l *Loop) AfterFunc(d time.Duration, fn func()) Timer {
	t := &loopTimer{}
	t.timer = time.AfterFunc(d, func() {
		l.Dispatch(func() {
			if t.state.CompareAndSwap(timerPending, timerFired) {
				fn()
			}
		})
	})
	return t
}

// Run processes dispatched work until ctx is cancelled, returning ctx.Err().
func (l *Loop) Run(ctx context.Context) error {
	for {
		l.drain()
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-l.wake:
		}
	}
}

func (l *Loop) drain() {
	for {
		l.mu.Lock()
		if len(l.queue) == 0 {
			l.mu.Unlock()
			return
		}
		fn := l.queue[0]
		l.queue[0] = nil
		l.queue = l.queue[1:]
		l.mu.Unlock()
		fn()
	}
}

const (
	timerPending int32 = iota
	timerFired
	timerStopped
)

type loopTimer struct {
	timer *time.Timer
	state atomic.Int32
}

// Stop cancels the callback even when the underlying timer already fired but
// the loop has not yet run it.
func (t *loopTimer) Stop() bool {
	t.timer.Stop()
	return t.state.CompareAndSwap(timerPending, timerStopped)
}
