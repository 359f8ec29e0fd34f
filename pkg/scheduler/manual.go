package scheduler

import (
	"fmt"
	"time"
)

const maxManualRuns = 100000

// Manual is a Scheduler driven explicitly by its owner. Time only moves when
// Advance or Flush is called, and callbacks run on the calling goroutine, so
// tests and synchronous hosts (such as the terminal renderer) get fully
// deterministic debounce behaviour.
//
// Manual is not safe for concurrent use.
type Manual struct {
	now   time.Duration
	seq   uint64
	tasks []*manualTimer
}

// NewManual returns a scheduler at time zero with nothing queued.
func NewManual() *Manual {
	return &Manual{}
}

type manualTimer struct {
	owner *Manual
	due   time.Duration
	seq   uint64
	fn    func()
	done  bool
}

// AfterFunc queues fn to run once the clock reaches now+d.
func (m *Manual) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	m.seq++
	task := &manualTimer{owner: m, due: m.now + d, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, task)
	return task
}

// Stop removes the timer from its queue.
func (t *manualTimer) Stop() bool {
	if t.done {
		return false
	}
	t.done = true
	t.owner.remove(t)
	return true
}

// Now reports the elapsed virtual time.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending reports how many callbacks are queued.
func (m *Manual) Pending() int {
	return len(m.tasks)
}

// Advance moves the clock forward by d, running every callback that falls
// due, including ones scheduled by callbacks within the window. It returns the
// number of callbacks run.
func (m *Manual) Advance(d time.Duration) int {
	target := m.now + d
	runs := 0
	for {
		task := m.next()
		if task == nil || task.due > target {
			break
		}
		m.run(task)
		runs++
		if runs > maxManualRuns {
			panic(fmt.Sprintf("scheduler: more than %d callbacks in one advance", maxManualRuns))
		}
	}
	if target > m.now {
		m.now = target
	}
	return runs
}

// Flush runs callbacks until the queue is empty, moving the clock to each
// callback's due time. It returns the number of callbacks run.
func (m *Manual) Flush() int {
	runs := 0
	for {
		task := m.next()
		if task == nil {
			return runs
		}
		m.run(task)
		runs++
		if runs > maxManualRuns {
			panic(fmt.Sprintf("scheduler: more than %d callbacks in one flush", maxManualRuns))
		}
	}
}

func (m *Manual) next() *manualTimer {
	var best *manualTimer
	for _, task := range m.tasks {
		if best == nil || task.due < best.due || (task.due == best.due && task.seq < best.seq) {
			best = task
		}
	}
	return best
}

func (m *Manual) run(task *manualTimer) {
	m.remove(task)
	task.done = true
	if task.due > m.now {
		m.now = task.due
	}
	if task.fn != nil {
		task.fn()
	}
}

func (m *Manual) remove(task *manualTimer) {
	for idx, existing := range m.tasks {
		if existing == task {
			m.tasks = append(m.tasks[:idx], m.tasks[idx+1:]...)
			return
		}
	}
}
