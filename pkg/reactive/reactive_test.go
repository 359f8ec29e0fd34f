package reactive

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCellWriteNotifiesSubscribers(t *testing.T) {
	rt := NewRuntime()
	cell := NewCell(rt, 1)

	var seen []int
	cell.Subscribe(func(v int) { seen = append(seen, v) })

	cell.Write(2)
	cell.Write(2)

	if diff := cmp.Diff([]int{2, 2}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestBatchDefersAndCoalescesNotifications(t *testing.T) {
	rt := NewRuntime()
	cell := NewCell(rt, "a")

	var seen []string
	cell.Subscribe(func(v string) { seen = append(seen, v) })

	rt.Batch(func() {
		cell.Write("b")
		cell.Write("c")
		if len(seen) != 0 {
			t.Fatalf("expected no notification inside batch, got %v", seen)
		}
	})

	if diff := cmp.Diff([]string{"c"}, seen); diff != "" {
		t.Fatalf("notifications mismatch (-want +got):\n%s", diff)
	}
}

func TestNestedBatchesCollapse(t *testing.T) {
	rt := NewRuntime()
	cell := NewCell(rt, 0)

	calls := 0
	cell.Subscribe(func(int) { calls++ })

	rt.Batch(func() {
		cell.Write(1)
		rt.Batch(func() {
			cell.Write(2)
		})
		if calls != 0 {
			t.Fatalf("inner batch flushed early: %d calls", calls)
		}
		if !rt.Batching() {
			t.Fatalf("expected runtime to report an open batch")
		}
	})

	if calls != 1 {
		t.Fatalf("expected 1 notification, got %d", calls)
	}
	if rt.Batching() {
		t.Fatalf("expected batch to be closed")
	}
}

func TestWatchRunsOncePerBatch(t *testing.T) {
	rt := NewRuntime()
	a := NewCell(rt, 0)
	b := NewCell(rt, 0)
	c := NewCell(rt, 0)

	runs := 0
	var sum int
	rt.Watch(func() {
		runs++
		sum = a.Read() + b.Read() + c.Read()
	}, a, b, c)

	rt.Batch(func() {
		a.Write(1)
		b.Write(2)
		c.Write(3)
	})

	if runs != 1 {
		t.Fatalf("expected watcher to run once, got %d", runs)
	}
	if sum != 6 {
		t.Fatalf("expected watcher to observe final state 6, got %d", sum)
	}
}

func TestWritesFromObserversRunInNextRound(t *testing.T) {
	rt := NewRuntime()
	source := NewCell(rt, 0)
	derived := NewCell(rt, 0)

	source.Subscribe(func(v int) { derived.Write(v * 10) })

	var order []string
	source.Subscribe(func(int) { order = append(order, "source") })
	derived.Subscribe(func(int) { order = append(order, "derived") })

	source.Write(4)

	if derived.Read() != 40 {
		t.Fatalf("expected derived 40, got %d", derived.Read())
	}
	if diff := cmp.Diff([]string{"source", "derived"}, order); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestCancelStopsNotifications(t *testing.T) {
	rt := NewRuntime()
	cell := NewCell(rt, 0)

	calls := 0
	cancel := cell.Subscribe(func(int) { calls++ })
	watchCalls := 0
	cancelWatch := rt.Watch(func() { watchCalls++ }, cell)

	cell.Write(1)
	cancel()
	cancelWatch()
	cell.Write(2)

	if calls != 1 || watchCalls != 1 {
		t.Fatalf("expected one call each before cancel, got subscribe=%d watch=%d", calls, watchCalls)
	}
}

func TestRunawayCyclePanics(t *testing.T) {
	rt := NewRuntime()
	cell := NewCell(rt, 0)
	cell.Subscribe(func(v int) { cell.Write(v + 1) })

	defer func() {
		if recover() == nil {
			t.Fatalf("expected runaway cycle to panic")
		}
	}()
	cell.Write(1)
}

func TestUpdateAppliesTransform(t *testing.T) {
	cell := NewCell[int](nil, 2)
	cell.Update(func(v int) int { return v * 3 })
	if got := cell.Read(); got != 6 {
		t.Fatalf("expected 6, got %d", got)
	}
	if cell.Runtime() == nil {
		t.Fatalf("expected private runtime for nil runtime argument")
	}
}

func TestSubscribersSeeSettledDerivedState(t *testing.T) {
	rt := NewRuntime()
	a := NewCell(rt, 0)
	b := NewCell(rt, 0)
	total := NewCell(rt, 0)

	rt.Watch(func() { total.Write(a.Read() + b.Read()) }, a, b)

	var seen []int
	total.Subscribe(func(v int) { seen = append(seen, v) })

	rt.Batch(func() {
		total.Write(-1)
		a.Write(2)
		b.Write(3)
	})

	if diff := cmp.Diff([]int{5}, seen); diff != "" {
		t.Fatalf("subscriber notifications mismatch (-want +got):\n%s", diff)
	}
}
