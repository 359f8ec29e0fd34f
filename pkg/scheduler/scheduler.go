// Package scheduler supplies the timers bindings use to defer their commits.
//
// Debounced commits are the engine's only asynchronous boundary. Two
// implementations are provided: Manual, a deterministic queue advanced by the
// caller, and Loop, which runs real timers but delivers every callback on the
// single goroutine that calls Run.
package scheduler

import "time"

// Timer is a pending callback that can be cancelled.
type Timer interface {
	// Stop prevents the callback from running. It reports whether the call
	// stopped the timer, false when it already ran or was stopped.
	Stop() bool
}

// Scheduler runs fn after at least d has elapsed. A zero delay means "on the
// next tick", never synchronously inside AfterFunc.
type Scheduler interface {
	AfterFunc(d time.Duration, fn func()) Timer
}
