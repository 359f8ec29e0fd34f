// Package reactive provides the observable value cells the form engine is
// built on. It is deliberately small: a Cell holds a value and notifies its
// observers on every write, a Runtime groups writes into batches so observers
// only ever see fully applied state, and Watch attaches one observer to many
// cells so it runs once per batch no matter how many of them changed.
//
// There is no automatic dependency tracking. Reading a cell never subscribes
// to it; observers are registered explicitly with Subscribe or Watch.
//
// A Runtime and its cells are not safe for concurrent use. All reads, writes,
// and batches must happen on a single goroutine (see package scheduler for a
// loop that funnels timers and host work onto one goroutine).
package reactive
