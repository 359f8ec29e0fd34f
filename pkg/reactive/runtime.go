package reactive

import "fmt"

// maxFlushRounds bounds the number of notification rounds a single flush may
// run before the runtime gives up on a cycle of observers writing each other.
const maxFlushRounds = 100000

// Runtime owns the batching state for a group of cells. Each form owns one;
// cells from different runtimes never coordinate.
type Runtime struct {
	depth    int
	flushing bool
	round    uint64
	dirty    []source
}

// NewRuntime constructs an idle runtime.
func NewRuntime() *Runtime {
	return &Runtime{}
}

// Batch runs fn with notifications deferred. Cells written inside fn notify
// their observers once, with their final value, when the outermost batch
// closes. Nested batches collapse into the outer one.
//
// If fn panics the pending notifications are kept and delivered by the next
// batch or write that completes.
func (rt *Runtime) Batch(fn func()) {
	if fn == nil {
		return
	}
	rt.depth++
	func() {
		defer func() { rt.depth-- }()
		fn()
	}()
	if rt.depth == 0 {
		rt.flush()
	}
}

// Batching reports whether a batch is currently open.
func (rt *Runtime) Batching() bool {
	return rt.depth > 0
}

// Watch registers fn as a single derived observer of every source. fn runs at
// most once per notification round even when several sources changed in the
// same batch, and derived observers settle before any Subscribe callback
// runs. The returned function detaches the observer from all sources.
func (rt *Runtime) Watch(fn func(), sources ...Source) (cancel func()) {
	obs := &observer{fn: fn, active: true, derived: true}
	detach := make([]func(), 0, len(sources))
	for _, src := range sources {
		if src == nil {
			continue
		}
		detach = append(detach, src.attach(obs))
	}
	return func() {
		obs.active = false
		for _, fn := range detach {
			fn()
		}
	}
}

func (rt *Runtime) markDirty(src source) {
	rt.dirty = append(rt.dirty, src)
	if rt.depth == 0 {
		rt.flush()
	}
}

// flush delivers notifications in two phases. Derived observers run round by
// round until no cell is dirty; subscribers collected along the way then run
// once each. Writes made by subscribers start the cycle again.
func (rt *Runtime) flush() {
	if rt.flushing {
		// Writes issued by observers are picked up by the running flush.
		return
	}
	rt.flushing = true

	var effects []*observer
	defer func() {
		for _, obs := range effects {
			obs.queued = false
		}
		rt.flushing = false
	}()

	rounds := 0
	for {
		for len(rt.dirty) > 0 {
			rounds++
			if rounds > maxFlushRounds {
				rt.dirty = nil
				panic(fmt.Sprintf("reactive: runaway update cycle (%d rounds)", maxFlushRounds))
			}

			pending := rt.dirty
			rt.dirty = nil
			rt.round++

			var derived []*observer
			for _, src := range pending {
				src.clean()
				for _, obs := range src.observers() {
					if obs.derived {
						if obs.round == rt.round {
							continue
						}
						obs.round = rt.round
						derived = append(derived, obs)
						continue
					}
					if obs.queued {
						continue
					}
					obs.queued = true
					effects = append(effects, obs)
				}
			}
			for _, obs := range derived {
				if obs.active {
					obs.fn()
				}
			}
		}

		if len(effects) == 0 {
			return
		}
		run := effects
		effects = nil
		for _, obs := range run {
			obs.queued = false
		}
		for _, obs := range run {
			if obs.active {
				obs.fn()
			}
		}
	}
}

type observer struct {
	fn      func()
	active  bool
	derived bool
	queued  bool
	round   uint64
}

// Source is anything Watch can observe. It is implemented by Cell.
type Source interface {
	attach(obs *observer) (detach func())
}

type source interface {
	clean()
	observers() []*observer
}
