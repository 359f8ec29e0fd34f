package reactive

// Cell is a writable observable value. Every Write notifies observers, even
// when the new value equals the old one; callers that need change detection
// compare values themselves.
type Cell[T any] struct {
	rt    *Runtime
	value T
	obs   []*observer
	dirty bool
}

// NewCell constructs a cell owned by rt. A nil runtime gets a private one,
// which is only useful for cells that never need to batch with others.
func NewCell[T any](rt *Runtime, initial T) *Cell[T] {
	if rt == nil {
		rt = NewRuntime()
	}
	return &Cell[T]{rt: rt, value: initial}
}

// Runtime returns the runtime the cell batches with.
func (c *Cell[T]) Runtime() *Runtime {
	return c.rt
}

// Read returns the current value without registering any dependency.
func (c *Cell[T]) Read() T {
	return c.value
}

// Write stores value and notifies observers, immediately or when the
// enclosing batch closes.
func (c *Cell[T]) Write(value T) {
	c.value = value
	if c.dirty {
		return
	}
	c.dirty = true
	c.rt.markDirty(c)
}

// Update writes the result of fn applied to the current value.
func (c *Cell[T]) Update(fn func(T) T) {
	c.Write(fn(c.value))
}

// Subscribe registers fn to receive the cell value after each notification.
// Subscribers run after derived watchers have settled, once per pass, with
// the latest value. The returned function unregisters it.
func (c *Cell[T]) Subscribe(fn func(T)) (cancel func()) {
	obs := &observer{active: true}
	obs.fn = func() { fn(c.value) }
	detach := c.attach(obs)
	return func() {
		obs.active = false
		detach()
	}
}

func (c *Cell[T]) attach(obs *observer) func() {
	c.obs = append(c.obs, obs)
	return func() {
		for idx, existing := range c.obs {
			if existing == obs {
				c.obs = append(c.obs[:idx:idx], c.obs[idx+1:]...)
				return
			}
		}
	}
}

func (c *Cell[T]) clean() {
	c.dirty = false
}

func (c *Cell[T]) observers() []*observer {
	return c.obs
}
