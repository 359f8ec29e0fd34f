package binding

import "github.com/goliatone/go-formstate/pkg/form"

// Adapter converts between the canonical field value and the shape a widget
// keeps locally (an index into an option list, a raw string, a checked flag).
type Adapter[D any] interface {
	// ToDisplay derives the display value for rec. prev is the display value
	// currently held, or the zero D when the binding is being created.
	ToDisplay(rec form.FieldRecord, prev D) D
	// FromDisplay produces the canonical value for a display value. A panic
	// here is an adapter bug and propagates to the caller.
	FromDisplay(display D) any
}

// Funcs adapts a pair of functions to Adapter. A nil ToDisplayFunc asserts the
// field value to D, falling back to the zero D; a nil FromDisplayFunc returns
// the display value unchanged.
type Funcs[D any] struct {
	ToDisplayFunc   func(rec form.FieldRecord, prev D) D
	FromDisplayFunc func(display D) any
}

// ToDisplay implements Adapter.
func (a Funcs[D]) ToDisplay(rec form.FieldRecord, prev D) D {
	if a.ToDisplayFunc != nil {
		return a.ToDisplayFunc(rec, prev)
	}
	if v, ok := rec.Value.(D); ok {
		return v
	}
	var zero D
	return zero
}

// FromDisplay implements Adapter.
func (a Funcs[D]) FromDisplay(display D) any {
	if a.FromDisplayFunc != nil {
		return a.FromDisplayFunc(display)
	}
	return display
}

// Identity displays the field value as is.
type Identity struct{}

// ToDisplay implements Adapter.
func (Identity) ToDisplay(rec form.FieldRecord, _ any) any { return rec.Value }

// FromDisplay implements Adapter.
func (Identity) FromDisplay(display any) any { return form.Normalize(display) }
