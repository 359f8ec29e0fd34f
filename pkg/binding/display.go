package binding

import "github.com/goliatone/go-formstate/pkg/reactive"

// Origin tags every display write with who made it.
type Origin int

const (
	// ExternalSync marks a display value derived from the field record, either
	// at creation or after the record changed outside the widget.
	ExternalSync Origin = iota
	// UserEdit marks a display value written by the widget.
	UserEdit
)

func (o Origin) String() string {
	switch o {
	case UserEdit:
		return "user"
	case ExternalSync:
		return "external"
	default:
		return "unknown"
	}
}

func mergeOrigin(a, b Origin) Origin {
	if a == UserEdit || b == UserEdit {
		return UserEdit
	}
	return ExternalSync
}

type tagged[D any] struct {
	value  D
	origin Origin
}

// Display is the widget side of a binding: the local reactive value a widget
// renders from and writes user input into.
type Display[D any] struct {
	cell *reactive.Cell[tagged[D]]
}

// Read returns the current display value.
func (d Display[D]) Read() D {
	return d.cell.Read().value
}

// Origin reports who wrote the current display value.
func (d Display[D]) Origin() Origin {
	return d.cell.Read().origin
}

// Write stores a user edit. The binding schedules a commit when the edit
// changes the canonical value.
func (d Display[D]) Write(value D) {
	d.cell.Write(tagged[D]{value: value, origin: UserEdit})
}

// Subscribe calls fn with every display value, user edits and external
// syncs alike.
func (d Display[D]) Subscribe(fn func(value D, origin Origin)) (cancel func()) {
	return d.cell.Subscribe(func(t tagged[D]) { fn(t.value, t.origin) })
}

// Runtime returns the runtime the display batches with, which is the form's.
func (d Display[D]) Runtime() *reactive.Runtime {
	return d.cell.Runtime()
}

func (d Display[D]) sync(value D) {
	d.cell.Write(tagged[D]{value: value, origin: ExternalSync})
}
