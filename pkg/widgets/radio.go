package widgets

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/reactive"
)

// RadioGroup binds a field to a set of mutually exclusive options. Each option
// has its own checked cell; all of them are rewritten in one batch whenever
// the selection changes, so observers never see two options checked.
type RadioGroup struct {
	sel     Select
	binding *binding.Binding[int]
	checked []*reactive.Cell[bool]
	cancel  func()
}

// NewRadioGroup binds the named field of f to options.
func NewRadioGroup(f *form.Form, name string, sel Select, options ...binding.Option) (*RadioGroup, error) {
	if len(sel.Options) == 0 {
		return nil, fmt.Errorf("widgets: radio group %q has no options", name)
	}
	b, err := binding.New[int](f, name, sel, options...)
	if err != nil {
		return nil, err
	}

	g := &RadioGroup{sel: sel, binding: b}
	current := b.Display().Read()
	for idx := range sel.Options {
		g.checked = append(g.checked, reactive.NewCell(f.Runtime(), idx+1 == current))
	}
	g.cancel = b.Display().Subscribe(func(selected int, _ binding.Origin) {
		g.sync(selected)
	})
	return g, nil
}

func (g *RadioGroup) sync(selected int) {
	g.binding.Display().Runtime().Batch(func() {
		for idx, cell := range g.checked {
			want := idx+1 == selected
			if cell.Read() != want {
				cell.Write(want)
			}
		}
	})
}

// Binding returns the underlying binding.
func (g *RadioGroup) Binding() *binding.Binding[int] { return g.binding }

// Len reports the number of options.
func (g *RadioGroup) Len() int { return len(g.checked) }

// Labels renders the options in order.
func (g *RadioGroup) Labels() []string { return g.sel.Labels() }

// Checked returns the checked cell of the option at idx (0-based).
func (g *RadioGroup) Checked(idx int) (*reactive.Cell[bool], bool) {
	if idx < 0 || idx >= len(g.checked) {
		return nil, false
	}
	return g.checked[idx], true
}

// Check selects the option at idx (0-based) as a user edit.
func (g *RadioGroup) Check(idx int) error {
	if idx < 0 || idx >= len(g.checked) {
		return fmt.Errorf("widgets: radio option %d out of range", idx)
	}
	g.binding.Display().Write(idx + 1)
	return nil
}

// Selected returns the 0-based selected option, or -1.
func (g *RadioGroup) Selected() int {
	return g.binding.Display().Read() - 1
}

// Blur forwards focus loss to the binding.
func (g *RadioGroup) Blur() bool { return g.binding.Blur() }

// Dispose detaches the group and its binding.
func (g *RadioGroup) Dispose() {
	if g.cancel != nil {
		g.cancel()
		g.cancel = nil
	}
	g.binding.Dispose()
}
