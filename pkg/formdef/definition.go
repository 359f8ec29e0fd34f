package formdef

import (
	"fmt"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Constraints returns the declarative validation constraints of the field.
func (f Field) Constraints() validation.Constraints {
	return validation.Constraints{
		Type:     f.Type,
		Min:      f.Min,
		Max:      f.Max,
		Required: f.Required,
		Pattern:  f.Pattern,
	}
}

// Spec returns the widget description of the field.
func (f Field) Spec() widgets.Spec {
	return widgets.Spec{
		Name:        f.Name,
		Widget:      f.Widget,
		Constraints: f.Constraints(),
		Options:     f.Options,
		Trim:        f.Trim,
		Sanitize:    f.Sanitize,
		Integer:     f.Integer,
	}
}

// BindingOptions returns the debounce and blur options of the field.
func (f Field) BindingOptions() []binding.Option {
	var opts []binding.Option
	if f.Debounce > 0 {
		opts = append(opts, binding.WithDebounce(f.Debounce))
	}
	if f.CommitOnBlur {
		opts = append(opts, binding.CommitOnBlur())
	}
	return opts
}

// Field returns the named field.
func (d *Definition) Field(name string) (Field, bool) {
	idx, ok := d.index[name]
	if !ok {
		return Field{}, false
	}
	return d.Fields[idx], true
}

// Constraints returns the validation constraints of the named field.
func (d *Definition) Constraints(name string) (validation.Constraints, bool) {
	field, ok := d.Field(name)
	if !ok {
		return validation.Constraints{}, false
	}
	return field.Constraints(), true
}

// Initial returns the field initialisers in document order.
func (d *Definition) Initial() []form.Init {
	out := make([]form.Init, 0, len(d.Fields))
	for _, field := range d.Fields {
		out = append(out, form.Init{Name: field.Name, Value: field.Value})
	}
	return out
}

// Validators returns one ValuesEqual validator per same-value group.
func (d *Definition) Validators() []form.Validator {
	out := make([]form.Validator, 0, len(d.Same))
	for _, group := range d.Same {
		out = append(out, form.ValuesEqual(group, nil))
	}
	return out
}

// Build creates the form described by the definition.
func (d *Definition) Build(options ...form.Option) (*form.Form, error) {
	f, err := form.New(d.Initial(), d.Validators(), options...)
	if err != nil {
		return nil, fmt.Errorf("formdef: build %s: %w", d.Source, err)
	}
	return f, nil
}

// Bind binds every field of f through reg, in document order. A nil registry
// uses widgets.NewRegistry. options apply to every binding after the field's
// own.
func (d *Definition) Bind(f *form.Form, reg *widgets.Registry, options ...binding.Option) ([]*binding.Binding[any], error) {
	if reg == nil {
		reg = widgets.NewRegistry()
	}
	out := make([]*binding.Binding[any], 0, len(d.Fields))
	for _, field := range d.Fields {
		opts := append(field.BindingOptions(), options...)
		b, err := reg.Bind(f, field.Spec(), opts...)
		if err != nil {
			for _, bound := range out {
				bound.Dispose()
			}
			return nil, fmt.Errorf("formdef: bind %s: %w", d.Source, err)
		}
		out = append(out, b)
	}
	return out, nil
}

// OrchestratorOptions maps the submit section to orchestrator options.
func (d *Definition) OrchestratorOptions() []orchestrator.Option {
	return []orchestrator.Option{orchestrator.WithPreventAction(d.Submit.PreventAction)}
}
