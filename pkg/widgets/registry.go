package widgets

import (
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Built-in widget identifiers exposed by the registry.
const (
	WidgetText     = "text"
	WidgetNumber   = "number"
	WidgetCheckbox = "checkbox"
	WidgetSelect   = "select"
	WidgetRadio    = "radio"
)

// Spec describes a field for widget resolution and binding.
type Spec struct {
	Name string
	// Widget is an explicit widget name that bypasses matchers.
	Widget      string
	Constraints validation.Constraints
	Options     []any
	Trim        bool
	Sanitize    bool
	// Integer makes number widgets commit int values.
	Integer bool
}

// Matcher decides whether a widget should handle the supplied field.
type Matcher func(spec Spec) bool

// Factory builds the adapter for a resolved widget.
type Factory func(spec Spec) (binding.Adapter[any], error)

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry selects widget adapters for fields based on explicit hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order.
type Registry struct {
	mu        sync.RWMutex
	rules     []rule
	factories map[string]Factory
}

// NewRegistry constructs a registry with the built-in widgets registered.
func NewRegistry() *Registry {
	reg := &Registry{factories: make(map[string]Factory)}
	reg.registerBuiltins()
	return reg
}

// Register adds a widget with the provided name, priority and factory. A nil
// matcher registers a widget reachable only through Spec.Widget. The latest
// factory registered under a name wins.
func (r *Registry) Register(name string, priority int, matcher Matcher, factory Factory) {
	if r == nil || factory == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.factories[trimmed] = factory
	if matcher != nil {
		r.rules = append(r.rules, rule{
			name:     trimmed,
			priority: priority,
			match:    matcher,
			order:    len(r.rules),
		})
	}
}

// Resolve returns the widget name for a field. An explicit Spec.Widget is
// honoured before matcher evaluation.
func (r *Registry) Resolve(spec Spec) (string, bool) {
	if explicit := strings.TrimSpace(spec.Widget); explicit != "" {
		return explicit, true
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(spec) {
			return entry.name, true
		}
	}
	return "", false
}

// Adapter resolves the widget for spec and builds its adapter.
func (r *Registry) Adapter(spec Spec) (string, binding.Adapter[any], error) {
	name, ok := r.Resolve(spec)
	if !ok {
		return "", nil, fmt.Errorf("widgets: no widget for field %q", spec.Name)
	}
	r.mu.RLock()
	factory, ok := r.factories[name]
	r.mu.RUnlock()
	if !ok {
		return "", nil, fmt.Errorf("widgets: widget %q not registered", name)
	}
	adapter, err := factory(spec)
	if err != nil {
		return "", nil, fmt.Errorf("widgets: field %q: %w", spec.Name, err)
	}
	return name, adapter, nil
}

// Bind builds the adapter for spec and binds it to the matching field of f,
// deriving validation rules from spec.Constraints. Options are applied after
// the constraints.
func (r *Registry) Bind(f *form.Form, spec Spec, options ...binding.Option) (*binding.Binding[any], error) {
	_, adapter, err := r.Adapter(spec)
	if err != nil {
		return nil, err
	}
	opts := append([]binding.Option{binding.WithConstraints(spec.Constraints)}, options...)
	return binding.New[any](f, spec.Name, adapter, opts...)
}

func (r *Registry) registerBuiltins() {
	r.Register(WidgetCheckbox, 90, func(spec Spec) bool {
		return spec.Constraints.Type == validation.TypeCheckbox
	}, func(Spec) (binding.Adapter[any], error) {
		return Any[bool](Checkbox{}), nil
	})

	r.Register(WidgetRadio, 80, func(spec Spec) bool {
		return spec.Constraints.Type == validation.TypeRadio
	}, selectFactory)

	r.Register(WidgetSelect, 70, func(spec Spec) bool {
		return spec.Constraints.Type == validation.TypeSelect || len(spec.Options) > 0
	}, selectFactory)

	r.Register(WidgetNumber, 60, func(spec Spec) bool {
		return spec.Constraints.Type.Numeric()
	}, func(spec Spec) (binding.Adapter[any], error) {
		return Number{Integer: spec.Integer}, nil
	})

	r.Register(WidgetText, 0, func(Spec) bool {
		return true
	}, func(spec Spec) (binding.Adapter[any], error) {
		return Text{Trim: spec.Trim, Sanitize: spec.Sanitize}, nil
	})
}

func selectFactory(spec Spec) (binding.Adapter[any], error) {
	if len(spec.Options) == 0 {
		return nil, fmt.Errorf("%s field needs options", spec.Constraints.Type)
	}
	return Any[int](Select{Options: spec.Options}), nil
}
