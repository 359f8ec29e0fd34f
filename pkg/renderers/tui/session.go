package tui

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/scheduler"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// Field is one prompted field of a session.
type Field struct {
	Binding *binding.Binding[any]
	Label   string
	Help    string
	Type    validation.InputType
	// Widget is the registry widget the field resolved to. It decides the
	// shape of the display value the renderer writes.
	Widget  string
	Options []string
}

// Session is a form built from a definition, bound field by field and driven
// by a manual scheduler the renderer flushes after every answer.
type Session struct {
	Definition   *formdef.Definition
	Form         *form.Form
	Orchestrator *orchestrator.Orchestrator
	Scheduler    *scheduler.Manual
	Fields       []Field
}

// NewSession builds, binds and reconciles the form described by def. A nil
// registry uses widgets.NewRegistry.
func NewSession(def *formdef.Definition, reg *widgets.Registry, logger *slog.Logger) (*Session, error) {
	if def == nil {
		return nil, errors.New("tui: definition is required")
	}
	if reg == nil {
		reg = widgets.NewRegistry()
	}

	sched := scheduler.NewManual()
	f, err := def.Build(form.WithScheduler(sched), form.WithLogger(logger))
	if err != nil {
		return nil, err
	}

	s := &Session{
		Definition: def,
		Form:       f,
		Scheduler:  sched,
		Fields:     make([]Field, 0, len(def.Fields)),
	}
	for _, field := range def.Fields {
		spec := field.Spec()
		widget, ok := reg.Resolve(spec)
		if !ok {
			s.Close()
			return nil, fmt.Errorf("tui: no widget for field %q", field.Name)
		}
		b, err := reg.Bind(f, spec, field.BindingOptions()...)
		if err != nil {
			s.Close()
			return nil, fmt.Errorf("tui: bind %s: %w", def.Source, err)
		}
		s.Fields = append(s.Fields, Field{
			Binding: b,
			Label:   field.Label,
			Help:    field.Help,
			Type:    field.Type,
			Widget:  widget,
			Options: widgets.Select{Options: field.Options}.Labels(),
		})
	}

	// Bindings reconcile on creation; committing now evaluates every field.
	sched.Flush()
	s.Orchestrator = orchestrator.New(f, def.OrchestratorOptions()...)
	return s, nil
}

// Close disposes every binding and detaches the form's status watcher.
func (s *Session) Close() {
	for _, field := range s.Fields {
		field.Binding.Dispose()
	}
	s.Fields = nil
	s.Form.Close()
}
