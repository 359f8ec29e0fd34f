package orchestrator

import (
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/reactive"
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithSubmitPredicate installs a host check consulted on submit once the form
// is valid. Returning false keeps IsSubmitted unset and suppresses the
// default action.
func WithSubmitPredicate(fn func() bool) Option {
	return func(o *Orchestrator) {
		o.predicate = fn
	}
}

// WithPreventAction always suppresses the default submission, for hosts that
// send the values themselves from the predicate.
func WithPreventAction(prevent bool) Option {
	return func(o *Orchestrator) {
		o.preventAction = prevent
	}
}

// WithLogger sets the logger used to trace submit outcomes.
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// Orchestrator wires submit and reset events to bulk operations on a form.
type Orchestrator struct {
	form          *form.Form
	predicate     func() bool
	preventAction bool
	logger        *slog.Logger
}

// New constructs an Orchestrator for f applying any provided options. The
// logger defaults to the form's.
func New(f *form.Form, options ...Option) *Orchestrator {
	o := &Orchestrator{form: f}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	if o.logger == nil {
		o.logger = f.Logger()
	}
	return o
}

// Form returns the orchestrated form.
func (o *Orchestrator) Form() *form.Form { return o.form }

// Status returns the current aggregate status.
func (o *Orchestrator) Status() form.Status {
	return o.form.Status().Read()
}

// Reset restores every field to its start value and clears the submission
// state in one batch, so observers never see a half-reset form.
func (o *Orchestrator) Reset() {
	o.form.Runtime().Batch(func() {
		o.form.Status().Update(func(st form.Status) form.Status {
			form.ResetStatus(&st)
			return st
		})
		o.form.ForEachInput(func(cell *reactive.Cell[form.FieldRecord], _ int) {
			rec := cell.Read()
			form.ResetInput(&rec)
			cell.Write(rec)
		})
	})
}

// Submit records a submit attempt. Every field is touched first so errors
// nobody has seen yet become visible. The attempt succeeds when the form is
// valid and the submit predicate agrees; only then is IsSubmitted set.
//
// Submit reports whether the host should proceed with its default submission:
// the attempt succeeded and the orchestrator was not configured to prevent it.
func (o *Orchestrator) Submit() bool {
	o.form.TouchAllInputs()

	canSubmit := o.form.Status().Read().IsValid
	if canSubmit && o.predicate != nil {
		canSubmit = o.predicate()
	}

	st := o.form.Status().Read()
	st.Submissions++
	if canSubmit {
		st.IsSubmitted = true
	}
	o.form.Status().Write(st)

	o.logger.Debug("orchestrator: submit",
		"submissions", st.Submissions,
		"accepted", canSubmit,
		"globalError", st.GlobalError,
	)
	return canSubmit && !o.preventAction
}
