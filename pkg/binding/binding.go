// Package binding connects a widget-local display value to one field of a
// form, converting shapes through an Adapter and debouncing commits.
package binding

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/reactive"
	"github.com/goliatone/go-formstate/pkg/scheduler"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// Option configures a Binding.
type Option func(*config)

type config struct {
	constraints  *validation.Constraints
	rules        []validation.Rule
	debounce     time.Duration
	commitOnBlur bool
}

// WithConstraints derives validation rules from declarative constraints.
// Derived rules run before any added with WithRules.
func WithConstraints(c validation.Constraints) Option {
	return func(cfg *config) {
		cfg.constraints = &c
	}
}

// WithRules appends explicit validation rules.
func WithRules(rules ...validation.Rule) Option {
	return func(cfg *config) {
		cfg.rules = append(cfg.rules, rules...)
	}
}

// WithDebounce delays commits by d. Edits arriving inside the window replace
// the pending commit. The default of zero still defers to the next scheduler
// tick.
func WithDebounce(d time.Duration) Option {
	return func(cfg *config) {
		if d >= 0 {
			cfg.debounce = d
		}
	}
}

// CommitOnBlur makes user edits commit only when the widget blurs. Changes
// to the field record still reconcile through the scheduler.
func CommitOnBlur() Option {
	return func(cfg *config) {
		cfg.commitOnBlur = true
	}
}

// Binding reconciles one field record with a widget display value.
//
// Field changes flow into the display through the adapter and are tagged
// ExternalSync. Display changes are converted back and, when the canonical
// value differs or the record version moved since the last commit, committed
// to the field after the debounce delay. A commit that only reconciles an
// external change leaves IsTouched alone. IsChanged is measured against the
// start value as the adapter reads it back, so reshaping alone changes nothing.
type Binding[D any] struct {
	form    *form.Form
	name    string
	field   *reactive.Cell[form.FieldRecord]
	adapter Adapter[D]
	display Display[D]
	sched   scheduler.Scheduler

	rules        []validation.Rule
	debounce     time.Duration
	commitOnBlur bool

	lastSeen      int
	startKnown    bool
	startRaw      any
	startShaped   any
	timer         scheduler.Timer
	hasPending    bool
	pendingValue  any
	pendingOrigin Origin

	cancels []func()
}

// New binds the named field of f to a display value shaped by adapter. The
// display is seeded from the current record and reconciled once right away,
// so a commit is pending on the form's scheduler when New returns.
func New[D any](f *form.Form, name string, adapter Adapter[D], options ...Option) (*Binding[D], error) {
	if f == nil {
		return nil, errors.New("binding: form is required")
	}
	if adapter == nil {
		return nil, errors.New("binding: adapter is required")
	}
	field, ok := f.Field(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", form.ErrUnknownField, name)
	}

	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	var rules []validation.Rule
	if cfg.constraints != nil {
		derived, err := validation.RulesFor(*cfg.constraints)
		if err != nil {
			return nil, fmt.Errorf("binding: field %q: %w", name, err)
		}
		rules = append(rules, derived...)
	}
	rules = append(rules, cfg.rules...)
	if err := validation.Check(rules); err != nil {
		return nil, fmt.Errorf("binding: field %q: %w", name, err)
	}

	b := &Binding[D]{
		form:         f,
		name:         name,
		field:        field,
		adapter:      adapter,
		sched:        f.Scheduler(),
		rules:        rules,
		debounce:     cfg.debounce,
		commitOnBlur: cfg.commitOnBlur,
		lastSeen:     -1,
	}

	var zero D
	seed := adapter.ToDisplay(field.Read(), zero)
	b.display = Display[D]{cell: reactive.NewCell(f.Runtime(), tagged[D]{value: seed, origin: ExternalSync})}

	b.cancels = append(b.cancels,
		field.Subscribe(b.onField),
		b.display.cell.Subscribe(b.onDisplay),
	)
	b.onDisplay(b.display.cell.Read())
	return b, nil
}

// Name returns the bound field name.
func (b *Binding[D]) Name() string { return b.name }

// Form returns the form the binding writes into.
func (b *Binding[D]) Form() *form.Form { return b.form }

// Record returns the current field record.
func (b *Binding[D]) Record() form.FieldRecord { return b.field.Read() }

// Display returns the widget-side value.
func (b *Binding[D]) Display() Display[D] { return b.display }

// Rules returns the validation rules applied on commit.
func (b *Binding[D]) Rules() []validation.Rule {
	return append([]validation.Rule(nil), b.rules...)
}

// Pending reports whether a commit is scheduled.
func (b *Binding[D]) Pending() bool { return b.hasPending }

// Blur commits the display value now when a commit is pending or the binding
// commits on blur. It reports whether a commit happened.
func (b *Binding[D]) Blur() bool {
	if !b.hasPending && !b.commitOnBlur {
		return false
	}
	origin := UserEdit
	if b.hasPending && b.pendingOrigin == ExternalSync && !b.commitOnBlur {
		origin = ExternalSync
	}
	b.stopTimer()
	b.commit(b.adapter.FromDisplay(b.display.Read()), origin)
	return true
}

// Flush commits a pending write now, keeping its origin. It reports whether
// anything was pending.
func (b *Binding[D]) Flush() bool {
	if !b.hasPending {
		return false
	}
	b.stopTimer()
	b.commit(b.pendingValue, b.pendingOrigin)
	return true
}

// Dispose detaches the binding from its field and display and drops any
// pending commit.
func (b *Binding[D]) Dispose() {
	for _, cancel := range b.cancels {
		cancel()
	}
	b.cancels = nil
	b.stopTimer()
	b.hasPending = false
	b.pendingValue = nil
}

// onField mirrors a field change into the display.
func (b *Binding[D]) onField(rec form.FieldRecord) {
	b.display.sync(b.adapter.ToDisplay(rec, b.display.Read()))
}

// onDisplay reconciles the display with the field record.
func (b *Binding[D]) onDisplay(t tagged[D]) {
	candidate := form.Normalize(b.adapter.FromDisplay(t.value))
	rec := b.field.Read()
	mismatch := rec.Version != b.lastSeen

	if b.commitOnBlur && !mismatch {
		return
	}
	if !mismatch && !b.hasPending && form.Equal(candidate, rec.Value) {
		return
	}
	b.lastSeen = rec.Version
	b.schedule(candidate, t.origin)
}

func (b *Binding[D]) schedule(candidate any, origin Origin) {
	if b.hasPending {
		origin = mergeOrigin(origin, b.pendingOrigin)
	}
	b.stopTimer()
	b.hasPending = true
	b.pendingValue = candidate
	b.pendingOrigin = origin

	var timer scheduler.Timer
	timer = b.sched.AfterFunc(b.debounce, func() {
		if b.timer != timer || !b.hasPending {
			return
		}
		b.timer = nil
		b.commit(b.pendingValue, b.pendingOrigin)
	})
	b.timer = timer
}

func (b *Binding[D]) stopTimer() {
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

func (b *Binding[D]) commit(candidate any, origin Origin) {
	b.hasPending = false
	b.pendingValue = nil

	rec := b.field.Read()
	rec.Value = form.Normalize(candidate)
	rec.IsChanged = !b.matchesStart(rec)
	rec.Error = validation.MustEvaluate(b.rules, rec.Value)
	rec.Version++
	if origin == UserEdit {
		rec.IsTouched = true
	}

	// Must precede the write: the field notification re-enters onDisplay.
	b.lastSeen = rec.Version
	b.form.Logger().Debug("binding: commit",
		"field", b.name,
		"version", rec.Version,
		"origin", origin.String(),
		"error", rec.Error,
	)
	b.field.Write(rec)
}

// matchesStart reports whether rec holds its start value, either as is or as
// the adapter reads it back from its own display. A widget that only reshapes
// the start value (int 5 committed as float64 5 or "5") leaves the field
// unchanged.
func (b *Binding[D]) matchesStart(rec form.FieldRecord) bool {
	if form.Equal(rec.Value, rec.StartValue) {
		return true
	}
	if !b.startKnown || !reflect.DeepEqual(b.startRaw, rec.StartValue) {
		start := rec
		start.Value = rec.StartValue
		var zero D
		b.startRaw = rec.StartValue
		b.startShaped = form.Normalize(b.adapter.FromDisplay(b.adapter.ToDisplay(start, zero)))
		b.startKnown = true
	}
	return form.Equal(rec.Value, b.startShaped)
}
