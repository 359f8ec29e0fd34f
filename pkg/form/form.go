package form

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/reactive"
	"github.com/goliatone/go-formstate/pkg/scheduler"
)

var (
	// ErrUnknownField is returned when a name does not identify a field.
	ErrUnknownField = errors.New("form: unknown field")
	// ErrDuplicateField is returned when two initial values share a name.
	ErrDuplicateField = errors.New("form: duplicate field")
)

// Init names one field and its initial value. Field order matters: status
// aggregation folds field errors in this order.
type Init struct {
	Name  string
	Value any
}

// Initial converts a map into field initialisers sorted by name, for hosts
// that have no natural field order.
func Initial(values map[string]any) []Init {
	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]Init, 0, len(names))
	for _, name := range names {
		out = append(out, Init{Name: name, Value: values[name]})
	}
	return out
}

// Validator is a cross-field check evaluated against the whole form on every
// status recomputation. It must treat the form as read-only and return zero
// when the check passes.
type Validator func(f *Form) int

// Option configures a Form.
type Option func(*Form)

// WithRuntime shares a reactive runtime with other cells the host owns, so
// host batches also cover the form.
func WithRuntime(rt *reactive.Runtime) Option {
	return func(f *Form) {
		if rt != nil {
			f.rt = rt
		}
	}
}

// WithScheduler sets the scheduler bindings use for debounced commits.
func WithScheduler(s scheduler.Scheduler) Option {
	return func(f *Form) {
		if s != nil {
			f.sched = s
		}
	}
}

// WithLogger sets the logger used for configuration warnings.
func WithLogger(logger *slog.Logger) Option {
	return func(f *Form) {
		if logger != nil {
			f.logger = logger
		}
	}
}

// Form owns one reactive cell per field plus the aggregate status cell. The
// field set is fixed at construction.
type Form struct {
	rt         *reactive.Runtime
	sched      scheduler.Scheduler
	logger     *slog.Logger
	names      []string
	index      map[string]int
	fields     []*reactive.Cell[FieldRecord]
	status     *reactive.Cell[Status]
	validators []Validator
	unwatch    func()
}

// New creates a form with one field per initialiser and the given cross-field
// validators, run in order after field errors are folded. Without
// WithScheduler the form uses a scheduler.Manual, which the host must advance.
func New(fields []Init, validators []Validator, options ...Option) (*Form, error) {
	f := &Form{
		index: make(map[string]int, len(fields)),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	if f.rt == nil {
		f.rt = reactive.NewRuntime()
	}
	if f.sched == nil {
		f.sched = scheduler.NewManual()
	}
	if f.logger == nil {
		f.logger = slog.Default()
	}

	sources := make([]reactive.Source, 0, len(fields))
	for _, init := range fields {
		name := strings.TrimSpace(init.Name)
		if name == "" {
			return nil, errors.New("form: field name is required")
		}
		if _, exists := f.index[name]; exists {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateField, name)
		}
		value := Normalize(init.Value)
		cell := reactive.NewCell(f.rt, FieldRecord{
			Name:       name,
			Value:      value,
			StartValue: value,
		})
		f.index[name] = len(f.fields)
		f.names = append(f.names, name)
		f.fields = append(f.fields, cell)
		sources = append(sources, cell)
	}

	for _, v := range validators {
		if v != nil {
			f.validators = append(f.validators, v)
		}
	}

	f.status = reactive.NewCell(f.rt, Status{})
	f.unwatch = f.rt.Watch(f.updateStatus, sources...)
	return f, nil
}

// Runtime returns the reactive runtime all of the form's cells batch with.
func (f *Form) Runtime() *reactive.Runtime { return f.rt }

// Scheduler returns the scheduler bindings use for debounced commits.
func (f *Form) Scheduler() scheduler.Scheduler { return f.sched }

// Logger returns the form logger.
func (f *Form) Logger() *slog.Logger { return f.logger }

// Status returns the aggregate status cell.
func (f *Form) Status() *reactive.Cell[Status] { return f.status }

// Names returns field names in creation order.
func (f *Form) Names() []string {
	return append([]string(nil), f.names...)
}

// Len reports the number of fields.
func (f *Form) Len() int { return len(f.fields) }

// Field returns the cell holding the named field.
func (f *Form) Field(name string) (*reactive.Cell[FieldRecord], bool) {
	idx, ok := f.index[name]
	if !ok {
		return nil, false
	}
	return f.fields[idx], true
}

// Record returns the current record of the named field.
func (f *Form) Record(name string) (FieldRecord, bool) {
	cell, ok := f.Field(name)
	if !ok {
		return FieldRecord{}, false
	}
	return cell.Read(), true
}

// Values snapshots every field value by name.
func (f *Form) Values() map[string]any {
	out := make(map[string]any, len(f.fields))
	for idx, cell := range f.fields {
		out[f.names[idx]] = cell.Read().Value
	}
	return out
}

// ForEachInput calls fn for every field cell, in creation order, inside one
// batch: observers see the result only after fn has run for all fields.
func (f *Form) ForEachInput(fn func(cell *reactive.Cell[FieldRecord], idx int)) {
	f.rt.Batch(func() {
		for idx, cell := range f.fields {
			fn(cell, idx)
		}
	})
}

// TouchAllInputs marks every field touched in a single batch.
func (f *Form) TouchAllInputs() {
	f.ForEachInput(func(cell *reactive.Cell[FieldRecord], _ int) {
		rec := cell.Read()
		rec.IsTouched = true
		rec.Version++
		cell.Write(rec)
	})
}

// DisableForm marks every field disabled in a single batch.
func (f *Form) DisableForm() {
	f.ForEachInput(func(cell *reactive.Cell[FieldRecord], _ int) {
		rec := cell.Read()
		rec.IsDisabled = true
		rec.Version++
		cell.Write(rec)
	})
}

// Close detaches status aggregation from the field cells.
func (f *Form) Close() {
	if f.unwatch != nil {
		f.unwatch()
		f.unwatch = nil
	}
}

// updateStatus folds every field and cross-field validator into the status
// cell. A later nonzero error replaces an earlier one, so cross-field errors
// stay visible next to field errors.
func (f *Form) updateStatus() {
	var (
		changed bool
		touched bool
		code    int
	)
	for _, cell := range f.fields {
		rec := cell.Read()
		changed = changed || rec.IsChanged
		touched = touched || rec.IsTouched
		if rec.Error != 0 {
			code = rec.Error
		}
	}
	for _, validate := range f.validators {
		if res := validate(f); res != 0 {
			code = res
		}
	}

	status := f.status.Read()
	status.IsChanged = changed
	status.IsTouched = touched
	status.GlobalError = code
	status.IsValid = changed && code == 0
	f.status.Write(status)
}
