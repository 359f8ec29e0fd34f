package orchestrator

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/reactive"
	"github.com/goliatone/go-formstate/pkg/scheduler"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func newForm(t *testing.T, fields ...form.Init) *form.Form {
	t.Helper()
	f, err := form.New(fields, nil)
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	return f
}

func set(f *form.Form, name string, fn func(rec *form.FieldRecord)) {
	cell, _ := f.Field(name)
	rec := cell.Read()
	fn(&rec)
	rec.Version++
	cell.Write(rec)
}

type snapshot struct {
	Status  form.Status
	Records []form.FieldRecord
}

func snap(f *form.Form) snapshot {
	s := snapshot{Status: f.Status().Read()}
	for _, name := range f.Names() {
		rec, _ := f.Record(name)
		s.Records = append(s.Records, rec)
	}
	return s
}

func TestResetIsIdempotent(t *testing.T) {
	f := newForm(t, form.Init{Name: "a", Value: "start"}, form.Init{Name: "b", Value: 1})
	o := New(f)

	set(f, "a", func(rec *form.FieldRecord) {
		rec.Value = "edited"
		rec.IsChanged = true
		rec.IsTouched = true
		rec.Error = validation.CodeMinStrLen
	})
	f.DisableForm()
	o.Submit()

	o.Reset()
	once := snap(f)
	o.Reset()
	twice := snap(f)

	if diff := cmp.Diff(once, twice); diff != "" {
		t.Fatalf("second reset changed state (-once +twice):\n%s", diff)
	}

	want := []form.FieldRecord{
		{Name: "a", Value: "start", StartValue: "start"},
		{Name: "b", Value: 1, StartValue: 1},
	}
	if diff := cmp.Diff(want, once.Records); diff != "" {
		t.Fatalf("records after reset (-want +got):\n%s", diff)
	}
	if once.Status.IsSubmitted || once.Status.GlobalError != 0 || once.Status.IsValid || once.Status.IsChanged {
		t.Fatalf("expected cleared status, got %+v", once.Status)
	}
	if once.Status.Submissions != 1 {
		t.Fatalf("expected submissions to survive reset, got %d", once.Status.Submissions)
	}
}

func TestResetRecomputesStatusOnce(t *testing.T) {
	f := newForm(t, form.Init{Name: "a"}, form.Init{Name: "b"}, form.Init{Name: "c"})
	o := New(f)
	f.TouchAllInputs()

	var seen []form.Status
	f.Status().Subscribe(func(st form.Status) { seen = append(seen, st) })
	o.Reset()

	if len(seen) != 1 {
		t.Fatalf("expected one status notification, got %d", len(seen))
	}
	if seen[0].IsTouched {
		t.Fatalf("expected untouched status after all fields reset, got %+v", seen[0])
	}
}

func TestFailedSubmit(t *testing.T) {
	f := newForm(t, form.Init{Name: "email", Value: ""}, form.Init{Name: "age"})
	set(f, "email", func(rec *form.FieldRecord) {
		rec.Value = "nope"
		rec.IsChanged = true
		rec.Error = validation.CodeEmailRegex
	})

	called := false
	o := New(f, WithSubmitPredicate(func() bool { called = true; return true }))

	if o.Submit() {
		t.Fatalf("expected submission to be suppressed")
	}
	st := o.Status()
	if st.Submissions != 1 || st.IsSubmitted {
		t.Fatalf("expected one unsuccessful submission, got %+v", st)
	}
	if called {
		t.Fatalf("predicate must not run for an invalid form")
	}
	for _, name := range f.Names() {
		if rec, _ := f.Record(name); !rec.IsTouched {
			t.Fatalf("expected %s touched by submit", name)
		}
	}
}

func TestSubmitUnchangedFormIsSuppressed(t *testing.T) {
	f := newForm(t, form.Init{Name: "a", Value: "x"})
	o := New(f)
	if o.Submit() {
		t.Fatalf("an unchanged form is never valid")
	}
	if o.Status().Submissions != 1 {
		t.Fatalf("expected the attempt to be counted")
	}
}

func TestSuccessfulSubmit(t *testing.T) {
	cases := []struct {
		name          string
		options       []Option
		wantProceed   bool
		wantSubmitted bool
	}{
		{name: "default", wantProceed: true, wantSubmitted: true},
		{name: "prevent action", options: []Option{WithPreventAction(true)}, wantProceed: false, wantSubmitted: true},
		{name: "predicate rejects", options: []Option{WithSubmitPredicate(func() bool { return false })}, wantProceed: false, wantSubmitted: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newForm(t, form.Init{Name: "a", Value: ""})
			set(f, "a", func(rec *form.FieldRecord) {
				rec.Value = "ok"
				rec.IsChanged = true
			})
			o := New(f, tc.options...)

			if got := o.Submit(); got != tc.wantProceed {
				t.Fatalf("expected proceed %v, got %v", tc.wantProceed, got)
			}
			if got := o.Status().IsSubmitted; got != tc.wantSubmitted {
				t.Fatalf("expected submitted %v, got %v", tc.wantSubmitted, got)
			}
		})
	}
}

func TestFailedSubmitKeepsEarlierSuccess(t *testing.T) {
	f := newForm(t, form.Init{Name: "a", Value: ""})
	set(f, "a", func(rec *form.FieldRecord) {
		rec.Value = "ok"
		rec.IsChanged = true
	})
	o := New(f)
	o.Submit()

	set(f, "a", func(rec *form.FieldRecord) { rec.Error = validation.CodeRequired })
	if o.Submit() {
		t.Fatalf("expected second submission to be suppressed")
	}
	if st := o.Status(); !st.IsSubmitted || st.Submissions != 2 {
		t.Fatalf("expected IsSubmitted to persist, got %+v", st)
	}
}

func TestLifecycleWithBindings(t *testing.T) {
	sched := scheduler.NewManual()
	f, err := form.New([]form.Init{{Name: "name", Value: ""}}, nil, form.WithScheduler(sched))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	b, err := binding.New[any](f, "name", binding.Identity{}, binding.WithRules(validation.Required{}))
	if err != nil {
		t.Fatalf("new binding: %v", err)
	}
	sched.Flush()
	o := New(f)

	if o.Submit() {
		t.Fatalf("expected empty required field to block submit")
	}
	sched.Flush()

	b.Display().Write("Ada")
	sched.Flush()
	if !o.Submit() {
		t.Fatalf("expected submit to proceed, status %+v", o.Status())
	}

	o.Reset()
	if got := b.Display().Read(); got != "" {
		t.Fatalf("expected display to follow reset, got %v", got)
	}
	sched.Flush()
	want := form.FieldRecord{Name: "name", Value: "", StartValue: "", Error: validation.CodeRequired}
	if diff := cmp.Diff(want, b.Record(), cmpopts.IgnoreFields(form.FieldRecord{}, "Version")); diff != "" {
		t.Fatalf("reconciliation after reset must not touch the field (-want +got):\n%s", diff)
	}
}

func TestResetRunsInsideHostBatch(t *testing.T) {
	rt := reactive.NewRuntime()
	f, err := form.New([]form.Init{{Name: "a", Value: 1}}, nil, form.WithRuntime(rt))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	o := New(f)

	notified := 0
	f.Status().Subscribe(func(form.Status) { notified++ })
	rt.Batch(func() {
		o.Reset()
		o.Reset()
		if notified != 0 {
			t.Fatalf("expected notifications to wait for the host batch")
		}
	})
	if notified != 1 {
		t.Fatalf("expected one notification, got %d", notified)
	}
}
