package formdef_test

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/orchestrator"
	"github.com/goliatone/go-formstate/pkg/scheduler"
	"github.com/goliatone/go-formstate/pkg/testsupport"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestBuildAndBindSignup(t *testing.T) {
	def, err := formdef.Load(formdef.EmbeddedFS(), "signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	sched := scheduler.NewManual()
	f, err := def.Build(form.WithScheduler(sched))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bindings, err := def.Bind(f, nil)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	if len(bindings) != len(def.Fields) {
		t.Fatalf("expected %d bindings, got %d", len(def.Fields), len(bindings))
	}
	sched.Flush()

	for _, b := range bindings {
		if rec := b.Record(); rec.IsChanged || rec.IsTouched {
			t.Fatalf("binding an untouched field must not change it: %+v", rec)
		}
	}

	byName := make(map[string]int, len(bindings))
	for idx, b := range bindings {
		byName[b.Name()] = idx
	}
	write := func(name string, value any) {
		b := bindings[byName[name]]
		b.Display().Write(value)
		b.Blur()
	}

	write("email", " ada@example.com ")
	write("age", "36")
	write("password", "correct horse")
	write("passwordConfirm", "correct horse!")
	sched.Flush()

	if got := f.Status().Read().GlobalError; got != validation.CodeValuesNotSame {
		t.Fatalf("expected mismatched passwords, got %d", got)
	}

	write("passwordConfirm", "correct horse")
	sched.Flush()

	st := f.Status().Read()
	if st.GlobalError != 0 || !st.IsValid {
		t.Fatalf("expected valid form, got %+v", st)
	}
	values := f.Values()
	if values["email"] != "ada@example.com" || values["age"] != 36 || values["plan"] != "free" {
		t.Fatalf("unexpected values: %#v", values)
	}

	o := orchestrator.New(f, def.OrchestratorOptions()...)
	if !o.Submit() {
		t.Fatalf("expected submit to proceed, status %+v", o.Status())
	}
}

func TestBindFailsForUnknownWidget(t *testing.T) {
	def, err := formdef.Parse([]byte("fields:\n  a: {widget: sparkle}\n  b: {}\n"), "inline")
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	f, err := def.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	if _, err := def.Bind(f, nil); err == nil {
		t.Fatalf("expected unknown widget to fail")
	}
}

func TestBuildSignupRecordsGolden(t *testing.T) {
	def, err := formdef.Load(formdef.EmbeddedFS(), "signup.yaml")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	f, err := def.Build()
	if err != nil {
		t.Fatalf("build: %v", err)
	}

	records := make([]form.FieldRecord, 0, f.Len())
	for _, name := range f.Names() {
		rec, _ := f.Record(name)
		records = append(records, rec)
	}
	if diff := testsupport.CompareJSONGolden(t, "testdata/signup_records.golden.json", records); diff != "" {
		t.Fatalf("records mismatch (-want +got):\n%s", diff)
	}
}

func TestContactDebounceCommitsOnce(t *testing.T) {
	def := testsupport.LoadDefinition(t, "testdata/contact.json")
	sched := scheduler.NewManual()
	f, err := def.Build(form.WithScheduler(sched))
	if err != nil {
		t.Fatalf("build: %v", err)
	}
	bindings, err := def.Bind(f, nil)
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	sched.Flush()

	status := testsupport.Record(t, f.Status())
	message := bindings[1]
	if message.Name() != "message" {
		t.Fatalf("expected document order, got %s", message.Name())
	}
	cell, _ := f.Field("message")
	commits := testsupport.Record(t, cell)
	for _, typed := range []string{"hi", "hello", "hello there"} {
		message.Display().Write(typed)
	}

	sched.Advance(100 * time.Millisecond)
	if status.Len() != 0 || !message.Pending() {
		t.Fatalf("expected commit to wait for the debounce delay, got %d notifications", status.Len())
	}

	sched.Advance(200 * time.Millisecond)
	rec := message.Record()
	if rec.Value != "hello there" || rec.Error != 0 || !rec.IsTouched {
		t.Fatalf("unexpected record after debounce: %+v", rec)
	}
	if status.Len() != 1 {
		t.Fatalf("expected one status notification, got %d", status.Len())
	}
	if last, _ := status.Last(); !last.IsTouched || !last.IsChanged {
		t.Fatalf("unexpected status %+v", last)
	}

	status.Reset()
	message.Display().Write("bye")
	sched.Advance(300 * time.Millisecond)
	if got := status.Values(); len(got) != 1 || !got[0].IsChanged {
		t.Fatalf("expected one status notification after reset, got %+v", got)
	}

	var committed []any
	for _, rec := range commits.Values() {
		committed = append(committed, rec.Value)
	}
	if diff := cmp.Diff([]any{"hello there", "bye"}, committed); diff != "" {
		t.Fatalf("commits mismatch (-want +got):\n%s", diff)
	}
}
