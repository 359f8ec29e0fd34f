package widgets

import (
	"testing"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/scheduler"
	"github.com/goliatone/go-formstate/pkg/validation"
)

func TestResolve_ExplicitWidgetWins(t *testing.T) {
	reg := NewRegistry()
	spec := Spec{
		Name:        "subscribe",
		Widget:      "custom-toggle",
		Constraints: validation.Constraints{Type: validation.TypeCheckbox},
	}

	if got, ok := reg.Resolve(spec); !ok || got != "custom-toggle" {
		t.Fatalf("expected explicit widget to win, got %q (ok=%v)", got, ok)
	}
}

func TestResolve_Builtins(t *testing.T) {
	reg := NewRegistry()

	cases := []struct {
		name   string
		spec   Spec
		expect string
	}{
		{
			name:   "checkbox",
			spec:   Spec{Constraints: validation.Constraints{Type: validation.TypeCheckbox}},
			expect: WidgetCheckbox,
		},
		{
			name:   "radio",
			spec:   Spec{Constraints: validation.Constraints{Type: validation.TypeRadio}, Options: []any{"a"}},
			expect: WidgetRadio,
		},
		{
			name:   "options imply select",
			spec:   Spec{Constraints: validation.Constraints{Type: validation.TypeText}, Options: []any{"a"}},
			expect: WidgetSelect,
		},
		{
			name:   "range is numeric",
			spec:   Spec{Constraints: validation.Constraints{Type: validation.TypeRange}},
			expect: WidgetNumber,
		},
		{
			name:   "email falls back to text",
			spec:   Spec{Constraints: validation.Constraints{Type: validation.TypeEmail}},
			expect: WidgetText,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got, ok := reg.Resolve(tc.spec); !ok || got != tc.expect {
				t.Fatalf("expected %q, got %q (ok=%v)", tc.expect, got, ok)
			}
		})
	}
}

func TestRegister_PriorityOverridesBuiltin(t *testing.T) {
	reg := NewRegistry()
	reg.Register("color-picker", 100, func(spec Spec) bool {
		return spec.Constraints.Type == validation.TypeColor
	}, func(Spec) (binding.Adapter[any], error) {
		return Text{Trim: true}, nil
	})

	name, adapter, err := reg.Adapter(Spec{Name: "tint", Constraints: validation.Constraints{Type: validation.TypeColor}})
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	if name != "color-picker" {
		t.Fatalf("expected color-picker, got %q", name)
	}
	if got := adapter.FromDisplay("  #fff "); got != "#fff" {
		t.Fatalf("expected trimmed colour, got %v", got)
	}
}

func TestAdapter_Errors(t *testing.T) {
	reg := NewRegistry()
	if _, _, err := reg.Adapter(Spec{Name: "plan", Constraints: validation.Constraints{Type: validation.TypeSelect}}); err == nil {
		t.Fatalf("expected select without options to fail")
	}
	if _, _, err := reg.Adapter(Spec{Name: "x", Widget: "missing"}); err == nil {
		t.Fatalf("expected unregistered explicit widget to fail")
	}
}

func TestBind_AppliesConstraints(t *testing.T) {
	sched := scheduler.NewManual()
	f, err := form.New([]form.Init{{Name: "age", Value: nil}}, nil, form.WithScheduler(sched))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	reg := NewRegistry()
	b, err := reg.Bind(f, Spec{
		Name:        "age",
		Constraints: validation.Constraints{Type: validation.TypeNumber, Min: 18, Required: true},
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	sched.Flush()
	if rec := b.Record(); rec.IsChanged || rec.Error != validation.CodeRequired {
		t.Fatalf("expected unchanged absent age failing required, got %+v", rec)
	}

	b.Display().Write("12")
	sched.Flush()
	if rec := b.Record(); rec.Value != 12.0 || rec.Error != validation.CodeMinNumberLen {
		t.Fatalf("expected 12 below minimum, got %+v", rec)
	}

	b.Display().Write("21")
	sched.Flush()
	if rec := b.Record(); rec.Error != 0 {
		t.Fatalf("expected valid age, got %+v", rec)
	}
}

func TestBind_SelectByIndex(t *testing.T) {
	sched := scheduler.NewManual()
	f, err := form.New([]form.Init{{Name: "plan", Value: "free"}}, nil, form.WithScheduler(sched))
	if err != nil {
		t.Fatalf("new form: %v", err)
	}
	b, err := NewRegistry().Bind(f, Spec{
		Name:        "plan",
		Constraints: validation.Constraints{Type: validation.TypeSelect},
		Options:     []any{"free", "pro"},
	})
	if err != nil {
		t.Fatalf("bind: %v", err)
	}
	sched.Flush()
	if got := b.Display().Read(); got != 1 {
		t.Fatalf("expected display index 1, got %v", got)
	}

	b.Display().Write(2)
	sched.Flush()
	if rec := b.Record(); rec.Value != "pro" || !rec.IsChanged {
		t.Fatalf("expected pro selected, got %+v", rec)
	}
}
