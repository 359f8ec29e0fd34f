package formstate_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

type scriptedDriver struct {
	inputs    []string
	passwords []string
	selects   []int
	confirms  []bool
	texts     []string
	info      []string
}

func (d *scriptedDriver) Input(context.Context, tui.InputConfig) (string, error) {
	return pop(&d.inputs)
}

func (d *scriptedDriver) Password(context.Context, tui.InputConfig) (string, error) {
	return pop(&d.passwords)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return pop(&d.confirms)
}

func (d *scriptedDriver) Select(context.Context, tui.SelectConfig) (int, error) {
	return pop(&d.selects)
}

func (d *scriptedDriver) TextArea(context.Context, tui.TextAreaConfig) (string, error) {
	return pop(&d.texts)
}

func (d *scriptedDriver) Info(_ context.Context, msg string) error {
	d.info = append(d.info, msg)
	return nil
}

func pop[T any](queue *[]T) (T, error) {
	var zero T
	if len(*queue) == 0 {
		return zero, errors.New("nothing scripted")
	}
	val := (*queue)[0]
	*queue = (*queue)[1:]
	return val, nil
}

func TestLoadDefinitionDefaultsToSignup(t *testing.T) {
	def, err := formstate.LoadDefinition(nil, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if def.Name != "signup" || len(def.Fields) != 7 {
		t.Fatalf("unexpected definition %s with %d fields", def.Name, len(def.Fields))
	}
}

func TestRunTerminalSignup(t *testing.T) {
	def, err := formstate.LoadDefinition(nil, "")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	driver := &scriptedDriver{
		inputs:    []string{"ada@example.com", "12", "36"},
		passwords: []string{"correct horse", "correct horse"},
		selects:   []int{2},
		texts:     []string{"<i>Analyst</i>"},
		confirms:  []bool{true},
	}

	res, err := formstate.RunTerminal(context.Background(), def, formstate.TerminalConfig{
		Options: []tui.Option{tui.WithPromptDriver(driver)},
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !res.Proceed {
		t.Fatalf("expected submission to proceed, got %+v", res.Status)
	}

	want := map[string]any{
		"email":           "ada@example.com",
		"age":             36,
		"password":        "correct horse",
		"passwordConfirm": "correct horse",
		"plan":            "team",
		"bio":             "Analyst",
		"newsletter":      true,
	}
	if diff := cmp.Diff(want, res.Values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Age is below the minimum"}, driver.info); diff != "" {
		t.Fatalf("info mismatch (-want +got):\n%s", diff)
	}
}

func TestRunTerminalRequiresDefinition(t *testing.T) {
	if _, err := formstate.RunTerminal(context.Background(), nil, formstate.TerminalConfig{}); err == nil {
		t.Fatalf("expected error for nil definition")
	}
}
