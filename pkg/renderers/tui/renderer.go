package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validation"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

const defaultMaxAttempts = 3

// Renderer drives a Session through terminal prompts: every answer is written
// to the field's display, committed on blur and checked before moving on.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	messages          Messages
	maxAttempts       int
}

// Result reports the outcome of a run.
type Result struct {
	// Submitted is true when the submit attempt was accepted.
	Submitted bool
	// Proceed mirrors Orchestrator.Submit: accepted and not prevented.
	Proceed bool
	Status  form.Status
	Values  map[string]any
	// Output holds the serialized values of an accepted submission.
	Output []byte
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		messages:     DefaultMessages,
		maxAttempts:  defaultMaxAttempts,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if _, ok := ParseOutputFormat(string(r.outputFormat)); !ok {
		return nil, fmt.Errorf("tui: unknown output format %q", r.outputFormat)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used for Result.Output.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Run prompts every field of s in order, re-asking while a field is invalid,
// then submits through the session orchestrator. A cross-field failure
// re-runs the whole round.
func (r *Renderer) Run(ctx context.Context, s *Session) (Result, error) {
	if ctx == nil {
		return Result{}, errors.New("tui: context is required")
	}
	if s == nil {
		return Result{}, errors.New("tui: session is required")
	}

	for round := 1; ; round++ {
		for _, field := range s.Fields {
			if err := r.promptField(ctx, s, field); err != nil {
				return Result{}, err
			}
		}
		st := s.Form.Status().Read()
		if st.GlobalError == 0 || fieldErrors(s) {
			break
		}
		if round >= r.maxAttempts {
			return Result{}, fmt.Errorf("%w: %s", ErrAttemptsExhausted, validation.CodeName(st.GlobalError))
		}
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+r.messages(st.GlobalError)); err != nil {
			return Result{}, err
		}
	}

	proceed := s.Orchestrator.Submit()
	st := s.Orchestrator.Status()
	res := Result{
		Submitted: st.IsSubmitted,
		Proceed:   proceed,
		Status:    st,
		Values:    s.Form.Values(),
	}
	if !res.Submitted {
		return res, nil
	}

	values := res.Values
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return Result{}, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	out, err := r.serialize(values)
	if err != nil {
		return Result{}, fmt.Errorf("tui: serialize: %w", err)
	}
	res.Output = out
	return res, nil
}

func (r *Renderer) promptField(ctx context.Context, s *Session, field Field) error {
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		display, err := r.ask(ctx, field)
		if err != nil {
			return err
		}

		field.Binding.Display().Write(display)
		field.Binding.Blur()
		s.Scheduler.Flush()

		code := field.Binding.Record().Error
		if code == 0 {
			return nil
		}
		if attempt >= r.maxAttempts {
			return fmt.Errorf("%w: field %q: %s", ErrAttemptsExhausted, field.Binding.Name(), validation.CodeName(code))
		}
		msg := fmt.Sprintf("%s%s %s", r.theme.ErrorPrefix, field.Label, r.messages(code))
		if err := r.driver.Info(ctx, msg); err != nil {
			return err
		}
	}
}

// ask prompts for one answer and returns it shaped as the field's display
// value.
func (r *Renderer) ask(ctx context.Context, field Field) (any, error) {
	current := field.Binding.Display().Read()
	label := field.Label
	if r.theme.InfoPrefix != "" {
		label = r.theme.InfoPrefix + label
	}

	switch field.Widget {
	case widgets.WidgetCheckbox:
		checked, _ := current.(bool)
		return r.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: checked, Help: field.Help})
	case widgets.WidgetSelect, widgets.WidgetRadio:
		selected, _ := current.(int)
		idx, err := r.driver.Select(ctx, SelectConfig{
			Message:      label,
			Options:      field.Options,
			DefaultIndex: selected - 1,
			Help:         field.Help,
		})
		if err != nil {
			return nil, err
		}
		// Unknown answers clear the selection.
		return idx + 1, nil
	}

	switch field.Type {
	case validation.TypePassword:
		return r.driver.Password(ctx, InputConfig{Message: label, Help: field.Help})
	case validation.TypeTextArea:
		return r.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: defaultText(current), Help: field.Help})
	default:
		return r.driver.Input(ctx, InputConfig{Message: label, Default: defaultText(current), Help: field.Help})
	}
}

// fieldErrors reports whether any field carries its own error, in which case
// a non-zero global error is not a cross-field failure.
func fieldErrors(s *Session) bool {
	for _, field := range s.Fields {
		if field.Binding.Record().Error != 0 {
			return true
		}
	}
	return false
}

func defaultText(display any) string {
	if display == nil {
		return ""
	}
	return fmt.Sprint(display)
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return jsonBytes(values)
	}
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case map[string]any:
		for key, val := range v {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			flatten(next, val, out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	case nil:
		out.Set(prefix, "")
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		keys := make([]string, 0, len(v))
		for key := range v {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			next := key
			if prefix != "" {
				next = prefix + "." + key
			}
			writePretty(b, next, v[key])
		}
	case []any:
		for idx, val := range v {
			next := fmt.Sprintf("%s[%d]", prefix, idx)
			writePretty(b, next, val)
		}
	case nil:
		if prefix != "" {
			fmt.Fprintf(b, "%s=\n", prefix)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}

func jsonBytes(values map[string]any) ([]byte, error) {
	return json.Marshal(values)
}
