// Package formstate is the top-level entry point of the reactive form-state
// engine. It re-exports the record types hosts handle most and wires a
// definition, the widget registry and the terminal renderer together.
package formstate

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/formdef"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
	"github.com/goliatone/go-formstate/pkg/widgets"
)

// FieldRecord aliases form.FieldRecord.
type FieldRecord = form.FieldRecord

// Status aliases form.Status.
type Status = form.Status

// Definition aliases formdef.Definition.
type Definition = formdef.Definition

// DefaultDefinition is the bundled sample loaded when no path is given.
const DefaultDefinition = "signup.yaml"

// DefinitionsFS exposes the bundled sample definitions.
func DefinitionsFS() fs.FS {
	return formdef.EmbeddedFS()
}

// LoadDefinition reads path from fsys. A nil fsys reads from the bundled
// samples, and an empty path loads DefaultDefinition.
func LoadDefinition(fsys fs.FS, path string) (*Definition, error) {
	if fsys == nil {
		fsys = DefinitionsFS()
	}
	if path == "" {
		path = DefaultDefinition
	}
	return formdef.Load(fsys, path)
}

// TerminalConfig configures RunTerminal.
type TerminalConfig struct {
	// Registry resolves widgets; nil uses widgets.NewRegistry.
	Registry *widgets.Registry
	Logger   *slog.Logger
	Options  []tui.Option
}

// RunTerminal prompts for every field of def in the terminal, submits the
// form and returns the renderer result.
func RunTerminal(ctx context.Context, def *Definition, cfg TerminalConfig) (tui.Result, error) {
	if def == nil {
		return tui.Result{}, errors.New("formstate: definition is required")
	}
	renderer, err := tui.New(cfg.Options...)
	if err != nil {
		return tui.Result{}, err
	}
	session, err := tui.NewSession(def, cfg.Registry, cfg.Logger)
	if err != nil {
		return tui.Result{}, err
	}
	defer session.Close()

	res, err := renderer.Run(ctx, session)
	if err != nil {
		return tui.Result{}, fmt.Errorf("formstate: %s: %w", def.Source, err)
	}
	return res, nil
}
