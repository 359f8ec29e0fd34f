// Package orchestrator drives the form lifecycle: submit attempts and resets,
// each applied as one batch over the form's field and status cells.
package orchestrator
