package tui

import "errors"

var (
	// ErrAborted signals the user aborted input (e.g., Ctrl+C).
	ErrAborted = errors.New("tui: aborted")
	// ErrAttemptsExhausted is returned when a field is still invalid after the
	// configured number of prompts.
	ErrAttemptsExhausted = errors.New("tui: too many invalid attempts")
)
