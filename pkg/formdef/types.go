package formdef

import (
	"time"

	"github.com/goliatone/go-formstate/pkg/validation"
)

// Definition is a parsed form document. Fields keep document order.
type Definition struct {
	Name   string
	Source string
	Fields []Field
	// Same lists groups of fields that must hold equal values.
	Same   [][]string
	Submit SubmitConfig

	index map[string]int
}

// Field describes one form field.
type Field struct {
	Name  string
	Label string
	Help  string
	Type  validation.InputType
	// Widget names a registry widget explicitly.
	Widget       string
	Value        any
	Required     bool
	Min          float64
	Max          float64
	Pattern      string
	Options      []any
	Trim         bool
	Sanitize     bool
	Integer      bool
	Debounce     time.Duration
	CommitOnBlur bool
}

// SubmitConfig controls the lifecycle orchestrator.
type SubmitConfig struct {
	PreventAction bool `json:"preventAction" yaml:"preventAction"`
}

type fieldFile struct {
	Label        string   `yaml:"label"`
	Help         string   `yaml:"help"`
	Type         string   `yaml:"type"`
	Widget       string   `yaml:"widget"`
	Value        any      `yaml:"value"`
	Required     bool     `yaml:"required"`
	Min          *float64 `yaml:"min"`
	Max          *float64 `yaml:"max"`
	Pattern      string   `yaml:"pattern"`
	Options      []any    `yaml:"options"`
	Trim         bool     `yaml:"trim"`
	Sanitize     bool     `yaml:"sanitize"`
	Integer      bool     `yaml:"integer"`
	Debounce     string   `yaml:"debounce"`
	CommitOnBlur bool     `yaml:"commitOnBlur"`
}
