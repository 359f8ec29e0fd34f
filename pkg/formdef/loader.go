package formdef

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-formstate/pkg/form"
	"github.com/goliatone/go-formstate/pkg/validation"
)

// ErrInvalidDefinition wraps every structural problem Parse reports.
var ErrInvalidDefinition = errors.New("formdef: invalid definition")

// Load reads and parses the definition at path in fsys.
func Load(fsys fs.FS, path string) (*Definition, error) {
	if fsys == nil {
		return nil, errors.New("formdef: filesystem is nil")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("formdef: read %s: %w", path, err)
	}
	return Parse(data, path)
}

// Parse decodes a YAML or JSON definition. source names the document in
// error messages.
func Parse(data []byte, source string) (*Definition, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, fmt.Errorf("%w: file %s is empty", ErrInvalidDefinition, source)
	}

	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("formdef: parse %s: %w", source, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 || root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: file %s is not a mapping", ErrInvalidDefinition, source)
	}

	def := &Definition{Source: source, index: make(map[string]int)}
	doc := root.Content[0]
	for idx := 0; idx+1 < len(doc.Content); idx += 2 {
		key, value := doc.Content[idx].Value, doc.Content[idx+1]
		var err error
		switch key {
		case "name":
			err = value.Decode(&def.Name)
		case "fields":
			err = def.decodeFields(value)
		case "same":
			err = value.Decode(&def.Same)
		case "submit":
			err = value.Decode(&def.Submit)
		}
		if err != nil {
			return nil, fmt.Errorf("formdef: parse %s: %s: %w", source, key, err)
		}
	}

	if len(def.Fields) == 0 {
		return nil, fmt.Errorf("%w: file %s defines no fields", ErrInvalidDefinition, source)
	}
	if err := def.validateSame(); err != nil {
		return nil, err
	}
	return def, nil
}

// decodeFields walks the fields mapping so document order survives.
func (d *Definition) decodeFields(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return fmt.Errorf("%w: fields must be a mapping (file %s)", ErrInvalidDefinition, d.Source)
	}
	for idx := 0; idx+1 < len(node.Content); idx += 2 {
		name := strings.TrimSpace(node.Content[idx].Value)
		if name == "" {
			return fmt.Errorf("%w: file %s defines a field with an empty name", ErrInvalidDefinition, d.Source)
		}
		if _, exists := d.index[name]; exists {
			return fmt.Errorf("%w: file %s defines duplicate field %q", ErrInvalidDefinition, d.Source, name)
		}

		var raw fieldFile
		if err := node.Content[idx+1].Decode(&raw); err != nil {
			return fmt.Errorf("field %q: %w", name, err)
		}
		field, err := normaliseField(name, raw)
		if err != nil {
			return fmt.Errorf("%w: file %s field %q: %v", ErrInvalidDefinition, d.Source, name, err)
		}
		d.index[name] = len(d.Fields)
		d.Fields = append(d.Fields, field)
	}
	return nil
}

func normaliseField(name string, raw fieldFile) (Field, error) {
	inputType, err := validation.ParseInputType(raw.Type)
	if err != nil {
		return Field{}, err
	}
	field := Field{
		Name:         name,
		Label:        strings.TrimSpace(raw.Label),
		Help:         strings.TrimSpace(raw.Help),
		Type:         inputType,
		Widget:       strings.TrimSpace(raw.Widget),
		Required:     raw.Required,
		Pattern:      raw.Pattern,
		Options:      raw.Options,
		Trim:         raw.Trim,
		Sanitize:     raw.Sanitize,
		Integer:      raw.Integer,
		CommitOnBlur: raw.CommitOnBlur,
	}
	if field.Label == "" {
		field.Label = name
	}
	if raw.Min != nil {
		field.Min = *raw.Min
	}
	if raw.Max != nil {
		field.Max = *raw.Max
	}
	if raw.Debounce != "" {
		d, err := time.ParseDuration(raw.Debounce)
		if err != nil {
			return Field{}, fmt.Errorf("debounce: %w", err)
		}
		if d < 0 {
			return Field{}, fmt.Errorf("debounce %s is negative", raw.Debounce)
		}
		field.Debounce = d
	}
	if _, err := validation.RulesFor(field.Constraints()); err != nil {
		return Field{}, err
	}
	if (inputType == validation.TypeSelect || inputType == validation.TypeRadio) && len(field.Options) == 0 {
		return Field{}, fmt.Errorf("%s field needs options", inputType)
	}

	value, err := initialValue(field, raw.Value)
	if err != nil {
		return Field{}, err
	}
	field.Value = value
	return field, nil
}

// initialValue shapes a decoded value the way the field's widget commits it,
// so binding an untouched field does not mark it changed.
func initialValue(field Field, value any) (any, error) {
	value = form.Normalize(value)
	switch {
	case field.Type.Numeric():
		switch v := value.(type) {
		case nil:
			return nil, nil
		case int:
			if field.Integer {
				return v, nil
			}
			return float64(v), nil
		case float64:
			if field.Integer && v == math.Trunc(v) {
				return int(v), nil
			}
			return v, nil
		default:
			return nil, fmt.Errorf("value %v is not a number", value)
		}
	case field.Type == validation.TypeCheckbox:
		switch v := value.(type) {
		case nil:
			return false, nil
		case bool:
			return v, nil
		default:
			return nil, fmt.Errorf("value %v is not a boolean", value)
		}
	case len(field.Options) > 0 && value != nil:
		for _, option := range field.Options {
			if form.Equal(option, value) {
				return value, nil
			}
		}
		return nil, fmt.Errorf("value %v is not one of the options", value)
	}
	return value, nil
}

func (d *Definition) validateSame() error {
	for idx, group := range d.Same {
		if len(group) < 2 {
			return fmt.Errorf("%w: file %s same group %d needs at least two fields", ErrInvalidDefinition, d.Source, idx)
		}
		for _, name := range group {
			if _, ok := d.index[name]; !ok {
				return fmt.Errorf("%w: file %s same group %d names unknown field %q", ErrInvalidDefinition, d.Source, idx, name)
			}
		}
	}
	return nil
}
