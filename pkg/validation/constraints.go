package validation

import (
	"fmt"
	"math"
	"strings"
)

// InputType names the kind of widget a field is edited with. It decides
// whether min/max constrain length or numeric value, and whether the email
// rule applies.
type InputType string

// Built-in input types.
const (
	TypeText     InputType = "text"
	TypeEmail    InputType = "email"
	TypePassword InputType = "password"
	TypeTextArea InputType = "textarea"
	TypeColor    InputType = "color"
	TypeNumber   InputType = "number"
	TypeRange    InputType = "range"
	TypeCheckbox InputType = "checkbox"
	TypeSelect   InputType = "select"
	TypeRadio    InputType = "radio"
)

var knownTypes = map[InputType]struct{}{
	TypeText: {}, TypeEmail: {}, TypePassword: {}, TypeTextArea: {}, TypeColor: {},
	TypeNumber: {}, TypeRange: {}, TypeCheckbox: {}, TypeSelect: {}, TypeRadio: {},
}

// ParseInputType normalises raw into a known input type. Empty input means
// text.
func ParseInputType(raw string) (InputType, error) {
	trimmed := InputType(strings.ToLower(strings.TrimSpace(raw)))
	if trimmed == "" {
		return TypeText, nil
	}
	if _, ok := knownTypes[trimmed]; !ok {
		return "", fmt.Errorf("validation: unknown input type %q", raw)
	}
	return trimmed, nil
}

// Numeric reports whether min/max are numeric bounds for this type.
func (t InputType) Numeric() bool {
	return t == TypeNumber || t == TypeRange
}

// Constraints is the declarative rule configuration of one binding. Zero Min
// and Max mean "unset", matching how widgets treat a zero bound attribute.
type Constraints struct {
	Type     InputType
	Min      float64
	Max      float64
	Required bool
	Pattern  string
	Validate func(value any) int
}

// RulesFor derives the ordered rule list for c: min, max, required, email,
// pattern, then the custom function.
func RulesFor(c Constraints) ([]Rule, error) {
	var rules []Rule
	if c.Min != 0 {
		if c.Type.Numeric() {
			rules = append(rules, MinNumberLen{Value: c.Min})
		} else {
			rules = append(rules, MinStrLen{Len: int(math.Ceil(c.Min))})
		}
	}
	if c.Max != 0 {
		if c.Type.Numeric() {
			rules = append(rules, MaxNumberLen{Value: c.Max})
		} else {
			rules = append(rules, MaxStrLen{Len: int(math.Floor(c.Max))})
		}
	}
	if c.Required {
		rules = append(rules, Required{})
	}
	if c.Type == TypeEmail {
		rules = append(rules, EmailRegex{})
	}
	if c.Pattern != "" {
		rule, err := NewStrRegex(c.Pattern)
		if err != nil {
			return nil, err
		}
		rules = append(rules, rule)
	}
	if c.Validate != nil {
		rules = append(rules, ValidateFn{Fn: c.Validate})
	}
	return rules, nil
}
