package validation

import (
	"errors"
	"fmt"
	"regexp"
)

// Error codes reported by the built-in rules. Zero always means "no error";
// every other code is opaque to the engine and left for hosts to render.
const (
	CodeNone          = 0
	CodeMinStrLen     = 1
	CodeMinNumberLen  = 2
	CodeMaxNumberLen  = 3
	CodeMaxStrLen     = 4
	CodeRequired      = 5
	CodeEmailRegex    = 6
	CodeStrRegex      = 7
	CodeValidateFn    = 10
	CodeValuesNotSame = 11
)

var codeNames = map[int]string{
	CodeNone:          "none",
	CodeMinStrLen:     "min_str_len",
	CodeMinNumberLen:  "min_number",
	CodeMaxNumberLen:  "max_number",
	CodeMaxStrLen:     "max_str_len",
	CodeRequired:      "required",
	CodeEmailRegex:    "email",
	CodeStrRegex:      "pattern",
	CodeValidateFn:    "custom",
	CodeValuesNotSame: "values_not_same",
}

// CodeName returns a stable identifier for a built-in code, or "custom" for
// codes produced by ValidateFn rules.
func CodeName(code int) string {
	if name, ok := codeNames[code]; ok {
		return name
	}
	return codeNames[CodeValidateFn]
}

// ErrUnknownRule is returned when a rule list holds something the engine does
// not know how to evaluate. Silently skipping it would bypass validation.
var ErrUnknownRule = errors.New("unknown rule")

// emailPattern is intentionally permissive: anything with an @ between two
// non-empty parts.
var emailPattern = regexp.MustCompile(`.+?@.+`)

// Rule is one entry of an ordered rule list. The set of variants is closed:
// only the types declared in this package implement it.
type Rule interface {
	// Code is the error reported when the rule fails. ValidateFn reports
	// whatever its function returns instead.
	Code() int
	isRule()
}

// MinStrLen fails when the value is shorter than Len runes.
type MinStrLen struct{ Len int }

// MaxStrLen fails when the value is longer than Len runes.
type MaxStrLen struct{ Len int }

// MinNumberLen fails when the numeric value is below Value.
type MinNumberLen struct{ Value float64 }

// MaxNumberLen fails when the numeric value is above Value.
type MaxNumberLen struct{ Value float64 }

// Required fails when the value is neither a number nor truthy. Numeric zero
// passes.
type Required struct{}

// EmailRegex fails when the value does not look like an email address.
type EmailRegex struct{}

// StrRegex fails when the value does not match Pattern. Build it with
// NewStrRegex.
type StrRegex struct{ Pattern *regexp.Regexp }

// ValidateFn delegates to Fn; a nonzero result is the error code.
type ValidateFn struct{ Fn func(value any) int }

func (MinStrLen) Code() int    { return CodeMinStrLen }
func (MaxStrLen) Code() int    { return CodeMaxStrLen }
func (MinNumberLen) Code() int { return CodeMinNumberLen }
func (MaxNumberLen) Code() int { return CodeMaxNumberLen }
func (Required) Code() int     { return CodeRequired }
func (EmailRegex) Code() int   { return CodeEmailRegex }
func (StrRegex) Code() int     { return CodeStrRegex }
func (ValidateFn) Code() int   { return CodeValidateFn }

func (MinStrLen) isRule()    {}
func (MaxStrLen) isRule()    {}
func (MinNumberLen) isRule() {}
func (MaxNumberLen) isRule() {}
func (Required) isRule()     {}
func (EmailRegex) isRule()   {}
func (StrRegex) isRule()     {}
func (ValidateFn) isRule()   {}

// NewStrRegex compiles pattern into a StrRegex rule.
func NewStrRegex(pattern string) (StrRegex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return StrRegex{}, fmt.Errorf("validation: compile pattern %q: %w", pattern, err)
	}
	return StrRegex{Pattern: re}, nil
}

// Check reports configuration defects in a rule list: nil entries, a
// StrRegex without a compiled pattern, or a ValidateFn without a function.
// Bindings call it once at construction so evaluation never meets them.
func Check(rules []Rule) error {
	for idx, rule := range rules {
		switch r := rule.(type) {
		case MinStrLen, MaxStrLen, MinNumberLen, MaxNumberLen, Required, EmailRegex:
		case StrRegex:
			if r.Pattern == nil {
				return fmt.Errorf("validation: rule %d: pattern rule has no compiled pattern", idx)
			}
		case ValidateFn:
			if r.Fn == nil {
				return fmt.Errorf("validation: rule %d: custom rule has no function", idx)
			}
		default:
			return fmt.Errorf("validation: rule %d: %w: %T", idx, ErrUnknownRule, rule)
		}
	}
	return nil
}

// Evaluate runs rules left to right against value and returns the code of the
// first failing rule, or CodeNone. Evaluation aborts with an error wrapping
// ErrUnknownRule when it meets a rule it cannot evaluate.
func Evaluate(rules []Rule, value any) (int, error) {
	for idx, rule := range rules {
		switch r := rule.(type) {
		case MinStrLen:
			if n, ok := lengthOf(value); ok && n < r.Len {
				return r.Code(), nil
			}
		case MaxStrLen:
			if n, ok := lengthOf(value); ok && n > r.Len {
				return r.Code(), nil
			}
		case MinNumberLen:
			if n, ok := numberOf(value); ok && n < r.Value {
				return r.Code(), nil
			}
		case MaxNumberLen:
			if n, ok := numberOf(value); ok && n > r.Value {
				return r.Code(), nil
			}
		case Required:
			if !isNumber(value) && !truthy(value) {
				return r.Code(), nil
			}
		case EmailRegex:
			if !emailPattern.MatchString(stringOf(value)) {
				return r.Code(), nil
			}
		case StrRegex:
			if r.Pattern == nil {
				return 0, fmt.Errorf("validation: rule %d: pattern rule has no compiled pattern", idx)
			}
			if !r.Pattern.MatchString(stringOf(value)) {
				return r.Code(), nil
			}
		case ValidateFn:
			if r.Fn == nil {
				return 0, fmt.Errorf("validation: rule %d: custom rule has no function", idx)
			}
			if code := r.Fn(value); code != 0 {
				return code, nil
			}
		default:
			return 0, fmt.Errorf("validation: rule %d: %w: %T", idx, ErrUnknownRule, rule)
		}
	}
	return CodeNone, nil
}

// MustEvaluate is Evaluate for rule lists already accepted by Check. It
// panics on the errors Check would have reported.
func MustEvaluate(rules []Rule, value any) int {
	code, err := Evaluate(rules, value)
	if err != nil {
		panic(err)
	}
	return code
}
