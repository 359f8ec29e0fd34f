package widgets

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-formstate/pkg/binding"
	"github.com/goliatone/go-formstate/pkg/form"
)

// Text displays string values. The display is nil while the field is absent
// so binding an empty field does not turn it into "".
type Text struct {
	// Trim removes surrounding whitespace before committing.
	Trim bool
	// Sanitize strips markup before committing.
	Sanitize bool
}

// ToDisplay implements binding.Adapter. The previous display is kept while it
// still converts to the field value, so trimming never rewrites what the user
// is typing.
func (t Text) ToDisplay(rec form.FieldRecord, prev any) any {
	if prev != nil && form.Equal(t.FromDisplay(prev), rec.Value) {
		return prev
	}
	switch v := rec.Value.(type) {
	case nil:
		return nil
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// FromDisplay implements binding.Adapter.
func (t Text) FromDisplay(display any) any {
	if display == nil {
		return nil
	}
	s, ok := display.(string)
	if !ok {
		s = fmt.Sprint(display)
	}
	if t.Sanitize {
		s = sanitizeText(s)
	}
	if t.Trim {
		s = strings.TrimSpace(s)
	}
	return s
}

// Number displays numbers as text and commits float64 values, or int values
// when Integer is set and the number is whole and fits an int. Blank input
// commits the absent marker. Input too large for float64 commits ±Inf so
// numeric bounds still reject it; other input that does not parse is
// committed as the raw string, which numeric bounds ignore and Required still
// counts as a value.
type Number struct {
	Integer bool
}

// ToDisplay implements binding.Adapter.
func (n Number) ToDisplay(rec form.FieldRecord, prev any) any {
	if prev != nil && form.Equal(n.FromDisplay(prev), rec.Value) {
		return prev
	}
	switch v := rec.Value.(type) {
	case nil:
		return nil
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprint(v)
	}
}

// FromDisplay implements binding.Adapter.
func (n Number) FromDisplay(display any) any {
	switch v := display.(type) {
	case nil:
		return nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return nil
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil && !errors.Is(err, strconv.ErrRange) {
			return v
		}
		return n.shape(f)
	case int:
		return n.shape(float64(v))
	case int64:
		return n.shape(float64(v))
	case float32:
		return n.shape(float64(v))
	case float64:
		return n.shape(v)
	default:
		return v
	}
}

// shape converts whole numbers to int when Integer is set and int can hold
// them exactly.
func (n Number) shape(f float64) any {
	if n.Integer && f == math.Trunc(f) && f >= minIntFloat && f < maxIntFloat {
		return int(f)
	}
	return f
}

// float64(math.MaxInt) rounds up to 2^63 on 64-bit platforms, hence the
// strict upper bound.
const (
	minIntFloat = float64(math.MinInt)
	maxIntFloat = float64(math.MaxInt)
)

// Checkbox displays a checked flag. Non-boolean field values show unchecked.
type Checkbox struct{}

// ToDisplay implements binding.Adapter.
func (Checkbox) ToDisplay(rec form.FieldRecord, _ bool) bool {
	checked, _ := rec.Value.(bool)
	return checked
}

// FromDisplay implements binding.Adapter.
func (Checkbox) FromDisplay(checked bool) any { return checked }

// Select displays the 1-based position of the field value in Options, with 0
// meaning nothing is selected.
type Select struct {
	Options []any
	// Label renders an option; defaults to fmt.Sprint.
	Label func(option any) string
	// Logger receives a warning when the field holds a value that is not an
	// option. Defaults to slog.Default().
	Logger *slog.Logger
}

// ToDisplay implements binding.Adapter.
func (s Select) ToDisplay(rec form.FieldRecord, _ int) int {
	if rec.Value == nil {
		return 0
	}
	if idx := s.Index(rec.Value); idx > 0 {
		return idx
	}
	s.logger().Warn("widgets: field value is not a select option",
		"field", rec.Name,
		"value", rec.Value,
	)
	return 0
}

// FromDisplay implements binding.Adapter. Positions outside the option list
// select nothing.
func (s Select) FromDisplay(idx int) any {
	if idx <= 0 || idx > len(s.Options) {
		return nil
	}
	return s.Options[idx-1]
}

// Index returns the 1-based position of value, or 0.
func (s Select) Index(value any) int {
	for idx, option := range s.Options {
		if form.Equal(option, value) {
			return idx + 1
		}
	}
	return 0
}

// Labels renders every option in order.
func (s Select) Labels() []string {
	labels := make([]string, len(s.Options))
	for idx, option := range s.Options {
		if s.Label != nil {
			labels[idx] = s.Label(option)
			continue
		}
		labels[idx] = fmt.Sprint(option)
	}
	return labels
}

func (s Select) logger() *slog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return slog.Default()
}

// Any erases the display type of an adapter so adapters of different shapes
// can be bound and stored together. Writing a display value of the wrong
// type is an adapter misuse and panics.
func Any[D any](adapter binding.Adapter[D]) binding.Adapter[any] {
	if erased, ok := any(adapter).(binding.Adapter[any]); ok {
		return erased
	}
	return erasedAdapter[D]{inner: adapter}
}

type erasedAdapter[D any] struct {
	inner binding.Adapter[D]
}

func (e erasedAdapter[D]) ToDisplay(rec form.FieldRecord, prev any) any {
	typed, _ := prev.(D)
	return e.inner.ToDisplay(rec, typed)
}

func (e erasedAdapter[D]) FromDisplay(display any) any {
	typed, ok := display.(D)
	if !ok {
		var zero D
		panic(fmt.Sprintf("widgets: display value %T is not %T", display, zero))
	}
	return e.inner.FromDisplay(typed)
}
