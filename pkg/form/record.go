package form

import (
	"math"
	"reflect"
)

// FieldRecord is the full state of one field. Records are values: mutate a
// copy and write it back to the field cell.
type FieldRecord struct {
	// Version increases on every mutation so observers can tell a record
	// apart from an older one carrying the same value.
	Version int `json:"version"`
	// Name is the stable field identifier.
	Name  string `json:"name"`
	Value any    `json:"value"`
	// StartValue is the value at creation or last reset.
	StartValue any  `json:"startValue"`
	IsChanged  bool `json:"isChanged"`
	IsTouched  bool `json:"isTouched"`
	IsDisabled bool `json:"isDisabled"`
	// Error is zero when valid, otherwise the code of the failing rule.
	Error int `json:"error"`
}

// Status is the aggregate state of a form.
type Status struct {
	GlobalError int  `json:"globalError"`
	IsChanged   bool `json:"isChanged"`
	IsTouched   bool `json:"isTouched"`
	// IsValid is IsChanged && GlobalError == 0. A form nobody changed is
	// never valid.
	IsValid     bool `json:"isValid"`
	IsSubmitted bool `json:"isSubmitted"`
	Submissions int  `json:"submissions"`
}

// ResetInput restores rec to its start value and clears every flag, the
// error, and the version.
func ResetInput(rec *FieldRecord) {
	rec.Error = 0
	rec.Version = 0
	rec.Value = rec.StartValue
	rec.IsChanged = false
	rec.IsTouched = false
	rec.IsDisabled = false
}

// ResetStatus clears the submission and validity flags. IsTouched and the
// submission count are kept.
func ResetStatus(status *Status) {
	status.IsSubmitted = false
	status.GlobalError = 0
	status.IsValid = false
	status.IsChanged = false
}

// Normalize maps nil-like values (untyped nil, nil pointers, maps, slices,
// funcs, channels and interfaces) to untyped nil, the absent marker.
func Normalize(value any) any {
	if value == nil {
		return nil
	}
	rv := reflect.ValueOf(value)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		if rv.IsNil() {
			return nil
		}
	}
	return value
}

// Equal compares field values. Numbers compare by value whatever their Go
// type, so int 5 equals float64 5. Other comparable values use ==, anything
// else (slices, maps, structs holding them) falls back to reflect.DeepEqual.
func Equal(a, b any) bool {
	a, b = Normalize(a), Normalize(b)
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if eq, ok := numericEqual(reflect.ValueOf(a), reflect.ValueOf(b)); ok {
		return eq
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb {
		return false
	}
	if ta.Comparable() && comparableValue(reflect.ValueOf(a)) {
		return a == b
	}
	return reflect.DeepEqual(a, b)
}

// comparableValue guards against structs and arrays whose type is comparable
// but that hold interface values with incomparable dynamic types.
func comparableValue(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Interface:
		if rv.IsNil() {
			return true
		}
		return rv.Elem().Type().Comparable() && comparableValue(rv.Elem())
	case reflect.Struct:
		for i := 0; i < rv.NumField(); i++ {
			if !comparableValue(rv.Field(i)) {
				return false
			}
		}
	case reflect.Array:
		for i := 0; i < rv.Len(); i++ {
			if !comparableValue(rv.Index(i)) {
				return false
			}
		}
	}
	return true
}

type numberClass int

const (
	notNumber numberClass = iota
	signedNumber
	unsignedNumber
	floatNumber
)

func classify(rv reflect.Value) numberClass {
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return signedNumber
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return unsignedNumber
	case reflect.Float32, reflect.Float64:
		return floatNumber
	default:
		return notNumber
	}
}

// numericEqual compares two numbers exactly. ok is false unless both values
// are numbers.
func numericEqual(a, b reflect.Value) (eq, ok bool) {
	ca, cb := classify(a), classify(b)
	if ca == notNumber || cb == notNumber {
		return false, false
	}
	if ca > cb {
		a, b, ca, cb = b, a, cb, ca
	}
	switch {
	case ca == signedNumber && cb == signedNumber:
		return a.Int() == b.Int(), true
	case ca == unsignedNumber && cb == unsignedNumber:
		return a.Uint() == b.Uint(), true
	case ca == signedNumber && cb == unsignedNumber:
		return a.Int() >= 0 && uint64(a.Int()) == b.Uint(), true
	case ca == floatNumber:
		return a.Float() == b.Float(), true
	case ca == signedNumber:
		return floatEqualsInt(b.Float(), a.Int()), true
	default:
		return floatEqualsUint(b.Float(), a.Uint()), true
	}
}

// 2^63 and 2^64 are exact in float64, so the range checks below leave the
// integer conversions in range.
const (
	twoTo63 = float64(1 << 63)
	twoTo64 = twoTo63 * 2
)

func floatEqualsInt(f float64, i int64) bool {
	if f != math.Trunc(f) || f < -twoTo63 || f >= twoTo63 {
		return false
	}
	return int64(f) == i
}

func floatEqualsUint(f float64, u uint64) bool {
	if f != math.Trunc(f) || f < 0 || f >= twoTo64 {
		return false
	}
	return uint64(f) == u
}
