package form

import "github.com/goliatone/go-formstate/pkg/validation"

// ValuesEqual returns a cross-field validator reporting
// validation.CodeValuesNotSame unless every named field holds the same value.
// When cmp is set each record is compared against the first with it instead.
//
// Fewer than two names, or a name the form does not have, is a configuration
// mistake: the validator logs a warning and passes.
func ValuesEqual(names []string, cmp func(a, b FieldRecord) bool) Validator {
	fields := append([]string(nil), names...)
	return func(f *Form) int {
		switch len(fields) {
		case 0:
			f.Logger().Warn("form: no fields to compare in ValuesEqual")
			return 0
		case 1:
			f.Logger().Warn("form: ValuesEqual needs at least two fields", "field", fields[0])
			return 0
		}

		records := make([]FieldRecord, 0, len(fields))
		for _, name := range fields {
			rec, ok := f.Record(name)
			if !ok {
				f.Logger().Warn("form: ValuesEqual references an unknown field", "field", name)
				return 0
			}
			records = append(records, rec)
		}

		first := records[0]
		for _, rec := range records[1:] {
			same := false
			if cmp != nil {
				same = cmp(rec, first)
			} else {
				same = Equal(rec.Value, first.Value)
			}
			if !same {
				return validation.CodeValuesNotSame
			}
		}
		return 0
	}
}
