package record

import (
	"github.com/firepack/firepack/core/field"

	"github.com/firepack/firepack/core/errs"
)

// Nested returns a field descriptor for a record-typed attribute. Raw input
// may be a sub-mapping, which is recursively populated into a fresh Record,
// or an existing *Record of the same schema, which is validated and bound
// as-is.
//
// Binding an existing record transfers ownership to the containing record;
// the engine does not deep-copy, so assigning one record into two parents
// creates shared state and is a contract violation on the caller's side.
func Nested(s *Schema) *field.Field {
	return field.New("record:"+s.name, func(name string, raw any) (any, error) {
		switch v := raw.(type) {
		case *Record:
			if v.schema != s {
				return nil, errs.NewValidation(name, "must be a %q record, got %q", s.name, v.schema.name)
			}
			if err := v.Validate(); err != nil {
				return nil, qualified(name, err)
			}
			return v, nil
		case map[string]any:
			rec := New(s)
			if err := rec.Populate(v); err != nil {
				return nil, qualified(name, err)
			}
			return rec, nil
		default:
			return nil, errs.NewValidation(name, "must be a mapping or a %q record", s.name)
		}
	})
}

// qualified prefixes every field path in err with the nested field's name.
func qualified(name string, err error) error {
	agg := &errs.MultiValidationError{}
	agg.Append(name, err)
	return agg
}
