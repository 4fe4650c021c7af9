package field

import (
	"fmt"
	"reflect"

	"github.com/firepack/firepack/core/errs"
)

// List accepts an ordered sequence and applies elem to every element,
// producing a new []any of the same length. Element failures are recorded
// with positional context ("name[i]") and do not stop evaluation of the
// remaining elements; if any element fails, List fails with an aggregate
// covering all of them. Lists nest to arbitrary depth:
//
//	field.List(field.List(field.Char()))
func List(elem *Field) *Field {
	if elem == nil {
		panic("field: List requires an element field")
	}
	return New("list", func(name string, raw any) (any, error) {
		seq, ok := asSequence(raw)
		if !ok {
			return nil, errs.NewValidation(name, "must be a list")
		}

		out := make([]any, len(seq))
		agg := &errs.MultiValidationError{}
		for i, rv := range seq {
			v, set, err := elem.Process(fmt.Sprintf("[%d]", i), rv, true)
			if err != nil {
				agg.Append(name, err)
				continue
			}
			if set {
				out[i] = v
			}
		}
		if err := agg.Err(); err != nil {
			return nil, err
		}
		return out, nil
	})
}

// asSequence normalizes any slice or array into []any. Strings and byte
// slices are not sequences here.
func asSequence(raw any) ([]any, bool) {
	if seq, ok := raw.([]any); ok {
		return seq, true
	}
	switch raw.(type) {
	case string, []byte, nil:
		return nil, false
	}
	rv := reflect.ValueOf(raw)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false
	}
	out := make([]any, rv.Len())
	for i := range out {
		out[i] = rv.Index(i).Interface()
	}
	return out, true
}
