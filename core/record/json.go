package record

import (
	"encoding/json"
	"fmt"
)

// ToDict exports the record back to a plain mapping: declared fields only,
// unset optional fields omitted, internal fields omitted, nested records and
// list elements exported recursively. For a record populated from mapping m
// with no defaults triggered, the result equals m up to per-field coercion.
func (r *Record) ToDict() map[string]any {
	out := make(map[string]any, len(r.values))
	for _, d := range r.schema.decls {
		if d.Field.IsInternal() {
			continue
		}
		v, ok := r.values[d.Name]
		if !ok {
			continue
		}
		out[d.Name] = export(v)
	}
	return out
}

func export(v any) any {
	switch t := v.(type) {
	case *Record:
		return t.ToDict()
	case []any:
		out := make([]any, len(t))
		for i, e := range t {
			out[i] = export(e)
		}
		return out
	default:
		return v
	}
}

// ToJSON is a lossless text wrapper around ToDict.
func (r *Record) ToJSON() ([]byte, error) {
	data, err := json.Marshal(r.ToDict())
	if err != nil {
		return nil, fmt.Errorf("encode record %q: %w", r.schema.name, err)
	}
	return data, nil
}

// LoadJSON parses text into a mapping and populates the record from it.
func (r *Record) LoadJSON(data []byte, opts ...Option) error {
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return fmt.Errorf("decode record %q: %w", r.schema.name, err)
	}
	return r.Populate(m, opts...)
}

// FromDict creates a record and populates it from a mapping.
func FromDict(s *Schema, input map[string]any, opts ...Option) (*Record, error) {
	r := New(s)
	if err := r.Populate(input, opts...); err != nil {
		return nil, err
	}
	return r, nil
}

// FromJSON creates a record and populates it from JSON text.
func FromJSON(s *Schema, data []byte, opts ...Option) (*Record, error) {
	r := New(s)
	if err := r.LoadJSON(data, opts...); err != nil {
		return nil, err
	}
	return r, nil
}
