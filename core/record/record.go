// Package record provides declared, named schemas of fields and the data
// objects realized against them.
//
// A Schema is built once and shared as read-only metadata; each Record holds
// its own write-once storage of coerced values, looked up against the schema
// by name. Populate validates a whole mapping in one pass, collecting every
// field failure into a single aggregate before binding anything.
package record

import (
	"fmt"
	"sort"
	"time"

	"github.com/firepack/firepack/core/errs"
	"github.com/firepack/firepack/core/field"
)

// Decl binds an attribute name to its field descriptor.
type Decl struct {
	Name  string
	Field *field.Field
}

// F is shorthand for building a Decl.
func F(name string, f *field.Field) Decl {
	return Decl{Name: name, Field: f}
}

// Schema is a named, ordered collection of field declarations. It is fixed
// at construction time and safe for unsynchronized concurrent reads.
type Schema struct {
	name  string
	decls []Decl
	index map[string]int
}

// NewSchema builds a schema from declarations. Declaration order is
// significant: it fixes validation and error ordering.
func NewSchema(name string, decls ...Decl) (*Schema, error) {
	if name == "" {
		return nil, fmt.Errorf("schema name is required")
	}
	s := &Schema{name: name, decls: decls, index: make(map[string]int, len(decls))}
	for i, d := range decls {
		if d.Name == "" {
			return nil, fmt.Errorf("schema %q: field %d has no name", name, i)
		}
		if d.Field == nil {
			return nil, fmt.Errorf("schema %q: field %q has no descriptor", name, d.Name)
		}
		if _, dup := s.index[d.Name]; dup {
			return nil, fmt.Errorf("schema %q: field %q declared twice", name, d.Name)
		}
		s.index[d.Name] = i
	}
	return s, nil
}

// MustSchema is NewSchema that panics on error, for package-level schema
// variables.
func MustSchema(name string, decls ...Decl) *Schema {
	s, err := NewSchema(name, decls...)
	if err != nil {
		panic(err)
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// Fields returns the declarations in declaration order.
func (s *Schema) Fields() []Decl {
	out := make([]Decl, len(s.decls))
	copy(out, s.decls)
	return out
}

// Field looks up a declaration by name.
func (s *Schema) Field(name string) (*field.Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return nil, false
	}
	return s.decls[i].Field, true
}

// Len returns the number of declared fields.
func (s *Schema) Len() int { return len(s.decls) }

// Record is one data object instance: write-once storage of realized field
// values against a shared schema. A Record is not safe for concurrent
// mutation; one instance, one populate call, one goroutine.
type Record struct {
	schema *Schema
	values map[string]any
	sealed bool
}

// New creates an empty record for the schema.
func New(schema *Schema) *Record {
	return &Record{schema: schema, values: make(map[string]any, schema.Len())}
}

// Schema returns the record's schema.
func (r *Record) Schema() *Schema { return r.schema }

// Option configures Populate behavior.
type Option func(*options)

type options struct {
	allowUnknown bool
}

// AllowUnknown disables rejection of input keys that match no declared
// field.
func AllowUnknown() Option {
	return func(o *options) { o.allowUnknown = true }
}

// Populate validates the whole mapping in one pass and, on success, binds
// every coerced value. All declared fields are evaluated even after a
// failure; the collected failures surface once as a *MultiValidationError
// in declaration order (unknown-key errors first, sorted by key). A record
// populates successfully at most once; later attempts fail with a
// *ModificationError.
func (r *Record) Populate(input map[string]any, opts ...Option) error {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if r.sealed {
		return &errs.ModificationError{Field: r.schema.name}
	}

	agg := &errs.MultiValidationError{}

	if !o.allowUnknown {
		var unknown []string
		for key := range input {
			if _, ok := r.schema.index[key]; !ok {
				unknown = append(unknown, key)
			}
		}
		sort.Strings(unknown)
		for _, key := range unknown {
			agg.Append("", errs.NewValidation(key, "unknown field, not declared in schema %q", r.schema.name))
		}
	}

	staged := make(map[string]any, len(input))
	for _, d := range r.schema.decls {
		raw, present := input[d.Name]
		if _, exists := r.values[d.Name]; exists {
			if present {
				return &errs.ModificationError{Field: d.Name}
			}
			// Already bound via Set; not in the input, nothing to do.
			continue
		}
		v, set, err := d.Field.Process(d.Name, raw, present)
		if err != nil {
			agg.Append("", err)
			continue
		}
		if set {
			staged[d.Name] = v
		}
	}

	if err := agg.Err(); err != nil {
		return err
	}

	for name, v := range staged {
		r.values[name] = v
	}
	r.sealed = true
	return nil
}

// Set validates and binds a single field value. The write-once rule applies:
// setting an already-set field fails with a *ModificationError regardless of
// the new value's validity.
func (r *Record) Set(name string, value any) error {
	f, ok := r.schema.Field(name)
	if !ok {
		return errs.NewValidation(name, "unknown field, not declared in schema %q", r.schema.name)
	}
	if _, exists := r.values[name]; exists {
		return &errs.ModificationError{Field: name}
	}
	v, set, err := f.Process(name, value, value != nil)
	if err != nil {
		return err
	}
	if set {
		r.values[name] = v
	}
	return nil
}

// Validate checks that every required field is satisfied, materializing
// configured defaults for fields that are still unset. Useful for records
// assembled with Set; Populate performs the same pass itself. Failures
// aggregate into a *MultiValidationError in declaration order.
func (r *Record) Validate() error {
	agg := &errs.MultiValidationError{}
	for _, d := range r.schema.decls {
		if v, ok := r.values[d.Name]; ok {
			if nested, isRec := v.(*Record); isRec {
				if err := nested.Validate(); err != nil {
					agg.Append(d.Name, err)
				}
			}
			continue
		}
		v, set, err := d.Field.Process(d.Name, nil, false)
		if err != nil {
			agg.Append("", err)
			continue
		}
		if set {
			r.values[d.Name] = v
		}
	}
	return agg.Err()
}

// Get returns the realized value for a field, if set.
func (r *Record) Get(name string) (any, bool) {
	v, ok := r.values[name]
	return v, ok
}

// IsSet reports whether the field has a realized value.
func (r *Record) IsSet(name string) bool {
	_, ok := r.values[name]
	return ok
}

// Typed getters return the zero value when the field is unset or holds a
// different type.

func (r *Record) String(name string) string {
	v, _ := r.values[name].(string)
	return v
}

func (r *Record) Int(name string) int64 {
	v, _ := r.values[name].(int64)
	return v
}

func (r *Record) Float(name string) float64 {
	v, _ := r.values[name].(float64)
	return v
}

func (r *Record) Bool(name string) bool {
	v, _ := r.values[name].(bool)
	return v
}

func (r *Record) Time(name string) time.Time {
	v, _ := r.values[name].(time.Time)
	return v
}

func (r *Record) List(name string) []any {
	v, _ := r.values[name].([]any)
	return v
}

func (r *Record) Map(name string) map[string]any {
	v, _ := r.values[name].(map[string]any)
	return v
}

func (r *Record) Nested(name string) *Record {
	v, _ := r.values[name].(*Record)
	return v
}
