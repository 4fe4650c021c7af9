// Package field implements the atomic field descriptors used by record
// schemas: each Field coerces one raw input value into its typed
// representation and runs an ordered validation chain against it.
//
// A Field is assembled from a coerce function and a list of checks where the
// kind's own base check comes first, followed by any constraints the kind
// constructor adds, followed by user-supplied validators. Custom kinds are
// built by deriving from an existing kind and layering extra base checks:
//
//	func ID() *field.Field {
//		return field.Str().Derive("id", checkIDFormat)
//	}
package field

import (
	"github.com/firepack/firepack/core/errs"
)

// Validator rejects a coerced value. name is the fully qualified field path
// used in error messages. Implementations return *errs.ValidationError.
type Validator func(name string, value any) error

// CoerceFunc converts a raw input value into the field's typed
// representation, or rejects it when the shape or type is wrong.
type CoerceFunc func(name string, raw any) (any, error)

// Field is a reusable, immutable-once-declared descriptor for one schema
// attribute. Fields are shared read-only metadata: configure them at
// construction time and never mutate them afterwards.
type Field struct {
	kind     string
	required bool
	def      any
	hasDef   bool
	internal bool
	coerce   CoerceFunc
	base     []Validator
	checks   []Validator
}

// New creates a field of the given kind. base checks always run, in order,
// before any user-supplied validators. Fields are required by default.
func New(kind string, coerce CoerceFunc, base ...Validator) *Field {
	return &Field{
		kind:     kind,
		required: true,
		coerce:   coerce,
		base:     base,
	}
}

// Derive creates a new field kind from f: it keeps f's coercion and base
// checks and appends extra ones after them. The derived field starts with
// default configuration (required, no default value).
func (f *Field) Derive(kind string, extra ...Validator) *Field {
	base := make([]Validator, 0, len(f.base)+len(extra))
	base = append(base, f.base...)
	base = append(base, extra...)
	return New(kind, f.coerce, base...)
}

// Kind returns the field's kind name, e.g. "int" or "list".
func (f *Field) Kind() string { return f.kind }

// Optional marks the field as not required: absent input leaves the
// attribute unset instead of failing validation.
func (f *Field) Optional() *Field {
	f.required = false
	return f
}

// Default configures a fallback used when input is absent. The default runs
// through the same coercion and validation chain as an explicit value.
func (f *Field) Default(v any) *Field {
	f.def = v
	f.hasDef = true
	return f
}

// Check appends user-supplied validators. They run in declaration order
// after the kind's base checks; the first failure ends the field's chain.
func (f *Field) Check(vs ...Validator) *Field {
	f.checks = append(f.checks, vs...)
	return f
}

// Internal marks the field as never exported by ToDict/ToJSON.
func (f *Field) Internal() *Field {
	f.internal = true
	return f
}

// IsRequired reports whether absent input is a validation failure.
func (f *Field) IsRequired() bool { return f.required }

// IsInternal reports whether the field is excluded from export.
func (f *Field) IsInternal() bool { return f.internal }

// DefaultValue returns the configured default, if any.
func (f *Field) DefaultValue() (any, bool) { return f.def, f.hasDef }

// Process runs the full chain for one raw value: presence check and default
// substitution, coercion, base checks, then user validators. It returns the
// coerced value and whether the attribute should be set; set is false with a
// nil error only for an absent optional value.
//
// A nil raw value is treated as absent.
func (f *Field) Process(name string, raw any, present bool) (value any, set bool, err error) {
	if !present || raw == nil {
		switch {
		case f.hasDef:
			raw = f.def
		case f.required:
			return nil, false, errs.NewValidation(name, "field is required")
		default:
			return nil, false, nil
		}
	}

	v := raw
	if f.coerce != nil {
		cv, err := f.coerce(name, v)
		if err != nil {
			return nil, false, err
		}
		v = cv
	}

	for _, check := range f.base {
		if err := check(name, v); err != nil {
			return nil, false, err
		}
	}
	for _, check := range f.checks {
		if err := check(name, v); err != nil {
			return nil, false, err
		}
	}
	return v, true, nil
}
