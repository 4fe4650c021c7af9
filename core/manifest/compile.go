package manifest

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/firepack/firepack/core/field"
	"github.com/firepack/firepack/core/record"
)

// Compile turns definitions into record schemas, resolving nested record
// references between them. Definitions may reference each other in any
// order; cycles and unresolved references are errors.
func Compile(defs []Definition) (map[string]*record.Schema, error) {
	byName := make(map[string]Definition, len(defs))
	for _, def := range defs {
		if err := Validate(def); err != nil {
			return nil, err
		}
		if _, dup := byName[def.Record]; dup {
			return nil, fmt.Errorf("record %q defined twice", def.Record)
		}
		byName[def.Record] = def
	}

	schemas := make(map[string]*record.Schema, len(defs))
	pending := len(defs)
	for pending > 0 {
		progressed := false
		for name, def := range byName {
			if _, done := schemas[name]; done {
				continue
			}
			if !refsResolved(def, schemas, byName) {
				continue
			}
			s, err := compileOne(def, schemas)
			if err != nil {
				return nil, err
			}
			schemas[name] = s
			pending--
			progressed = true
		}
		if !progressed {
			var stuck []string
			for name := range byName {
				if _, done := schemas[name]; !done {
					stuck = append(stuck, name)
				}
			}
			sort.Strings(stuck)
			return nil, fmt.Errorf("unresolved or cyclic record references: %v", stuck)
		}
	}
	return schemas, nil
}

// refsResolved reports whether every record reference in def either has a
// compiled schema already or is unknown (compileOne reports unknowns with a
// precise error).
func refsResolved(def Definition, schemas map[string]*record.Schema, byName map[string]Definition) bool {
	var check func(spec FieldSpec) bool
	check = func(spec FieldSpec) bool {
		switch spec.Type {
		case "record":
			if _, compiled := schemas[spec.Record]; compiled {
				return true
			}
			_, defined := byName[spec.Record]
			return !defined
		case "list":
			return check(*spec.Elem)
		}
		return true
	}
	for _, fd := range def.Fields {
		if !check(fd.Spec) {
			return false
		}
	}
	return true
}

func compileOne(def Definition, schemas map[string]*record.Schema) (*record.Schema, error) {
	decls := make([]record.Decl, 0, len(def.Fields))
	for _, fd := range def.Fields {
		f, err := buildField(fd.Spec, schemas)
		if err != nil {
			return nil, fmt.Errorf("record %q: field %q: %w", def.Record, fd.Name, err)
		}
		decls = append(decls, record.F(fd.Name, f))
	}
	return record.NewSchema(def.Record, decls...)
}

func buildField(spec FieldSpec, schemas map[string]*record.Schema) (*field.Field, error) {
	var f *field.Field
	switch spec.Type {
	case "bool":
		f = field.Bool()
	case "int":
		f = field.Int()
	case "float":
		f = field.Float()
	case "string":
		f = field.Str()
	case "char":
		f = field.Char()
	case "email":
		f = field.Email()
	case "url":
		f = field.URL()
	case "uuid":
		f = field.UUID()
	case "enum":
		f = field.Enum(spec.Values...)
	case "date":
		f = field.Date()
	case "datetime":
		f = field.DateTime()
	case "map":
		f = field.Map()
	case "secret":
		f = field.Secret()
	case "any":
		f = field.Any()
	case "list":
		elem, err := buildField(*spec.Elem, schemas)
		if err != nil {
			return nil, err
		}
		f = field.List(elem)
	case "record":
		s, ok := schemas[spec.Record]
		if !ok {
			return nil, fmt.Errorf("unknown record reference %q", spec.Record)
		}
		f = record.Nested(s)
	default:
		return nil, fmt.Errorf("unknown field type %q", spec.Type)
	}

	if spec.Min != nil {
		f.Check(field.Min(*spec.Min))
	}
	if spec.Max != nil {
		f.Check(field.Max(*spec.Max))
	}
	if spec.MinLen != nil {
		f.Check(field.MinLen(*spec.MinLen))
	}
	if spec.MaxLen != nil {
		f.Check(field.MaxLen(*spec.MaxLen))
	}
	if spec.Pattern != "" {
		re, err := regexp.Compile(spec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid pattern: %w", err)
		}
		f.Check(field.Match(re))
	}
	if spec.Required != nil && !*spec.Required {
		f.Optional()
	}
	if spec.Default != nil {
		f.Default(spec.Default)
	}
	if spec.Internal {
		f.Internal()
	}
	return f, nil
}
