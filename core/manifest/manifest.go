// Package manifest loads declarative record definitions from YAML and
// compiles them into record schemas.
//
// A minimal definition:
//
//	record: user
//	fields:
//	  email:    { type: email }
//	  name:     { type: string, min_length: 1, max_length: 80 }
//	  age:      { type: int, min: 0, required: false }
//	  status:   { type: enum, values: [pending, active], default: pending }
//	  password: { type: secret }
//	  tags:     { type: list, required: false, elem: { type: string } }
//	  address:  { type: record, record: address }
//
// Field order in the document is preserved: it becomes the schema's
// declaration order and therefore the validation and error ordering.
package manifest

import (
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Definition is one record declared in YAML.
type Definition struct {
	Record string
	Fields []FieldDef
}

// FieldDef binds a field name to its specification, preserving document
// order.
type FieldDef struct {
	Name string
	Spec FieldSpec
}

// FieldSpec describes one field. Which keys apply depends on the type.
type FieldSpec struct {
	Type     string     `yaml:"type"`
	Required *bool      `yaml:"required"`
	Default  any        `yaml:"default"`
	Internal bool       `yaml:"internal"`
	Values   []string   `yaml:"values"`
	Min      *float64   `yaml:"min"`
	Max      *float64   `yaml:"max"`
	MinLen   *int       `yaml:"min_length"`
	MaxLen   *int       `yaml:"max_length"`
	Pattern  string     `yaml:"pattern"`
	Elem     *FieldSpec `yaml:"elem"`
	Record   string     `yaml:"record"`
}

// UnmarshalYAML decodes a definition, walking the fields mapping node
// directly so document order survives.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	var raw struct {
		Record string    `yaml:"record"`
		Fields yaml.Node `yaml:"fields"`
	}
	if err := node.Decode(&raw); err != nil {
		return err
	}
	d.Record = raw.Record

	if raw.Fields.Kind == 0 || raw.Fields.Tag == "!!null" {
		return nil
	}
	if raw.Fields.Kind != yaml.MappingNode {
		return fmt.Errorf("record %q: fields must be a mapping", d.Record)
	}
	for i := 0; i+1 < len(raw.Fields.Content); i += 2 {
		var name string
		if err := raw.Fields.Content[i].Decode(&name); err != nil {
			return err
		}
		var spec FieldSpec
		if err := raw.Fields.Content[i+1].Decode(&spec); err != nil {
			return fmt.Errorf("record %q: field %q: %w", d.Record, name, err)
		}
		d.Fields = append(d.Fields, FieldDef{Name: name, Spec: spec})
	}
	return nil
}

var identRe = regexp.MustCompile(`^[a-z][a-z0-9_]*$`)

// Validate checks a definition's structural rules before compilation.
func Validate(def Definition) error {
	if def.Record == "" {
		return fmt.Errorf("record name is required")
	}
	if !identRe.MatchString(def.Record) {
		return fmt.Errorf("record name %q is not a valid identifier", def.Record)
	}
	for _, fd := range def.Fields {
		if !identRe.MatchString(fd.Name) {
			return fmt.Errorf("record %q: field name %q is not a valid identifier", def.Record, fd.Name)
		}
		if err := validateSpec(fd.Spec); err != nil {
			return fmt.Errorf("record %q: field %q: %w", def.Record, fd.Name, err)
		}
	}
	return nil
}

func validateSpec(spec FieldSpec) error {
	switch spec.Type {
	case "":
		return fmt.Errorf("type is required")
	case "enum":
		if len(spec.Values) == 0 {
			return fmt.Errorf("enum type requires values")
		}
	case "list":
		if spec.Elem == nil {
			return fmt.Errorf("list type requires elem")
		}
		return validateSpec(*spec.Elem)
	case "record":
		if spec.Record == "" {
			return fmt.Errorf("record type requires a record reference")
		}
	}
	if spec.Pattern != "" {
		if _, err := regexp.Compile(spec.Pattern); err != nil {
			return fmt.Errorf("invalid pattern: %w", err)
		}
	}
	return nil
}
