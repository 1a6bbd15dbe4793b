// Package schema synthesizes the JSON-Schema object that describes a configuration's fields.
package schema

import (
	"sort"

	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/fields"
)

const (
	TypeObject  = "object"
	TypeString  = "string"
	TypeNumber  = "number"
	TypeBoolean = "boolean"
)

// Property is one field's fragment inside Schema.Properties.
type Property struct {
	Type      string   `json:"type"`
	Title     string   `json:"title,omitempty"`
	Enum      []string `json:"enum,omitempty"`
	Minimum   *float64 `json:"minimum,omitempty"`
	Maximum   *float64 `json:"maximum,omitempty"`
	MaxLength *int     `json:"maxLength,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
	// Format is never synthesized. It is read when inferring the kind of externally authored fields.
	Format string `json:"format,omitempty"`
}

// Schema is the aggregate object schema. Required is a set kept sorted, and nil when empty.
type Schema struct {
	Type       string              `json:"type"`
	Title      string              `json:"title,omitempty"`
	Properties map[string]Property `json:"properties"`
	Required   []string            `json:"required,omitempty"`
}

func New() Schema {
	return Schema{Type: TypeObject, Properties: map[string]Property{}}
}

// TypeFor maps a kind to its schema type.
func TypeFor(kind fields.Kind) string {
	switch kind {
	case fields.KindNumber, fields.KindRange:
		return TypeNumber
	case fields.KindCheckbox:
		return TypeBoolean
	case fields.KindText, fields.KindPassword, fields.KindSelect, fields.KindRadio,
		fields.KindTextarea, fields.KindEmail, fields.KindSearch, fields.KindTel, fields.KindURL,
		fields.KindTime, fields.KindDatetimeLocal, fields.KindWeek, fields.KindMonth, fields.KindDate:
		return TypeString
	}
	return TypeString
}

// Fragment builds the property for a descriptor. Constraints that do not apply to the kind are dropped.
func Fragment(d fields.Descriptor) Property {
	d = d.Normalize()
	p := Property{
		Type:  TypeFor(d.Kind),
		Title: ectolinq.Ternary(d.Label != "", d.Label, d.Name),
	}

	if d.Kind.HasOptions() {
		p.Enum = fields.ParseOptions(d.Options)
	}
	if d.Kind.IsNumeric() {
		p.Minimum = copyPtr(d.Min)
		p.Maximum = copyPtr(d.Max)
	}
	if d.Kind.IsTextLike() {
		p.MaxLength = copyPtr(d.MaxLength)
		p.Pattern = d.Pattern
	}
	return p
}

// AddOrUpdateField returns a copy of s with d merged in. When previousName names a different
// field, that key is removed from properties and required before d is inserted.
func (s Schema) AddOrUpdateField(d fields.Descriptor, previousName string) (Schema, error) {
	if err := d.Validate(); err != nil {
		return s, err
	}
	d = d.Normalize()

	out := s.Clone()
	if previousName != "" && previousName != d.Name {
		delete(out.Properties, previousName)
		out.Required = removeName(out.Required, previousName)
	}

	out.Properties[d.Name] = Fragment(d)
	if d.Required {
		out.Required = addName(out.Required, d.Name)
	} else {
		out.Required = removeName(out.Required, d.Name)
	}
	return out, nil
}

// RemoveField returns a copy of s without name.
func (s Schema) RemoveField(name string) Schema {
	out := s.Clone()
	delete(out.Properties, name)
	out.Required = removeName(out.Required, name)
	return out
}

func (s Schema) Has(name string) bool {
	_, ok := s.Properties[name]
	return ok
}

func (s Schema) IsRequired(name string) bool {
	return ectolinq.Contains(s.Required, name)
}

// Names returns the property keys sorted.
func (s Schema) Names() []string {
	names := make([]string, 0, len(s.Properties))
	for name := range s.Properties {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Normalize repairs a schema read from outside the synthesizer: the object type is set,
// properties are non-nil, and required is deduplicated, sorted, and limited to known properties.
func (s Schema) Normalize() Schema {
	out := s.Clone()
	out.Type = TypeObject
	required := out.Required
	out.Required = nil
	for _, name := range required {
		if out.Has(name) {
			out.Required = addName(out.Required, name)
		}
	}
	return out
}

func (s Schema) Clone() Schema {
	out := Schema{
		Type:       ectolinq.Ternary(s.Type == "", TypeObject, s.Type),
		Title:      s.Title,
		Properties: make(map[string]Property, len(s.Properties)),
	}
	for name, p := range s.Properties {
		out.Properties[name] = p.clone()
	}
	if len(s.Required) > 0 {
		out.Required = append([]string(nil), s.Required...)
	}
	return out
}

func (p Property) clone() Property {
	out := p
	if p.Enum != nil {
		out.Enum = append([]string(nil), p.Enum...)
	}
	out.Minimum = copyPtr(p.Minimum)
	out.Maximum = copyPtr(p.Maximum)
	out.MaxLength = copyPtr(p.MaxLength)
	return out
}

func addName(set []string, name string) []string {
	if ectolinq.Contains(set, name) {
		return set
	}
	out := append(append([]string(nil), set...), name)
	sort.Strings(out)
	return out
}

func removeName(set []string, name string) []string {
	out := ectolinq.Filter(set, func(n string) bool { return n != name })
	if len(out) == 0 {
		return nil
	}
	return out
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
