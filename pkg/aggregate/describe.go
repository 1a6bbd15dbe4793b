package aggregate

import (
	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/Ramsey-B/fern/pkg/uihints"
)

// Field loads one stored field back into an editable descriptor.
func (a Aggregate) Field(name string) (fields.Descriptor, bool) {
	p, ok := a.Schema.Properties[name]
	if !ok {
		return fields.Descriptor{}, false
	}

	kind := uihints.InferKind(p, a.UIHints.Get(name))
	d := fields.Descriptor{
		Name:     name,
		Kind:     kind,
		Required: a.Schema.IsRequired(name),
	}
	if p.Title != name {
		d.Label = p.Title
	}
	if kind.HasOptions() {
		d.Options = fields.JoinOptions(p.Enum)
	}
	if kind.IsNumeric() {
		d.Min, d.Max = p.Minimum, p.Maximum
	}
	if kind.IsTextLike() {
		d.MaxLength, d.Pattern = p.MaxLength, p.Pattern
	}
	return d, true
}

// Describe returns every field as a descriptor, sorted by name.
func (a Aggregate) Describe() []fields.Descriptor {
	names := a.Schema.Names()
	out := make([]fields.Descriptor, 0, len(names))
	for _, name := range names {
		d, _ := a.Field(name)
		out = append(out, d)
	}
	return out
}
