// Package aggregate applies field edits to a configuration's schema, ui hints and form data together.
package aggregate

import (
	"strings"

	"github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/Ramsey-B/fern/pkg/formdata"
	"github.com/Ramsey-B/fern/pkg/schema"
	"github.com/Ramsey-B/fern/pkg/uihints"
)

// Aggregate is the full editable state of one configuration. Every edit returns a new value.
type Aggregate struct {
	Schema   schema.Schema `json:"schema"`
	UIHints  uihints.Hints `json:"ui_schema"`
	FormData formdata.Data `json:"form_data"`
}

// New returns the aggregate of a configuration with no fields.
func New() Aggregate {
	return Aggregate{
		Schema:   schema.New(),
		UIHints:  uihints.Hints{},
		FormData: formdata.Data{},
	}
}

// Normalize repairs an aggregate received from a client before it is stored.
func (a Aggregate) Normalize() Aggregate {
	return Aggregate{
		Schema:   a.Schema.Normalize(),
		UIHints:  a.UIHints.Clone(),
		FormData: a.FormData.Clone(),
	}
}

func (a Aggregate) Clone() Aggregate {
	return Aggregate{
		Schema:   a.Schema.Clone(),
		UIHints:  a.UIHints.Clone(),
		FormData: a.FormData.Clone(),
	}
}

func (a Aggregate) Has(name string) bool {
	return a.Schema.Has(name)
}

// AddField inserts a new field. The default value is assigned only when no value is stored under the name.
func (a Aggregate) AddField(d fields.Descriptor) (Aggregate, error) {
	if err := d.Validate(); err != nil {
		return a, err
	}
	d = d.Normalize()
	if a.Has(d.Name) {
		return a, errors.NewValidationError(d.Name, "field already exists")
	}

	s, err := a.Schema.AddOrUpdateField(d, "")
	if err != nil {
		return a, err
	}
	data := a.FormData.Clone()
	if _, ok := data[d.Name]; !ok {
		data[d.Name] = formdata.DefaultValue(d.Kind, d.Options)
	}

	return Aggregate{
		Schema:   s,
		UIHints:  a.UIHints.Set(d.Name, d.Kind, ""),
		FormData: data,
	}, nil
}

// UpdateField replaces the field stored as previousName with d. A rename moves the stored
// value to the new key before deciding whether it still fits the new kind.
func (a Aggregate) UpdateField(previousName string, d fields.Descriptor) (Aggregate, error) {
	previousName = strings.TrimSpace(previousName)
	if !a.Has(previousName) {
		return a, errors.NewLookupError(previousName, "field does not exist")
	}
	if err := d.Validate(); err != nil {
		return a, err
	}
	d = d.Normalize()
	if d.Name != previousName && a.Has(d.Name) {
		return a, errors.NewValidationError(d.Name, "field already exists")
	}

	s, err := a.Schema.AddOrUpdateField(d, previousName)
	if err != nil {
		return a, err
	}
	data := a.FormData.Clone()
	previous := data[previousName]
	delete(data, previousName)
	data[d.Name] = formdata.Reconcile(d.Kind, d.Options, previous)

	return Aggregate{
		Schema:   s,
		UIHints:  a.UIHints.Set(d.Name, d.Kind, previousName),
		FormData: data,
	}, nil
}

// DeleteField removes name from the schema, the hints and the form data.
func (a Aggregate) DeleteField(name string) (Aggregate, error) {
	name = strings.TrimSpace(name)
	if !a.Has(name) {
		return a, errors.NewLookupError(name, "field does not exist")
	}

	data := a.FormData.Clone()
	delete(data, name)
	return Aggregate{
		Schema:   a.Schema.RemoveField(name),
		UIHints:  a.UIHints.Remove(name),
		FormData: data,
	}, nil
}
