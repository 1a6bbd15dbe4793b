package schema

import (
	"testing"

	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildSchema(t *testing.T, descs ...fields.Descriptor) Schema {
	t.Helper()
	s := New()
	for _, d := range descs {
		var err error
		s, err = s.AddOrUpdateField(d, "")
		require.NoError(t, err)
	}
	return s
}

func TestValidator(t *testing.T) {
	s := buildSchema(t,
		fields.Descriptor{Name: "name", Kind: fields.KindText, Required: true, MaxLength: ptr(5)},
		fields.Descriptor{Name: "age", Kind: fields.KindNumber, Min: ptr(0.0), Max: ptr(120.0)},
		fields.Descriptor{Name: "color", Kind: fields.KindSelect, Options: "red,blue"},
		fields.Descriptor{Name: "agree", Kind: fields.KindCheckbox},
		fields.Descriptor{Name: "code", Kind: fields.KindText, Pattern: "^[A-Z]+$"},
	)
	v := NewValidator(s)

	t.Run("valid data", func(t *testing.T) {
		result := v.Validate(map[string]any{"name": "Ann", "age": 30.0, "color": "red", "agree": true, "code": "AB"})
		assert.True(t, result.Valid)
		assert.Empty(t, result.Errors)
	})

	tests := []struct {
		name  string
		data  map[string]any
		field string
	}{
		{name: "missing required", data: map[string]any{}, field: "name"},
		{name: "too long", data: map[string]any{"name": "Annabel"}, field: "name"},
		{name: "wrong type", data: map[string]any{"name": "A", "agree": "yes"}, field: "agree"},
		{name: "below minimum", data: map[string]any{"name": "A", "age": -1.0}, field: "age"},
		{name: "not in enum", data: map[string]any{"name": "A", "color": "green"}, field: "color"},
		{name: "pattern mismatch", data: map[string]any{"name": "A", "code": "ab"}, field: "code"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := v.Validate(tt.data)
			assert.False(t, result.Valid)
			require.Len(t, result.Errors, 1)
			assert.Equal(t, tt.field, result.Errors[0].Field)
		})
	}
}
