package aggregate

import (
	"testing"

	ferrors "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustAdd(t *testing.T, a Aggregate, d fields.Descriptor) Aggregate {
	t.Helper()
	out, err := a.AddField(d)
	require.NoError(t, err)
	return out
}

func TestAddField(t *testing.T) {
	t.Run("adds schema, hint and default together", func(t *testing.T) {
		a := mustAdd(t, New(), fields.Descriptor{Name: "bio", Kind: fields.KindTextarea, Required: true})

		assert.True(t, a.Schema.Has("bio"))
		assert.Equal(t, []string{"bio"}, a.Schema.Required)
		assert.Equal(t, "textarea", a.UIHints.Get("bio").Widget)
		assert.Equal(t, "", a.FormData["bio"])
	})

	t.Run("select default is the first option", func(t *testing.T) {
		a := mustAdd(t, New(), fields.Descriptor{Name: "color", Kind: fields.KindSelect, Options: "Red, Green, Blue"})
		assert.Equal(t, "Red", a.FormData["color"])
		assert.NotContains(t, a.UIHints, "color")
	})

	t.Run("existing data is kept", func(t *testing.T) {
		base := New()
		base.FormData["size"] = 12.0
		a := mustAdd(t, base, fields.Descriptor{Name: "size", Kind: fields.KindNumber})
		assert.Equal(t, 12.0, a.FormData["size"])
	})

	t.Run("duplicate name is a validation error", func(t *testing.T) {
		a := mustAdd(t, New(), fields.Descriptor{Name: "a", Kind: fields.KindText})
		out, err := a.AddField(fields.Descriptor{Name: " a ", Kind: fields.KindNumber})
		require.Error(t, err)
		assert.True(t, ferrors.IsValidation(err))
		assert.Equal(t, a, out)
	})

	t.Run("input aggregate is not mutated", func(t *testing.T) {
		base := New()
		_ = mustAdd(t, base, fields.Descriptor{Name: "a", Kind: fields.KindTel})
		assert.Empty(t, base.Schema.Properties)
		assert.Empty(t, base.UIHints)
		assert.Empty(t, base.FormData)
	})
}

func TestUpdateField(t *testing.T) {
	t.Run("rename moves every key at once", func(t *testing.T) {
		a := mustAdd(t, New(), fields.Descriptor{Name: "a", Kind: fields.KindTel, Required: true})
		a.FormData["a"] = "555-0100"

		out, err := a.UpdateField("a", fields.Descriptor{Name: "b", Kind: fields.KindTel, Required: true})
		require.NoError(t, err)

		assert.False(t, out.Schema.Has("a"))
		assert.True(t, out.Schema.Has("b"))
		assert.Equal(t, []string{"b"}, out.Schema.Required)
		assert.NotContains(t, out.UIHints, "a")
		assert.Equal(t, "tel", out.UIHints.Get("b").InputType())
		assert.NotContains(t, out.FormData, "a")
		assert.Equal(t, "555-0100", out.FormData["b"])
	})

	tests := []struct {
		name     string
		from     fields.Descriptor
		value    any
		to       fields.Descriptor
		expected any
	}{
		{
			name:     "text to number resets",
			from:     fields.Descriptor{Name: "f", Kind: fields.KindText},
			value:    "42",
			to:       fields.Descriptor{Name: "f", Kind: fields.KindNumber},
			expected: float64(0),
		},
		{
			name:     "number to text resets",
			from:     fields.Descriptor{Name: "f", Kind: fields.KindNumber},
			value:    5.0,
			to:       fields.Descriptor{Name: "f", Kind: fields.KindText},
			expected: "",
		},
		{
			name:     "select loses its option",
			from:     fields.Descriptor{Name: "f", Kind: fields.KindSelect, Options: "A,B"},
			value:    "A",
			to:       fields.Descriptor{Name: "f", Kind: fields.KindSelect, Options: "B,C"},
			expected: "B",
		},
		{
			name:     "select keeps a surviving option",
			from:     fields.Descriptor{Name: "f", Kind: fields.KindSelect, Options: "A,B"},
			value:    "B",
			to:       fields.Descriptor{Name: "f", Kind: fields.KindRadio, Options: "B,C"},
			expected: "B",
		},
		{
			name:     "select to checkbox resets",
			from:     fields.Descriptor{Name: "f", Kind: fields.KindSelect, Options: "A"},
			value:    "A",
			to:       fields.Descriptor{Name: "f", Kind: fields.KindCheckbox},
			expected: false,
		},
		{
			name:     "email to url keeps the string",
			from:     fields.Descriptor{Name: "f", Kind: fields.KindEmail},
			value:    "x",
			to:       fields.Descriptor{Name: "f", Kind: fields.KindURL},
			expected: "x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustAdd(t, New(), tt.from)
			a.FormData[tt.from.Name] = tt.value

			out, err := a.UpdateField(tt.from.Name, tt.to)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out.FormData[tt.to.Name])
		})
	}

	t.Run("missing previous name is a lookup error", func(t *testing.T) {
		_, err := New().UpdateField("ghost", fields.Descriptor{Name: "ghost", Kind: fields.KindText})
		require.Error(t, err)
		assert.True(t, ferrors.IsLookup(err))
	})

	t.Run("rename onto a sibling is rejected", func(t *testing.T) {
		a := mustAdd(t, New(), fields.Descriptor{Name: "a", Kind: fields.KindText})
		a = mustAdd(t, a, fields.Descriptor{Name: "b", Kind: fields.KindText})

		out, err := a.UpdateField("a", fields.Descriptor{Name: "b", Kind: fields.KindText})
		require.Error(t, err)
		assert.True(t, ferrors.IsValidation(err))
		assert.Equal(t, a, out)
	})

	t.Run("invalid descriptor leaves state untouched", func(t *testing.T) {
		a := mustAdd(t, New(), fields.Descriptor{Name: "a", Kind: fields.KindText})
		out, err := a.UpdateField("a", fields.Descriptor{Name: "a", Kind: fields.KindSelect})
		require.Error(t, err)
		assert.Equal(t, a, out)
	})
}

func TestDeleteField(t *testing.T) {
	a := mustAdd(t, New(), fields.Descriptor{Name: "a", Kind: fields.KindPassword, Required: true})

	out, err := a.DeleteField("a")
	require.NoError(t, err)
	assert.Empty(t, out.Schema.Properties)
	assert.Nil(t, out.Schema.Required)
	assert.Empty(t, out.UIHints)
	assert.Empty(t, out.FormData)

	_, err = out.DeleteField("a")
	assert.True(t, ferrors.IsLookup(err))
}

func TestDescribe(t *testing.T) {
	min, max := 1.0, 5.0
	descs := []fields.Descriptor{
		{Name: "age", Kind: fields.KindRange, Min: &min, Max: &max},
		{Name: "color", Kind: fields.KindRadio, Label: "Colour", Options: "Red,Green", Required: true},
		{Name: "phone", Kind: fields.KindTel},
	}
	a := New()
	for _, d := range descs {
		a = mustAdd(t, a, d)
	}

	got := a.Describe()
	require.Len(t, got, 3)
	assert.Equal(t, descs[0], got[0])
	assert.Equal(t, fields.Descriptor{Name: "color", Kind: fields.KindRadio, Label: "Colour", Options: "Red, Green", Required: true}, got[1])
	assert.Equal(t, descs[2], got[2])

	_, ok := a.Field("missing")
	assert.False(t, ok)
}
