package fields

import (
	"testing"

	ferrors "github.com/Ramsey-B/fern/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKind(t *testing.T) {
	t.Run("there are seventeen distinct kinds", func(t *testing.T) {
		seen := map[Kind]bool{}
		for _, k := range AllKinds {
			assert.True(t, k.Valid(), k)
			seen[k] = true
		}
		assert.Len(t, seen, 17)
	})

	t.Run("ParseKind rejects unknown values", func(t *testing.T) {
		k, err := ParseKind("datetime-local")
		require.NoError(t, err)
		assert.Equal(t, KindDatetimeLocal, k)

		_, err = ParseKind("color")
		assert.Error(t, err)
	})

	t.Run("constraint families", func(t *testing.T) {
		assert.True(t, KindEmail.IsTextLike())
		assert.False(t, KindDate.IsTextLike())
		assert.True(t, KindRange.IsNumeric())
		assert.False(t, KindCheckbox.IsNumeric())
		assert.True(t, KindRadio.HasOptions())
		assert.False(t, KindText.HasOptions())
	})
}

func TestParseOptions(t *testing.T) {
	assert.Equal(t, []string{"Red", "Green", "Blue"}, ParseOptions("Red, Green, Blue"))
	assert.Equal(t, []string{"a", "b", "a"}, ParseOptions(" a ,, b, a ,"))
	assert.Empty(t, ParseOptions(""))
	assert.Empty(t, ParseOptions(" , ,"))
	assert.Equal(t, "A, B", JoinOptions([]string{"A", "B"}))
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		desc    Descriptor
		wantErr bool
	}{
		{name: "plain text", desc: Descriptor{Name: "title", Kind: KindText}},
		{name: "blank name", desc: Descriptor{Name: "   ", Kind: KindText}, wantErr: true},
		{name: "unknown kind", desc: Descriptor{Name: "x", Kind: "color"}, wantErr: true},
		{name: "select without options", desc: Descriptor{Name: "x", Kind: KindSelect, Options: " , "}, wantErr: true},
		{name: "radio with options", desc: Descriptor{Name: "x", Kind: KindRadio, Options: "a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.desc.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, ferrors.IsValidation(err))
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("normalize trims the name", func(t *testing.T) {
		assert.Equal(t, "title", Descriptor{Name: " title "}.Normalize().Name)
	})
}
