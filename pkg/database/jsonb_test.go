package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type payload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestJSONB(t *testing.T) {
	t.Run("value then scan", func(t *testing.T) {
		in := NewJSONB(payload{Name: "a", Items: []string{"x"}})
		v, err := in.Value()
		require.NoError(t, err)
		assert.Equal(t, `{"name":"a","items":["x"]}`, v)

		var out JSONB[payload]
		require.NoError(t, out.Scan([]byte(v.(string))))
		assert.Equal(t, in.Data, out.GetValue())
	})

	t.Run("scan string", func(t *testing.T) {
		var out JSONB[map[string]any]
		require.NoError(t, out.Scan(`{"k":1}`))
		assert.Equal(t, float64(1), out.Data["k"])
	})

	t.Run("scan nil resets", func(t *testing.T) {
		out := NewJSONB(payload{Name: "a"})
		require.NoError(t, out.Scan(nil))
		assert.Equal(t, payload{}, out.Data)
	})

	t.Run("scan rejects other types", func(t *testing.T) {
		var out JSONB[payload]
		assert.Error(t, out.Scan(42))
	})
}
