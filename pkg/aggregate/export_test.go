package aggregate

import (
	"encoding/json"
	"testing"

	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExport(t *testing.T) {
	a := New()
	for _, d := range []fields.Descriptor{
		{Name: "zeta", Kind: fields.KindWeek},
		{Name: "alpha", Kind: fields.KindCheckbox, Required: true},
		{Name: "mid", Kind: fields.KindURL},
	} {
		a = mustAdd(t, a, d)
	}

	first, err := Export("Checkout", a).JSON()
	require.NoError(t, err)
	second, err := Export("Checkout", a).JSON()
	require.NoError(t, err)
	assert.Equal(t, first, second)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(first, &doc))
	assert.Equal(t, "Checkout", doc["name"])
	assert.Contains(t, doc, "schema")
	assert.Contains(t, doc, "uiSchema")
	assert.Contains(t, doc, "formData")
}

func TestExportEmpty(t *testing.T) {
	b, err := json.Marshal(Export("empty", New()))
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"empty","schema":{"type":"object","properties":{}},"uiSchema":{},"formData":{}}`, string(b))
}
