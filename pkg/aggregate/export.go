package aggregate

import (
	"encoding/json"

	"github.com/Ramsey-B/fern/pkg/formdata"
	"github.com/Ramsey-B/fern/pkg/schema"
	"github.com/Ramsey-B/fern/pkg/uihints"
)

// Document is the self-contained form handed to consumers.
type Document struct {
	Name     string        `json:"name"`
	Schema   schema.Schema `json:"schema"`
	UISchema uihints.Hints `json:"uiSchema"`
	FormData formdata.Data `json:"formData"`
}

// Export projects a into a Document. It has no side effects.
func Export(name string, a Aggregate) Document {
	c := a.Clone()
	return Document{
		Name:     name,
		Schema:   c.Schema,
		UISchema: c.UIHints,
		FormData: c.FormData,
	}
}

// JSON encodes the document. Map keys are sorted so equal documents encode to equal bytes.
func (d Document) JSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}
