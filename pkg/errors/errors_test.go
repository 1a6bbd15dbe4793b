package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigError(t *testing.T) {
	t.Run("validation maps to 400 with field meta", func(t *testing.T) {
		err := NewValidationError("color", "options are required for %s fields", "select")
		assert.Equal(t, "field 'color': options are required for select fields", err.Error())

		herr := err.ToHTTPError()
		assert.Equal(t, http.StatusBadRequest, httperror.GetStatusCode(herr))
		assert.Equal(t, "color", herr.Meta["field"])
	})

	t.Run("version lookup maps to 404", func(t *testing.T) {
		err := NewVersionLookupError(7)
		assert.Equal(t, "version 7 does not exist", err.Error())
		assert.Equal(t, http.StatusNotFound, httperror.GetStatusCode(err.ToHTTPError()))
	})

	t.Run("classification survives wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("update: %w", NewLookupError("size", "field does not exist"))
		assert.True(t, IsLookup(wrapped))
		assert.False(t, IsValidation(wrapped))

		cerr, ok := AsConfigError(wrapped)
		require.True(t, ok)
		assert.Equal(t, "size", cerr.Field)
	})

	t.Run("ToHTTP passes unknown errors through", func(t *testing.T) {
		plain := fmt.Errorf("boom")
		assert.Same(t, plain, ToHTTP(plain))
		assert.True(t, httperror.IsHTTPError(ToHTTP(NewValidationError("a", "bad"))))
	})
}
