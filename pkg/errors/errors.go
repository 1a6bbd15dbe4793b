package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
)

type Code string

const (
	// CodeValidation rejects input before any mutation is applied.
	CodeValidation Code = "validation"
	// CodeLookup names a field, version or definition that does not exist.
	CodeLookup Code = "lookup"
)

// ConfigError is returned by the builder engine. Field and Version name the offending item when known.
type ConfigError struct {
	Code    Code
	Field   string
	Version int
	Message string
}

func NewValidationError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Code: CodeValidation, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NewLookupError(field, format string, args ...any) *ConfigError {
	return &ConfigError{Code: CodeLookup, Field: field, Message: fmt.Sprintf(format, args...)}
}

func NewVersionLookupError(version int) *ConfigError {
	return &ConfigError{Code: CodeLookup, Version: version, Message: fmt.Sprintf("version %d does not exist", version)}
}

func (e *ConfigError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field '%s': %s", e.Field, e.Message)
	}
	return e.Message
}

// ToHTTPError maps validation failures to 400 and lookup failures to 404.
func (e *ConfigError) ToHTTPError() *httperror.HTTPError {
	status := http.StatusBadRequest
	if e.Code == CodeLookup {
		status = http.StatusNotFound
	}

	herr := httperror.NewHTTPError(status, e.Error()).AddMetaValue("code", string(e.Code))
	if e.Field != "" {
		herr = herr.AddMetaValue("field", e.Field)
	}
	if e.Version != 0 {
		herr = herr.AddMetaValue("version", strconv.Itoa(e.Version))
	}
	return herr
}

// AsConfigError unwraps err into a *ConfigError.
func AsConfigError(err error) (*ConfigError, bool) {
	var cerr *ConfigError
	if errors.As(err, &cerr) {
		return cerr, true
	}
	return nil, false
}

func IsValidation(err error) bool {
	cerr, ok := AsConfigError(err)
	return ok && cerr.Code == CodeValidation
}

func IsLookup(err error) bool {
	cerr, ok := AsConfigError(err)
	return ok && cerr.Code == CodeLookup
}

// ToHTTP converts a ConfigError to its http form and passes every other error through.
func ToHTTP(err error) error {
	if cerr, ok := AsConfigError(err); ok {
		return cerr.ToHTTPError()
	}
	return err
}
