package schema

import (
	"fmt"
	"regexp"
	"unicode/utf8"

	"github.com/Gobusters/ectolinq"
)

// ValidationError is one problem found in form data.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// Validator checks form data against an aggregate schema.
type Validator struct {
	schema Schema
}

func NewValidator(s Schema) *Validator {
	return &Validator{schema: s}
}

// Validate reports every problem in data. Keys without a property are ignored.
func (v *Validator) Validate(data map[string]any) ValidationResult {
	result := ValidationResult{Valid: true}

	for _, name := range v.schema.Required {
		value, ok := data[name]
		if !ok || value == nil || value == "" {
			result.Errors = append(result.Errors, ValidationError{Field: name, Message: "required field is missing"})
		}
	}

	for _, name := range v.schema.Names() {
		value, ok := data[name]
		if !ok || value == nil {
			continue
		}
		result.Errors = append(result.Errors, validateValue(name, value, v.schema.Properties[name])...)
	}

	result.Valid = len(result.Errors) == 0
	return result
}

func validateValue(name string, value any, p Property) []ValidationError {
	fail := func(format string, args ...any) []ValidationError {
		return []ValidationError{{Field: name, Message: fmt.Sprintf(format, args...)}}
	}

	switch p.Type {
	case TypeBoolean:
		if _, ok := value.(bool); !ok {
			return fail("expected type boolean, got %s", typeName(value))
		}
	case TypeNumber:
		n, ok := toFloat(value)
		if !ok {
			return fail("expected type number, got %s", typeName(value))
		}
		if p.Minimum != nil && n < *p.Minimum {
			return fail("must be at least %v", *p.Minimum)
		}
		if p.Maximum != nil && n > *p.Maximum {
			return fail("must be at most %v", *p.Maximum)
		}
	case TypeString:
		s, ok := value.(string)
		if !ok {
			return fail("expected type string, got %s", typeName(value))
		}
		if len(p.Enum) > 0 && !ectolinq.Contains(p.Enum, s) {
			return fail("must be one of %v", p.Enum)
		}
		if p.MaxLength != nil && utf8.RuneCountInString(s) > *p.MaxLength {
			return fail("must be at most %d characters", *p.MaxLength)
		}
		if p.Pattern != "" && s != "" {
			re, err := regexp.Compile(p.Pattern)
			if err != nil {
				return fail("pattern %q is invalid", p.Pattern)
			}
			if !re.MatchString(s) {
				return fail("does not match pattern %s", p.Pattern)
			}
		}
	}
	return nil
}

func toFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case int32:
		return float64(n), true
	}
	return 0, false
}

func typeName(value any) string {
	switch value.(type) {
	case string:
		return TypeString
	case float64, float32, int, int64, int32:
		return TypeNumber
	case bool:
		return TypeBoolean
	case map[string]any:
		return TypeObject
	case []any:
		return "array"
	}
	return fmt.Sprintf("%T", value)
}
