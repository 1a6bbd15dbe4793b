package fields

import (
	"strings"

	"github.com/Gobusters/ectolinq"
	ferrors "github.com/Ramsey-B/fern/pkg/errors"
)

// Descriptor is one user-authored field before synthesis.
type Descriptor struct {
	Name      string   `json:"name" validate:"required"`
	Kind      Kind     `json:"kind" validate:"required"`
	Label     string   `json:"label,omitempty"`
	Options   string   `json:"options,omitempty"`
	Required  bool     `json:"required"`
	Min       *float64 `json:"min,omitempty"`
	Max       *float64 `json:"max,omitempty"`
	MaxLength *int     `json:"max_length,omitempty"`
	Pattern   string   `json:"pattern,omitempty"`
}

// Normalize trims the name so lookups and keys agree.
func (d Descriptor) Normalize() Descriptor {
	d.Name = strings.TrimSpace(d.Name)
	return d
}

// Validate checks the descriptor on its own. Uniqueness among siblings is checked by the aggregate.
func (d Descriptor) Validate() error {
	name := strings.TrimSpace(d.Name)
	if name == "" {
		return ferrors.NewValidationError("", "field name is required")
	}
	if !d.Kind.Valid() {
		return ferrors.NewValidationError(name, "unknown field kind %q", string(d.Kind))
	}
	if d.Kind.HasOptions() && len(ParseOptions(d.Options)) == 0 {
		return ferrors.NewValidationError(name, "options are required for %s fields", d.Kind)
	}
	if d.MaxLength != nil && *d.MaxLength < 0 {
		return ferrors.NewValidationError(name, "max length must not be negative")
	}
	return nil
}

// ParseOptions splits a comma-separated choice list. Order and duplicates are preserved.
func ParseOptions(options string) []string {
	if options == "" {
		return nil
	}
	parts := ectolinq.Map(strings.Split(options, ","), strings.TrimSpace)
	return ectolinq.Filter(parts, func(s string) bool { return s != "" })
}

// JoinOptions is the inverse of ParseOptions used when loading a field for editing.
func JoinOptions(options []string) string {
	return strings.Join(options, ", ")
}
