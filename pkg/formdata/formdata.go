// Package formdata keeps stored field values consistent with their field kinds.
package formdata

import (
	"github.com/Gobusters/ectolinq"
	"github.com/Ramsey-B/fern/pkg/fields"
)

// Data maps field names to values. Values are string, float64 or bool.
type Data map[string]any

// DefaultValue returns the value a freshly added field starts with.
func DefaultValue(kind fields.Kind, options string) any {
	switch kind {
	case fields.KindCheckbox:
		return false
	case fields.KindNumber, fields.KindRange:
		return float64(0)
	case fields.KindSelect, fields.KindRadio:
		if opts := fields.ParseOptions(options); len(opts) > 0 {
			return opts[0]
		}
		return ""
	case fields.KindText, fields.KindPassword, fields.KindTextarea, fields.KindEmail,
		fields.KindSearch, fields.KindTel, fields.KindURL, fields.KindTime,
		fields.KindDatetimeLocal, fields.KindWeek, fields.KindMonth, fields.KindDate:
		return ""
	}
	return ""
}

// ShouldReset reports whether previous no longer fits kind and must be replaced by the default.
// A nil previous value always resets.
func ShouldReset(kind fields.Kind, options string, previous any) bool {
	if previous == nil {
		return true
	}

	switch kind {
	case fields.KindCheckbox:
		_, ok := previous.(bool)
		return !ok
	case fields.KindNumber, fields.KindRange:
		return !isNumber(previous)
	case fields.KindSelect, fields.KindRadio:
		s, ok := previous.(string)
		return !ok || !ectolinq.Contains(fields.ParseOptions(options), s)
	case fields.KindText, fields.KindPassword, fields.KindTextarea, fields.KindEmail,
		fields.KindSearch, fields.KindTel, fields.KindURL, fields.KindTime,
		fields.KindDatetimeLocal, fields.KindWeek, fields.KindMonth, fields.KindDate:
		_, ok := previous.(string)
		return !ok
	}
	return true
}

// Reconcile returns previous when it still fits kind and the default otherwise.
func Reconcile(kind fields.Kind, options string, previous any) any {
	if ShouldReset(kind, options, previous) {
		return DefaultValue(kind, options)
	}
	return previous
}

func isNumber(v any) bool {
	switch v.(type) {
	case float64, float32, int, int32, int64:
		return true
	}
	return false
}

func (d Data) Clone() Data {
	out := make(Data, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}
