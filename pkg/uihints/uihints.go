// Package uihints maps field kinds to rendering hints and back.
package uihints

import (
	"github.com/Ramsey-B/fern/pkg/fields"
	"github.com/Ramsey-B/fern/pkg/schema"
)

// Widget names understood by the form renderer.
const (
	WidgetTextarea = "textarea"
	WidgetPassword = "password"
	WidgetRadio    = "radio"
	WidgetRange    = "range"
	WidgetEmail    = "email"
	WidgetURI      = "uri"
	WidgetDate     = "date"
	WidgetText     = "text"
)

type Options struct {
	InputType string `json:"inputType,omitempty"`
}

// Hint is one field's entry in the ui schema. The zero Hint means "use the default renderer".
type Hint struct {
	Widget  string   `json:"ui:widget,omitempty"`
	Options *Options `json:"ui:options,omitempty"`
}

func (h Hint) IsEmpty() bool {
	return h.Widget == "" && (h.Options == nil || h.Options.InputType == "")
}

// InputType returns the side-channel kind, if any.
func (h Hint) InputType() string {
	if h.Options == nil {
		return ""
	}
	return h.Options.InputType
}

// Resolve returns the hint for a kind.
func Resolve(kind fields.Kind) Hint {
	switch kind {
	case fields.KindTextarea:
		return Hint{Widget: WidgetTextarea}
	case fields.KindPassword:
		return Hint{Widget: WidgetPassword}
	case fields.KindRadio:
		return Hint{Widget: WidgetRadio}
	case fields.KindRange:
		return Hint{Widget: WidgetRange}
	case fields.KindEmail:
		return Hint{Widget: WidgetEmail}
	case fields.KindURL:
		return Hint{Widget: WidgetURI}
	case fields.KindDate:
		return Hint{Widget: WidgetDate}
	case fields.KindSelect, fields.KindCheckbox, fields.KindNumber, fields.KindText:
		return Hint{}
	case fields.KindTel, fields.KindSearch, fields.KindTime, fields.KindDatetimeLocal,
		fields.KindMonth, fields.KindWeek:
		return Hint{Widget: WidgetText, Options: &Options{InputType: string(kind)}}
	}
	return Hint{}
}

// InferKind recovers the kind of a stored field. The checks run in a fixed order because
// several kinds produce overlapping fragments.
func InferKind(p schema.Property, h Hint) fields.Kind {
	switch {
	case p.Type == schema.TypeBoolean:
		return fields.KindCheckbox
	case p.Type == schema.TypeNumber:
		if h.Widget == WidgetRange {
			return fields.KindRange
		}
		return fields.KindNumber
	case len(p.Enum) > 0:
		if h.Widget == WidgetRadio {
			return fields.KindRadio
		}
		return fields.KindSelect
	}

	if k, err := fields.ParseKind(h.InputType()); err == nil {
		return k
	}
	if k, ok := kindForWidget(h.Widget); ok {
		return k
	}

	switch p.Format {
	case "email":
		return fields.KindEmail
	case "uri":
		return fields.KindURL
	}
	return fields.KindText
}

func kindForWidget(widget string) (fields.Kind, bool) {
	switch widget {
	case WidgetTextarea:
		return fields.KindTextarea, true
	case WidgetPassword:
		return fields.KindPassword, true
	case WidgetEmail:
		return fields.KindEmail, true
	case WidgetURI:
		return fields.KindURL, true
	case WidgetDate:
		return fields.KindDate, true
	case WidgetRadio:
		return fields.KindRadio, true
	case WidgetRange:
		return fields.KindRange, true
	case WidgetText:
		return fields.KindText, true
	}
	return "", false
}
