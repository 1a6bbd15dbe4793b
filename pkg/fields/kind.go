package fields

import "fmt"

// Kind is the input type a user picks for a field.
type Kind string

const (
	KindText          Kind = "text"
	KindPassword      Kind = "password"
	KindSelect        Kind = "select"
	KindCheckbox      Kind = "checkbox"
	KindRadio         Kind = "radio"
	KindNumber        Kind = "number"
	KindTextarea      Kind = "textarea"
	KindEmail         Kind = "email"
	KindRange         Kind = "range"
	KindSearch        Kind = "search"
	KindTel           Kind = "tel"
	KindURL           Kind = "url"
	KindTime          Kind = "time"
	KindDatetimeLocal Kind = "datetime-local"
	KindWeek          Kind = "week"
	KindMonth         Kind = "month"
	KindDate          Kind = "date"
)

// AllKinds lists every supported kind in picker order.
var AllKinds = []Kind{
	KindText, KindPassword, KindSelect, KindCheckbox, KindRadio, KindNumber,
	KindTextarea, KindEmail, KindRange, KindSearch, KindTel, KindURL,
	KindTime, KindDatetimeLocal, KindWeek, KindMonth, KindDate,
}

func ParseKind(s string) (Kind, error) {
	k := Kind(s)
	if !k.Valid() {
		return "", fmt.Errorf("unknown field kind %q", s)
	}
	return k, nil
}

func (k Kind) Valid() bool {
	switch k {
	case KindText, KindPassword, KindSelect, KindCheckbox, KindRadio, KindNumber,
		KindTextarea, KindEmail, KindRange, KindSearch, KindTel, KindURL,
		KindTime, KindDatetimeLocal, KindWeek, KindMonth, KindDate:
		return true
	}
	return false
}

// HasOptions reports whether the kind renders a choice list.
func (k Kind) HasOptions() bool {
	switch k {
	case KindSelect, KindRadio:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether minimum/maximum apply.
func (k Kind) IsNumeric() bool {
	switch k {
	case KindNumber, KindRange:
		return true
	default:
		return false
	}
}

// IsTextLike reports whether maxLength/pattern apply.
func (k Kind) IsTextLike() bool {
	switch k {
	case KindText, KindPassword, KindTextarea, KindEmail, KindSearch, KindTel, KindURL:
		return true
	case KindSelect, KindCheckbox, KindRadio, KindNumber, KindRange,
		KindTime, KindDatetimeLocal, KindWeek, KindMonth, KindDate:
		return false
	}
	return false
}

func (k Kind) String() string {
	return string(k)
}
