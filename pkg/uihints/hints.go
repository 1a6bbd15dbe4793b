package uihints

import "github.com/Ramsey-B/fern/pkg/fields"

// Hints is the ui schema keyed by field name. Fields with an empty hint have no key.
type Hints map[string]Hint

// Set returns a copy of h with name resolved for kind. A rename drops previousName first.
func (h Hints) Set(name string, kind fields.Kind, previousName string) Hints {
	out := h.Clone()
	if previousName != "" && previousName != name {
		delete(out, previousName)
	}
	if hint := Resolve(kind); !hint.IsEmpty() {
		out[name] = hint
	} else {
		delete(out, name)
	}
	return out
}

// Remove returns a copy of h without name.
func (h Hints) Remove(name string) Hints {
	out := h.Clone()
	delete(out, name)
	return out
}

func (h Hints) Get(name string) Hint {
	return h[name]
}

// Clone copies h, dropping any empty entries read from outside.
func (h Hints) Clone() Hints {
	out := make(Hints, len(h))
	for name, hint := range h {
		if hint.IsEmpty() {
			continue
		}
		if hint.Options != nil {
			opts := *hint.Options
			hint.Options = &opts
		}
		out[name] = hint
	}
	return out
}
