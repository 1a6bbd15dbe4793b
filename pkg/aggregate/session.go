package aggregate

import "github.com/Ramsey-B/fern/pkg/fields"

// Session is one editor's working copy of a configuration.
type Session struct {
	current     Aggregate
	baseVersion int
	dirty       bool
}

func NewSession(a Aggregate, version int) *Session {
	return &Session{current: a.Clone(), baseVersion: version}
}

func (s *Session) Current() Aggregate {
	return s.current
}

// BaseVersion is the stored version the working copy was loaded from.
func (s *Session) BaseVersion() int {
	return s.baseVersion
}

// Dirty reports whether the working copy has edits that are not saved.
func (s *Session) Dirty() bool {
	return s.dirty
}

// Load replaces the working copy, for example to preview another version.
func (s *Session) Load(a Aggregate, version int) {
	s.current = a.Clone()
	s.baseVersion = version
	s.dirty = false
}

// MarkSaved records that the working copy was stored as version.
func (s *Session) MarkSaved(version int) {
	s.baseVersion = version
	s.dirty = false
}

// Apply runs one edit. On error the working copy is unchanged.
func (s *Session) Apply(edit func(Aggregate) (Aggregate, error)) error {
	next, err := edit(s.current)
	if err != nil {
		return err
	}
	s.current = next
	s.dirty = true
	return nil
}

func (s *Session) AddField(d fields.Descriptor) error {
	return s.Apply(func(a Aggregate) (Aggregate, error) { return a.AddField(d) })
}

func (s *Session) UpdateField(previousName string, d fields.Descriptor) error {
	return s.Apply(func(a Aggregate) (Aggregate, error) { return a.UpdateField(previousName, d) })
}

func (s *Session) DeleteField(name string) error {
	return s.Apply(func(a Aggregate) (Aggregate, error) { return a.DeleteField(name) })
}
