package sections

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// IDPrefix prefixes every generated section ID.
const IDPrefix = "section-"

// List is the ordered set of sections on one careers page. Rendering order is
// slice order. Every operation returns a new List and leaves the receiver
// untouched.
type List []Section

// NewID returns a fresh section ID.
func NewID() string {
	return IDPrefix + uuid.NewString()
}

// Len returns the number of sections.
func (l List) Len() int { return len(l) }

// Index returns the position of the section with the given ID, or -1.
func (l List) Index(id string) int {
	for i := range l {
		if l[i].ID == id {
			return i
		}
	}
	return -1
}

// Find returns the section with the given ID.
func (l List) Find(id string) (Section, bool) {
	if i := l.Index(id); i >= 0 {
		return l[i].Clone(), true
	}
	return Section{}, false
}

// IDs returns section IDs in order.
func (l List) IDs() []string {
	ids := make([]string, len(l))
	for i := range l {
		ids[i] = l[i].ID
	}
	return ids
}

// Clone returns a deep copy of the list.
func (l List) Clone() List {
	if l == nil {
		return nil
	}
	out := make(List, len(l))
	for i := range l {
		out[i] = l[i].Clone()
	}
	return out
}

// Add appends a copy of s under a freshly generated ID and returns the new
// list together with the section as stored. Any ID already on s is ignored.
func (l List) Add(s Section) (List, Section) {
	added := s.Clone()
	added.ID = l.uniqueID()

	out := make(List, 0, len(l)+1)
	out = append(out, l.Clone()...)
	out = append(out, added)
	return out, added.Clone()
}

// Remove returns the list without the section with the given ID. Removing an
// ID that is not present returns an equal list.
func (l List) Remove(id string) List {
	out := make(List, 0, len(l))
	for i := range l {
		if l[i].ID != id {
			out = append(out, l[i].Clone())
		}
	}
	return out
}

// Move relocates the section with the given ID to target, shifting the others
// to keep their relative order. Targets outside the list are clamped to the
// first or last position. Moving an absent ID returns an equal list.
func (l List) Move(id string, target int) List {
	from := l.Index(id)
	if from < 0 {
		return l.Clone()
	}

	if target < 0 {
		target = 0
	}
	if target > len(l)-1 {
		target = len(l) - 1
	}

	moved := l[from].Clone()
	rest := l.Remove(id)

	out := make(List, 0, len(l))
	out = append(out, rest[:target]...)
	out = append(out, moved)
	out = append(out, rest[target:]...)
	return out
}

// Update merges the patch into the section with the given ID. Updating an ID
// that is not present returns an equal list.
func (l List) Update(id string, p Patch) List {
	out := l.Clone()
	if i := out.Index(id); i >= 0 {
		out[i] = out[i].Apply(p)
	}
	return out
}

// Validate checks every section and that IDs are present and unique.
func (l List) Validate() error {
	seen := make(map[string]struct{}, len(l))
	for i := range l {
		if l[i].ID == "" {
			return &ValidationError{Problems: []string{fmt.Sprintf("section at position %d has no id", i)}}
		}
		if _, dup := seen[l[i].ID]; dup {
			return &ValidationError{SectionID: l[i].ID, Problems: []string{"duplicate section id"}}
		}
		seen[l[i].ID] = struct{}{}
		if err := l[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// EnsureIDs returns a copy of the list in which every section without an ID
// has been given a fresh one.
func (l List) EnsureIDs() List {
	out := l.Clone()
	for i := range out {
		if out[i].ID == "" {
			out[i].ID = out.uniqueID()
		}
	}
	return out
}

func (l List) uniqueID() string {
	for {
		id := NewID()
		if l.Index(id) < 0 {
			return id
		}
	}
}

// Value implements driver.Valuer so a List can be stored in a JSONB column.
func (l List) Value() (driver.Value, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(l)
}

// Scan implements sql.Scanner for reading a List from a JSONB column.
func (l *List) Scan(value any) error {
	if value == nil {
		*l = List{}
		return nil
	}
	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("sections: cannot scan %T into List", value)
	}
	var out List
	if err := json.Unmarshal(raw, &out); err != nil {
		return fmt.Errorf("sections: decode list: %w", err)
	}
	if out == nil {
		out = List{}
	}
	*l = out
	return nil
}
