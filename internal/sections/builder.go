package sections

// Builder is the page builder's working state: the section list being edited
// and the currently selected section, if any.
type Builder struct {
	sections List
	selected string
}

// NewBuilder starts a builder over a copy of the given list with nothing
// selected.
func NewBuilder(l List) *Builder {
	return &Builder{sections: l.EnsureIDs()}
}

// Sections returns a copy of the current list.
func (b *Builder) Sections() List {
	return b.sections.Clone()
}

// Selected returns the selected section ID, or "" when nothing is selected.
func (b *Builder) Selected() string {
	return b.selected
}

// SelectedSection returns the selected section.
func (b *Builder) SelectedSection() (Section, bool) {
	if b.selected == "" {
		return Section{}, false
	}
	return b.sections.Find(b.selected)
}

// Add appends a new section built from the type's template and selects it.
func (b *Builder) Add(t Type) Section {
	return b.AddSection(Template(t))
}

// AddSection appends s under a fresh ID and selects it.
func (b *Builder) AddSection(s Section) Section {
	var added Section
	b.sections, added = b.sections.Add(s)
	b.selected = added.ID
	return added
}

// Remove deletes a section. The selection is cleared when the removed
// section was the selected one.
func (b *Builder) Remove(id string) {
	b.sections = b.sections.Remove(id)
	if b.selected == id {
		b.selected = ""
	}
}

// Move relocates a section; see List.Move.
func (b *Builder) Move(id string, target int) {
	b.sections = b.sections.Move(id, target)
}

// Update edits a section; see List.Update.
func (b *Builder) Update(id string, p Patch) {
	b.sections = b.sections.Update(id, p)
}

// Select marks a section as selected. Selecting an unknown ID clears the
// selection.
func (b *Builder) Select(id string) {
	if b.sections.Index(id) < 0 {
		b.selected = ""
		return
	}
	b.selected = id
}

// ClearSelection deselects any section.
func (b *Builder) ClearSelection() {
	b.selected = ""
}
