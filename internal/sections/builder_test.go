package sections

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuilder_AddSelectsNewSection(t *testing.T) {
	b := NewBuilder(nil)

	hero := b.Add(TypeHero)
	assert.Equal(t, hero.ID, b.Selected())

	text := b.Add(TypeText)
	assert.Equal(t, text.ID, b.Selected())
	assert.Equal(t, []string{hero.ID, text.ID}, b.Sections().IDs())

	sel, ok := b.SelectedSection()
	require.True(t, ok)
	assert.Equal(t, "About Us", sel.Title)
}

func TestBuilder_RemoveSelectedClearsSelection(t *testing.T) {
	b := NewBuilder(nil)
	first := b.Add(TypeHero)
	second := b.Add(TypeText)

	b.Remove(first.ID)
	assert.Equal(t, second.ID, b.Selected(), "removing another section keeps the selection")

	b.Remove(second.ID)
	assert.Empty(t, b.Selected())
	_, ok := b.SelectedSection()
	assert.False(t, ok)
	assert.Empty(t, b.Sections())
}

func TestBuilder_Select(t *testing.T) {
	b := NewBuilder(List{{ID: "a", Type: TypeHero}, {ID: "b", Type: TypeText}})
	assert.Empty(t, b.Selected())

	b.Select("b")
	assert.Equal(t, "b", b.Selected())

	b.Select("nope")
	assert.Empty(t, b.Selected())

	b.Select("a")
	b.ClearSelection()
	assert.Empty(t, b.Selected())
}

func TestBuilder_MoveAndUpdate(t *testing.T) {
	b := NewBuilder(List{{ID: "a", Type: TypeHero}, {ID: "b", Type: TypeText}, {ID: "c", Type: TypeCTA}})
	b.Select("a")

	b.Move("a", 2)
	assert.Equal(t, []string{"b", "c", "a"}, b.Sections().IDs())
	assert.Equal(t, "a", b.Selected(), "selection follows the section, not the index")

	content := "Join us"
	b.Update("c", Patch{Content: &content})
	s, ok := b.Sections().Find("c")
	require.True(t, ok)
	assert.Equal(t, "Join us", s.Content)
}

func TestNewBuilder_AssignsMissingIDs(t *testing.T) {
	in := List{{Type: TypeHero}}
	b := NewBuilder(in)
	assert.NotEmpty(t, b.Sections()[0].ID)
	assert.Empty(t, in[0].ID)
}

func TestBuilder_SectionsIsACopy(t *testing.T) {
	b := NewBuilder(nil)
	b.Add(TypeHero)
	got := b.Sections()
	got[0].Title = "mutated"
	assert.Equal(t, "Hero Section", b.Sections()[0].Title)
}
