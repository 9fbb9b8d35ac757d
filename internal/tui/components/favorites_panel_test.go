package components

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinofav/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var escKey = tea.KeyMsg{Type: tea.KeyEsc}

func sampleItems(titles ...string) []domain.FavoriteItem {
	items := make([]domain.FavoriteItem, len(titles))
	for i, title := range titles {
		items[i] = domain.FavoriteItem{
			ID:     string(rune('a' + i)),
			Source: "src",
			Title:  title,
		}
	}
	return items
}

func loadedPanel(items []domain.FavoriteItem) FavoritesPanel {
	p := NewFavoritesPanel(3)
	p.SetSize(80, 24)
	p.Show()
	p.SetItems(items)
	return p
}

func TestPanelStates(t *testing.T) {
	p := NewFavoritesPanel(3)
	assert.False(t, p.IsVisible())
	assert.Empty(t, p.View())

	p.Show()
	p.SetLoading(true)
	assert.Equal(t, PanelStateLoading, p.State())
	view := p.View()
	assert.Contains(t, view, "Loading favorites")
	assert.NotContains(t, view, "clear all")

	p.SetLoading(false)
	assert.Equal(t, PanelStateEmpty, p.State())
	view = p.View()
	assert.Contains(t, view, "No favorites yet")
	assert.Contains(t, view, "My Favorites")
	assert.NotContains(t, view, "clear all")
	assert.NotContains(t, view, "items")

	p.SetItems(sampleItems("Blue Planet II", "Dune", "Arrival"))
	assert.Equal(t, PanelStateList, p.State())
	view = p.View()
	assert.Contains(t, view, "3 items")
	assert.Contains(t, view, "clear all")
	assert.Contains(t, view, "Blue Planet II")
}

func TestPanelLoadingWinsOverItems(t *testing.T) {
	p := loadedPanel(sampleItems("Dune"))
	p.SetLoading(true)
	assert.Equal(t, PanelStateLoading, p.State())
	assert.NotContains(t, p.View(), "Dune")
}

func TestPanelHideDiscardsItems(t *testing.T) {
	p := loadedPanel(sampleItems("Dune", "Arrival"))
	p.Hide()

	assert.False(t, p.IsVisible())
	assert.Empty(t, p.Items())

	p.Show()
	assert.Empty(t, p.Items())
}

func TestPanelGridNavigation(t *testing.T) {
	p := loadedPanel(sampleItems("A", "B", "C", "D", "E"))

	p.HandleKeyMsg(runeKey("h"))
	assert.Equal(t, 0, p.Cursor())

	p.HandleKeyMsg(runeKey("l"))
	assert.Equal(t, 1, p.Cursor())

	p.HandleKeyMsg(runeKey("j"))
	assert.Equal(t, 4, p.Cursor())

	p.HandleKeyMsg(runeKey("j"))
	assert.Equal(t, 4, p.Cursor(), "no row below")

	p.HandleKeyMsg(runeKey("k"))
	assert.Equal(t, 1, p.Cursor())

	p.HandleKeyMsg(runeKey("G"))
	assert.Equal(t, 4, p.Cursor())

	p.HandleKeyMsg(runeKey("g"))
	assert.Equal(t, 0, p.Cursor())

	item, ok := p.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "A", item.Title)
}

func TestPanelSetItemsKeepsSelection(t *testing.T) {
	items := sampleItems("A", "B", "C")
	p := loadedPanel(items)
	p.HandleKeyMsg(runeKey("l"))

	p.SetItems([]domain.FavoriteItem{items[0], items[2], items[1]})
	item, ok := p.SelectedItem()
	require.True(t, ok)
	assert.Equal(t, "B", item.Title)
	assert.Equal(t, 2, p.Cursor())

	p.SetItems([]domain.FavoriteItem{items[0]})
	assert.Equal(t, 0, p.Cursor())

	p.SetItems(nil)
	_, ok = p.SelectedItem()
	assert.False(t, ok)
}

func TestPanelClearAllConfirmation(t *testing.T) {
	p := loadedPanel(sampleItems("A", "B"))

	assert.Equal(t, PanelActionNone, p.HandleKeyMsg(runeKey("C")))
	assert.True(t, p.IsConfirmingClear())
	assert.Contains(t, p.View(), "Clear all favorites?")

	assert.Equal(t, PanelActionNone, p.HandleKeyMsg(runeKey("n")))
	assert.False(t, p.IsConfirmingClear())

	p.HandleKeyMsg(runeKey("C"))
	assert.Equal(t, PanelActionClearAll, p.HandleKeyMsg(runeKey("y")))
	assert.False(t, p.IsConfirmingClear())
}

func TestPanelClearAllIgnoredWhenEmpty(t *testing.T) {
	p := loadedPanel(nil)
	assert.Equal(t, PanelActionNone, p.HandleKeyMsg(runeKey("C")))
	assert.False(t, p.IsConfirmingClear())
}

func TestPanelActions(t *testing.T) {
	p := loadedPanel(sampleItems("A"))
	assert.Equal(t, PanelActionRemove, p.HandleKeyMsg(runeKey("d")))
	assert.Equal(t, PanelActionReload, p.HandleKeyMsg(runeKey("r")))
	assert.Equal(t, PanelActionClose, p.HandleKeyMsg(runeKey("q")))
	assert.Equal(t, PanelActionClose, p.HandleKeyMsg(escKey))

	empty := loadedPanel(nil)
	assert.Equal(t, PanelActionNone, empty.HandleKeyMsg(runeKey("d")))
}

func TestPanelIgnoresEditsWhileLoading(t *testing.T) {
	p := loadedPanel(sampleItems("A"))
	p.SetLoading(true)

	assert.Equal(t, PanelActionNone, p.HandleKeyMsg(runeKey("d")))
	assert.Equal(t, PanelActionNone, p.HandleKeyMsg(runeKey("C")))
	assert.Equal(t, PanelActionClose, p.HandleKeyMsg(escKey))
}

func TestPanelFilter(t *testing.T) {
	p := loadedPanel(sampleItems("Blue Planet II", "Dune", "Planet Earth"))

	p.HandleKeyMsg(runeKey("/"))
	require.True(t, p.IsFiltering())
	for _, r := range "planet" {
		assert.Equal(t, PanelActionNone, p.HandleKeyMsg(runeKey(string(r))))
	}

	var titles []string
	for i := 0; i < 3; i++ {
		p.cursor = i
		if item, ok := p.SelectedItem(); ok {
			titles = append(titles, item.Title)
		}
	}
	assert.ElementsMatch(t, []string{"Blue Planet II", "Planet Earth"}, titles)
	assert.Len(t, p.Items(), 3, "filtering never drops items")

	p.HandleKeyMsg(tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, p.IsFiltering())

	// First esc clears the filter, second closes
	assert.Equal(t, PanelActionNone, p.HandleKeyMsg(escKey))
	assert.Equal(t, PanelActionClose, p.HandleKeyMsg(escKey))
}

func TestPanelHeaderFillsWidth(t *testing.T) {
	p := loadedPanel(sampleItems("A", "B"))

	assert.Equal(t, 80, lipgloss.Width(p.renderHeader(80)))

	narrow := p.renderHeader(1)
	assert.Regexp(t, `2 items\s+C clear all`, narrow)
}
