package components

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinofav/internal/domain"
	"github.com/mmcdole/kinofav/internal/tui/styles"
	"github.com/sahilm/fuzzy"
)

// PanelState is the body the panel currently renders
type PanelState int

const (
	PanelStateLoading PanelState = iota
	PanelStateEmpty
	PanelStateList
)

// PanelAction is what the parent must do after a key press
type PanelAction int

const (
	PanelActionNone PanelAction = iota
	PanelActionClose
	PanelActionClearAll
	PanelActionRemove
	PanelActionReload
)

// Layout constants for the panel
const (
	minCardWidth   = 18
	maxPanelWidth  = 110
	panelChrome    = 4 // border + vertical padding
	panelHeaderRow = 2 // header line + spacer
	panelFooterRow = 2 // spacer + help line
)

// FavoritesPanel is a modal listing favorited items as a grid of cards
type FavoritesPanel struct {
	visible bool
	loading bool
	items   []domain.FavoriteItem

	columns int
	cursor  int
	offset  int // First visible row

	width  int
	height int

	confirmClear bool

	filterActive bool
	filterInput  textinput.Model
	filterQuery  string
	filteredIdx  []int // indices into items

	spinner spinner.Model
}

// NewFavoritesPanel creates a panel laid out with up to columns cards per row
func NewFavoritesPanel(columns int) FavoritesPanel {
	if columns < 1 {
		columns = 1
	}

	ti := textinput.New()
	ti.Placeholder = "type to filter..."
	ti.Prompt = "/ "
	ti.PromptStyle = styles.FilterPromptStyle
	ti.TextStyle = styles.FilterStyle
	ti.CharLimit = 50

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = styles.SpinnerStyle

	return FavoritesPanel{
		columns:     columns,
		filterInput: ti,
		spinner:     sp,
	}
}

// Show opens the panel with an empty list
func (p *FavoritesPanel) Show() {
	p.visible = true
	p.reset()
}

// Hide closes the panel and discards its list
func (p *FavoritesPanel) Hide() {
	p.visible = false
	p.loading = false
	p.reset()
}

func (p *FavoritesPanel) reset() {
	p.items = nil
	p.cursor = 0
	p.offset = 0
	p.confirmClear = false
	p.clearFilter()
}

// IsVisible returns whether the panel is shown
func (p FavoritesPanel) IsVisible() bool {
	return p.visible
}

// SetLoading toggles the loading indicator
func (p *FavoritesPanel) SetLoading(loading bool) {
	p.loading = loading
}

// IsLoading returns whether a load is in flight
func (p FavoritesPanel) IsLoading() bool {
	return p.loading
}

// SpinnerTick starts the loading spinner animation
func (p FavoritesPanel) SpinnerTick() tea.Cmd {
	return p.spinner.Tick
}

// SetItems replaces the list, keeping the cursor on the same item when it survives
func (p *FavoritesPanel) SetItems(items []domain.FavoriteItem) {
	var selectedKey string
	if item, ok := p.SelectedItem(); ok {
		selectedKey = item.Key()
	}

	p.items = items
	if len(items) == 0 {
		p.confirmClear = false
	}
	if p.filterQuery != "" {
		p.applyFilter()
	}

	p.cursor = 0
	if selectedKey != "" {
		for i := 0; i < p.visibleCount(); i++ {
			if p.items[p.mapIndex(i)].Key() == selectedKey {
				p.cursor = i
				break
			}
		}
	}
	p.clampCursor()
}

// Items returns the displayed list, unfiltered
func (p FavoritesPanel) Items() []domain.FavoriteItem {
	return p.items
}

// State reports which of the three bodies is rendered
func (p FavoritesPanel) State() PanelState {
	switch {
	case p.loading:
		return PanelStateLoading
	case len(p.items) == 0:
		return PanelStateEmpty
	default:
		return PanelStateList
	}
}

// SelectedItem returns the item under the cursor
func (p FavoritesPanel) SelectedItem() (domain.FavoriteItem, bool) {
	if p.cursor < 0 || p.cursor >= p.visibleCount() {
		return domain.FavoriteItem{}, false
	}
	return p.items[p.mapIndex(p.cursor)], true
}

// Cursor returns the cursor position within the visible (filtered) list
func (p FavoritesPanel) Cursor() int {
	return p.cursor
}

// IsConfirmingClear returns whether the clear-all prompt is showing
func (p FavoritesPanel) IsConfirmingClear() bool {
	return p.confirmClear
}

// IsFiltering returns whether the filter input has focus
func (p FavoritesPanel) IsFiltering() bool {
	return p.filterActive
}

// SetSize sets the available screen dimensions
func (p *FavoritesPanel) SetSize(width, height int) {
	p.width = width
	p.height = height
	p.ensureVisible()
}

// Update advances the spinner animation
func (p FavoritesPanel) Update(msg tea.Msg) (FavoritesPanel, tea.Cmd) {
	if _, ok := msg.(spinner.TickMsg); ok {
		if !p.visible || !p.loading {
			return p, nil
		}
		var cmd tea.Cmd
		p.spinner, cmd = p.spinner.Update(msg)
		return p, cmd
	}
	return p, nil
}

// HandleKeyMsg processes a key press and reports the action the parent should take
func (p *FavoritesPanel) HandleKeyMsg(msg tea.KeyMsg) PanelAction {
	if !p.visible {
		return PanelActionNone
	}

	keys := FavoritesPanelKeys

	if p.confirmClear {
		switch {
		case key.Matches(msg, keys.Confirm):
			p.confirmClear = false
			return PanelActionClearAll
		case key.Matches(msg, keys.Deny):
			p.confirmClear = false
		}
		return PanelActionNone
	}

	// Filter input has focus
	if p.filterActive {
		switch {
		case key.Matches(msg, keys.Escape):
			p.clearFilter()
			p.clampCursor()
		case key.Matches(msg, keys.Enter):
			p.filterActive = false
			p.filterInput.Blur()
		default:
			p.filterInput, _ = p.filterInput.Update(msg)
			p.applyFilter()
		}
		return PanelActionNone
	}

	switch {
	case key.Matches(msg, keys.Escape) && p.filterQuery != "":
		p.clearFilter()
		p.clampCursor()
	case key.Matches(msg, keys.Close):
		return PanelActionClose
	case key.Matches(msg, keys.Reload):
		return PanelActionReload
	case p.loading:
		// Navigation and edits wait for the list
	case key.Matches(msg, keys.ClearAll):
		if len(p.items) > 0 {
			p.confirmClear = true
		}
	case key.Matches(msg, keys.Remove):
		if _, ok := p.SelectedItem(); ok {
			return PanelActionRemove
		}
	case key.Matches(msg, keys.Filter):
		if len(p.items) > 0 {
			p.filterActive = true
			p.filterInput.Focus()
		}
	case key.Matches(msg, keys.Left):
		p.moveCursor(-1)
	case key.Matches(msg, keys.Right):
		p.moveCursor(1)
	case key.Matches(msg, keys.Up):
		p.moveCursor(-p.effectiveColumns())
	case key.Matches(msg, keys.Down):
		p.moveCursor(p.effectiveColumns())
	case key.Matches(msg, keys.Home):
		p.cursor = 0
		p.ensureVisible()
	case key.Matches(msg, keys.End):
		p.cursor = p.visibleCount() - 1
		p.clampCursor()
	}
	return PanelActionNone
}

// === Cursor and layout ===

func (p *FavoritesPanel) moveCursor(delta int) {
	next := p.cursor + delta
	if next < 0 || next >= p.visibleCount() {
		return
	}
	p.cursor = next
	p.ensureVisible()
}

func (p *FavoritesPanel) clampCursor() {
	if n := p.visibleCount(); p.cursor >= n {
		p.cursor = n - 1
	}
	if p.cursor < 0 {
		p.cursor = 0
	}
	p.ensureVisible()
}

func (p *FavoritesPanel) ensureVisible() {
	cols := p.effectiveColumns()
	rows := p.visibleRows()
	row := p.cursor / cols
	if row < p.offset {
		p.offset = row
	}
	if row >= p.offset+rows {
		p.offset = row - rows + 1
	}
	if p.offset < 0 {
		p.offset = 0
	}
}

func (p FavoritesPanel) panelSize() (int, int) {
	w, h := p.width, p.height
	if w <= 0 {
		w = 80
	}
	if h <= 0 {
		h = 24
	}
	w = min(w-4, maxPanelWidth)
	h = h - 2
	return max(w, minCardWidth+panelChrome), max(h, CardHeight+panelChrome+panelHeaderRow+panelFooterRow)
}

// contentWidth is the width inside the modal border and padding
func (p FavoritesPanel) contentWidth() int {
	w, _ := p.panelSize()
	return w - 6
}

func (p FavoritesPanel) effectiveColumns() int {
	cols := min(p.columns, p.contentWidth()/minCardWidth)
	return max(cols, 1)
}

func (p FavoritesPanel) visibleRows() int {
	_, h := p.panelSize()
	avail := h - panelChrome - panelHeaderRow - panelFooterRow
	if p.filterActive || p.filterQuery != "" {
		avail--
	}
	return max(avail/CardHeight, 1)
}

// === Filtering ===

func (p *FavoritesPanel) clearFilter() {
	p.filterActive = false
	p.filterQuery = ""
	p.filteredIdx = nil
	p.filterInput.SetValue("")
	p.filterInput.Blur()
}

func (p *FavoritesPanel) applyFilter() {
	query := p.filterInput.Value()
	p.filterQuery = query

	if query == "" {
		p.filteredIdx = nil
		p.clampCursor()
		return
	}

	lowerTitles := make([]string, len(p.items))
	for i, item := range p.items {
		lowerTitles[i] = strings.ToLower(item.Title)
	}

	matches := fuzzy.Find(strings.ToLower(query), lowerTitles)

	p.filteredIdx = make([]int, len(matches))
	for i, match := range matches {
		p.filteredIdx[i] = match.Index
	}

	// Reset cursor to first match
	p.cursor = 0
	p.offset = 0
}

func (p FavoritesPanel) visibleCount() int {
	if p.filteredIdx != nil {
		return len(p.filteredIdx)
	}
	return len(p.items)
}

func (p FavoritesPanel) mapIndex(i int) int {
	if p.filteredIdx != nil && i < len(p.filteredIdx) {
		return p.filteredIdx[i]
	}
	return i
}

// === Rendering ===

// View renders the panel
func (p FavoritesPanel) View() string {
	if !p.visible {
		return ""
	}

	w, _ := p.panelSize()
	cw := p.contentWidth()

	var lines []string
	lines = append(lines, p.renderHeader(cw), "")

	switch p.State() {
	case PanelStateLoading:
		lines = append(lines, p.renderCentered(cw, p.spinner.View()+" Loading favorites..."))
	case PanelStateEmpty:
		lines = append(lines,
			p.renderCentered(cw, styles.DimStyle.Render(styles.StarEmpty)),
			p.renderCentered(cw, styles.DimStyle.Render("No favorites yet")),
		)
	default:
		if p.filterActive || p.filterQuery != "" {
			lines = append(lines, p.filterInput.View())
		}
		lines = append(lines, p.renderGrid(cw))
	}

	lines = append(lines, "", p.renderFooter())

	return styles.ModalStyle.
		Width(w - 2).
		Render(strings.Join(lines, "\n"))
}

func (p FavoritesPanel) renderHeader(width int) string {
	left := styles.AccentStyle.Render(styles.StarFilled) + " " + styles.ModalTitleStyle.Render("My Favorites")
	if n := len(p.items); n > 0 && !p.loading {
		left += " " + styles.CountBadgeStyle.Render(fmt.Sprintf("%d items", n))
	}

	var right string
	if len(p.items) > 0 && !p.loading {
		right = styles.DangerStyle.Render("C clear all") + "  "
	}
	right += styles.DimStyle.Render("esc close")

	// At least one space between the two halves
	leftWidth := max(width-lipgloss.Width(right), lipgloss.Width(left)+1)
	return styles.Pad(left, leftWidth) + right
}

func (p FavoritesPanel) renderCentered(width int, s string) string {
	return lipgloss.PlaceHorizontal(width, lipgloss.Center, s)
}

func (p FavoritesPanel) renderGrid(width int) string {
	count := p.visibleCount()
	if count == 0 {
		return styles.DimStyle.Render("No matches")
	}

	cols := p.effectiveColumns()
	cardWidth := width / cols
	rows := p.visibleRows()

	var rendered []string
	for row := p.offset; row < p.offset+rows; row++ {
		start := row * cols
		if start >= count {
			break
		}
		var cards []string
		for i := start; i < min(start+cols, count); i++ {
			props := NewFavoriteCard(p.items[p.mapIndex(i)])
			cards = append(cards, RenderCard(props, i == p.cursor, cardWidth))
		}
		rendered = append(rendered, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}

	totalRows := (count + cols - 1) / cols
	if p.offset > 0 || p.offset+rows < totalRows {
		rendered = append(rendered, styles.DimStyle.Render(
			fmt.Sprintf("row %d-%d of %d", p.offset+1, min(p.offset+rows, totalRows), totalRows)))
	}
	return strings.Join(rendered, "\n")
}

func (p FavoritesPanel) renderFooter() string {
	if p.confirmClear {
		return styles.DangerStyle.Render("Clear all favorites?") + "  " +
			styles.RenderHelp([2]string{"y", "confirm"}, [2]string{"n", "cancel"})
	}
	if p.filterActive {
		return styles.RenderHelp([2]string{"enter", "accept"}, [2]string{"esc", "clear"})
	}
	if p.State() != PanelStateList {
		return styles.RenderHelp([2]string{"r", "reload"}, [2]string{"esc", "close"})
	}
	return styles.RenderHelp(
		[2]string{"hjkl", "move"},
		[2]string{"/", "filter"},
		[2]string{"d", "unfavorite"},
		[2]string{"r", "reload"},
	)
}
