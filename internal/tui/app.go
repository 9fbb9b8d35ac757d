package tui

import (
	"errors"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mmcdole/kinofav/internal/domain"
	"github.com/mmcdole/kinofav/internal/favorites"
	"github.com/mmcdole/kinofav/internal/tui/components"
	"github.com/mmcdole/kinofav/internal/tui/styles"
)

// Model is the main Bubble Tea model for the application
type Model struct {
	Ready bool

	// Services
	FavoritesSvc *favorites.Service
	Bus          domain.UpdateBus

	// UI Components
	Panel components.FavoritesPanel

	// Dimensions
	Width  int
	Height int

	// UI state
	StatusMsg   string
	StatusIsErr bool

	// Open on start instead of showing the home screen
	OpenOnStart bool

	// Panel session. watcher is non-nil only while the panel is open.
	watcher *favorites.Watcher
	session uint64
	loadGen uint64

	logger *slog.Logger
}

// NewModel creates a new application model
func NewModel(svc *favorites.Service, bus domain.UpdateBus, columns int, logger *slog.Logger) Model {
	if logger == nil {
		logger = slog.Default()
	}
	return Model{
		FavoritesSvc: svc,
		Bus:          bus,
		Panel:        components.NewFavoritesPanel(columns),
		OpenOnStart:  true,
		logger:       logger,
	}
}

// Init initializes the application
func (m Model) Init() tea.Cmd {
	if m.OpenOnStart {
		return OpenFavoritesCmd()
	}
	return nil
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width = msg.Width
		m.Height = msg.Height
		m.Ready = true
		m.Panel.SetSize(msg.Width, msg.Height-1)
		return m, nil

	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Panel, cmd = m.Panel.Update(msg)
		return m, cmd

	case OpenFavoritesMsg:
		return m, m.openPanel()

	case FavoritesLoadedMsg:
		return m.handleLoaded(msg)

	case BusEventMsg:
		return m.handleBusEvent(msg)

	case FavoriteKeysMsg:
		if !m.isCurrent(msg.Session) {
			return m, nil
		}
		if msg.Err != nil {
			// The next full load corrects the list
			m.logger.Warn("failed to reconcile favorites", "error", msg.Err)
			return m, nil
		}
		m.Panel.SetItems(favorites.Reconcile(m.Panel.Items(), msg.Keys))
		return m, nil

	case FavoritesClearedMsg:
		if !m.isCurrent(msg.Session) {
			return m, nil
		}
		if msg.Err != nil {
			return m, m.setStatus("Failed to clear favorites: "+msg.Err.Error(), true)
		}
		m.Panel.SetItems(nil)
		return m, m.setStatus("Cleared all favorites", false)

	case FavoriteRemovedMsg:
		if !m.isCurrent(msg.Session) {
			return m, nil
		}
		if errors.Is(msg.Err, domain.ErrFavoriteNotFound) {
			// Already gone elsewhere; no event will follow
			return m, ReconcileCmd(m.FavoritesSvc, m.session)
		}
		if msg.Err != nil {
			return m, m.setStatus("Failed to remove favorite: "+msg.Err.Error(), true)
		}
		// The list itself is updated by the favoritesUpdated event
		return m, m.setStatus("Removed: "+msg.Item.Title, false)

	case ErrMsg:
		return m, m.setStatus(msg.Error(), true)

	case StatusMsg:
		return m, m.setStatus(msg.Message, msg.IsError)

	case ClearStatusMsg:
		m.StatusMsg = ""
		m.StatusIsErr = false
		return m, nil
	}

	return m, nil
}

func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		m.closePanel()
		return m, tea.Quit
	}

	if !m.Panel.IsVisible() {
		switch {
		case key.Matches(msg, Keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, Keys.OpenFavorites):
			return m, m.openPanel()
		}
		return m, nil
	}

	switch m.Panel.HandleKeyMsg(msg) {
	case components.PanelActionClose:
		m.closePanel()
	case components.PanelActionReload:
		return m, m.startLoad()
	case components.PanelActionClearAll:
		return m, ClearAllCmd(m.FavoritesSvc, m.session)
	case components.PanelActionRemove:
		if item, ok := m.Panel.SelectedItem(); ok {
			return m, RemoveFavoriteCmd(m.FavoritesSvc, item, m.session)
		}
	}
	return m, nil
}

// openPanel starts a new panel session: one bus subscription and one full load.
func (m *Model) openPanel() tea.Cmd {
	if m.Panel.IsVisible() {
		return nil
	}

	m.watcher.Close()
	m.session++
	m.watcher = favorites.Watch(m.Bus)
	m.Panel.Show()
	m.logger.Debug("favorites panel opened", "session", m.session)

	return tea.Batch(
		m.startLoad(),
		listenForUpdatesCmd(m.watcher, m.session),
	)
}

// closePanel releases the subscription and discards the list.
func (m *Model) closePanel() {
	if !m.Panel.IsVisible() && m.watcher == nil {
		return
	}
	m.watcher.Close()
	m.watcher = nil
	m.session++
	m.Panel.Hide()
	m.logger.Debug("favorites panel closed")
}

func (m *Model) startLoad() tea.Cmd {
	m.loadGen++
	m.Panel.SetLoading(true)
	return tea.Batch(
		LoadFavoritesCmd(m.FavoritesSvc, m.loadGen),
		m.Panel.SpinnerTick(),
	)
}

func (m Model) handleLoaded(msg FavoritesLoadedMsg) (tea.Model, tea.Cmd) {
	if !m.Panel.IsVisible() || msg.Gen != m.loadGen {
		m.logger.Debug("discarding stale favorites load", "gen", msg.Gen, "current", m.loadGen)
		return m, nil
	}

	m.Panel.SetLoading(false)
	if msg.Err != nil {
		// Keep whatever was displayed before
		return m, m.setStatus("Failed to load favorites: "+msg.Err.Error(), true)
	}
	m.Panel.SetItems(msg.Items)
	return m, nil
}

func (m Model) handleBusEvent(msg BusEventMsg) (tea.Model, tea.Cmd) {
	if !m.isCurrent(msg.Session) {
		return m, nil
	}

	cmds := []tea.Cmd{listenForUpdatesCmd(m.watcher, m.session)}
	if msg.Event == domain.EventFavoritesUpdated {
		cmds = append(cmds, ReconcileCmd(m.FavoritesSvc, m.session))
	} else {
		m.logger.Debug("ignoring bus event", "event", msg.Event)
	}
	return m, tea.Batch(cmds...)
}

func (m Model) isCurrent(session uint64) bool {
	return m.Panel.IsVisible() && session == m.session
}

func (m *Model) setStatus(text string, isErr bool) tea.Cmd {
	m.StatusMsg = text
	m.StatusIsErr = isErr
	delay := 3 * time.Second
	if isErr {
		delay = 5 * time.Second
	}
	return ClearStatusCmd(delay)
}

// Shutdown releases the bus subscription if the panel is still open
func (m *Model) Shutdown() {
	m.closePanel()
}

// View renders the application
func (m Model) View() string {
	if !m.Ready {
		return ""
	}

	var body string
	if m.Panel.IsVisible() {
		body = m.Panel.View()
	} else {
		body = lipgloss.JoinVertical(lipgloss.Center,
			styles.AccentStyle.Render(styles.StarFilled)+" "+styles.TitleStyle.Render("kinofav"),
			"",
			styles.RenderHelp([2]string{"f", "open favorites"}, [2]string{"q", "quit"}),
		)
	}

	main := lipgloss.Place(m.Width, max(m.Height-1, 1), lipgloss.Center, lipgloss.Center, body)
	return lipgloss.JoinVertical(lipgloss.Left, main, m.renderStatus())
}

func (m Model) renderStatus() string {
	if m.StatusMsg == "" {
		return ""
	}
	style := styles.SuccessStyle
	if m.StatusIsErr {
		style = styles.ErrorStyle
	}
	return style.Render(styles.Truncate(m.StatusMsg, m.Width))
}
