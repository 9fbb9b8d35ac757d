package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinofav/internal/domain"
	"github.com/mmcdole/kinofav/internal/favorites"
)

// Command factories for async operations

const storeTimeout = 10 * time.Second

// OpenFavoritesCmd asks the model to show the favorites panel
func OpenFavoritesCmd() tea.Cmd {
	return func() tea.Msg {
		return OpenFavoritesMsg{}
	}
}

// LoadFavoritesCmd reads favorites and play records and joins them
func LoadFavoritesCmd(svc *favorites.Service, gen uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		items, err := svc.Load(ctx)
		return FavoritesLoadedMsg{Gen: gen, Items: items, Err: err}
	}
}

// ClearAllCmd deletes every favorite
func ClearAllCmd(svc *favorites.Service, session uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		return FavoritesClearedMsg{Session: session, Err: svc.ClearAll(ctx)}
	}
}

// RemoveFavoriteCmd deletes one favorite
func RemoveFavoriteCmd(svc *favorites.Service, item domain.FavoriteItem, session uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		err := svc.Remove(ctx, item.Key())
		return FavoriteRemovedMsg{Session: session, Item: item, Err: err}
	}
}

// ReconcileCmd reads the current favorite keys so removed items can be dropped
func ReconcileCmd(svc *favorites.Service, session uint64) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storeTimeout)
		defer cancel()

		keys, err := svc.CurrentKeys(ctx)
		return FavoriteKeysMsg{Session: session, Keys: keys, Err: err}
	}
}

// ClearStatusCmd returns a command that clears status after a delay
func ClearStatusCmd(delay time.Duration) tea.Cmd {
	return tea.Tick(delay, func(t time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
