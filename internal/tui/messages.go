package tui

import "github.com/mmcdole/kinofav/internal/domain"

// Message types for the TUI

// ErrMsg represents an error
type ErrMsg struct {
	Err     error
	Context string
}

// Error implements the error interface
func (e ErrMsg) Error() string {
	if e.Context != "" {
		return e.Context + ": " + e.Err.Error()
	}
	return e.Err.Error()
}

// OpenFavoritesMsg requests that the favorites panel be shown
type OpenFavoritesMsg struct{}

// FavoritesLoadedMsg carries the result of a full load.
// Gen identifies the load request so superseded results can be dropped.
type FavoritesLoadedMsg struct {
	Gen   uint64
	Items []domain.FavoriteItem
	Err   error
}

// FavoritesClearedMsg signals that a clear-all request finished
type FavoritesClearedMsg struct {
	Session uint64
	Err     error
}

// FavoriteRemovedMsg signals that a single unfavorite request finished
type FavoriteRemovedMsg struct {
	Session uint64
	Item    domain.FavoriteItem
	Err     error
}

// FavoriteKeysMsg carries the key set read after a favoritesUpdated event
type FavoriteKeysMsg struct {
	Session uint64
	Keys    map[string]struct{}
	Err     error
}

// BusEventMsg delivers an update bus event received while the panel is open
type BusEventMsg struct {
	Session uint64
	Event   string
}

// StatusMsg displays a status message
type StatusMsg struct {
	Message string
	IsError bool
}

// ClearStatusMsg clears the status message
type ClearStatusMsg struct{}
