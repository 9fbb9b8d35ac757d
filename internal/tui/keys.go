package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the bindings handled outside the favorites panel
type KeyMap struct {
	Quit          key.Binding
	OpenFavorites key.Binding
}

// DefaultKeyMap returns the default key bindings
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		OpenFavorites: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "favorites"),
		),
	}
}

// Keys is the global key map instance
var Keys = DefaultKeyMap()
