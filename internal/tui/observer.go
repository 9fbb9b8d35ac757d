package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mmcdole/kinofav/internal/favorites"
)

// listenForUpdatesCmd waits for the next bus event on w.
// It returns nil once the watcher is closed, which ends the listen loop.
func listenForUpdatesCmd(w *favorites.Watcher, session uint64) tea.Cmd {
	if w == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case event := <-w.Events():
			return BusEventMsg{Session: session, Event: event}
		case <-w.Done():
			return nil
		}
	}
}
