package domain

import "context"

// Event names published on the update bus
const (
	EventFavoritesUpdated   = "favoritesUpdated"
	EventPlayRecordsUpdated = "playRecordsUpdated"
)

// FavoriteStore persists favorites keyed by composite key.
type FavoriteStore interface {
	GetAllFavorites(ctx context.Context) (map[string]FavoriteRecord, error)
	SaveFavorite(ctx context.Context, source, id string, record FavoriteRecord) error
	DeleteFavorite(ctx context.Context, source, id string) error
	DeleteFavoriteKey(ctx context.Context, key string) error
	ClearAllFavorites(ctx context.Context) error
}

// PlayRecordStore persists playback positions keyed by composite key.
type PlayRecordStore interface {
	GetAllPlayRecords(ctx context.Context) (map[string]PlayRecord, error)
	SavePlayRecord(ctx context.Context, source, id string, record PlayRecord) error
	DeletePlayRecord(ctx context.Context, source, id string) error
}

// EventHandler receives update bus event names.
type EventHandler func(event string)

// UpdateBus is an in-process publish/subscribe channel for change notifications.
// Calling the returned unsubscribe func stops delivery to that handler.
type UpdateBus interface {
	Subscribe(handler EventHandler) (unsubscribe func())
	Publish(event string)
}
