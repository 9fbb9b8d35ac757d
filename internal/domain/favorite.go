package domain

import "strings"

// KeySeparator joins source and media ID in a composite key
const KeySeparator = "+"

// Type markers handed to the card renderer
const (
	CardTypeSeries  = "tv"
	CardTypeUnknown = ""
)

// CardOriginFavorite tags cards rendered from the favorites panel
const CardOriginFavorite = "favorite"

// FavoriteRecord is the stored value for a favorited item
type FavoriteRecord struct {
	Title         string `json:"title"`
	SourceName    string `json:"source_name,omitempty"`
	Year          string `json:"year"`
	Cover         string `json:"cover"`
	TotalEpisodes int    `json:"total_episodes,omitempty"`
	SaveTime      int64  `json:"save_time"` // Unix millis
	SearchTitle   string `json:"search_title,omitempty"`
	Origin        string `json:"origin,omitempty"` // "vod" or "live"
}

// PlayRecord is the stored playback position for an item
type PlayRecord struct {
	Title         string `json:"title"`
	SourceName    string `json:"source_name,omitempty"`
	Cover         string `json:"cover,omitempty"`
	Year          string `json:"year,omitempty"`
	Index         int    `json:"index"`          // Current episode (1-based)
	TotalEpisodes int    `json:"total_episodes"` // Total episodes
	PlayTime      int64  `json:"play_time"`      // Position in seconds
	TotalTime     int64  `json:"total_time"`     // Duration in seconds
	SaveTime      int64  `json:"save_time"`      // Unix millis
	SearchTitle   string `json:"search_title,omitempty"`
}

// FavoriteItem is the display projection of a favorite joined with its play record.
// It is rebuilt on every load and never persisted.
type FavoriteItem struct {
	ID             string
	Source         string
	Title          string
	Year           string
	Poster         string
	Episodes       int  // 0 when unknown
	SourceName     string
	CurrentEpisode *int // nil when there is no play record
	SearchTitle    string
	Origin         string

	key string // Store key as read, which may lack a separator
}

// WithKey returns a copy of f that remembers the exact store key it was read from
func (f FavoriteItem) WithKey(key string) FavoriteItem {
	f.key = key
	return f
}

// Key returns the store key this item was built from, or the composite of
// Source and ID when the item was not read from a store
func (f FavoriteItem) Key() string {
	if f.key != "" {
		return f.key
	}
	return FormatKey(f.Source, f.ID)
}

// CardType classifies the item for the card renderer
func (f FavoriteItem) CardType() string {
	if f.Episodes > 1 {
		return CardTypeSeries
	}
	return CardTypeUnknown
}

// FormatKey builds the composite key for source and id
func FormatKey(source, id string) string {
	return source + KeySeparator + id
}

// ParseKey splits a composite key at the first separator.
// A key without a separator yields the whole key as source, an empty id and ok=false.
func ParseKey(key string) (source, id string, ok bool) {
	source, id, ok = strings.Cut(key, KeySeparator)
	return source, id, ok
}
