package favorites

import (
	"sort"

	"github.com/mmcdole/kinofav/internal/domain"
)

// BuildItems joins favorites with play records and orders them by save time, newest first.
// Equal save times fall back to key order so the result is deterministic.
func BuildItems(favs map[string]domain.FavoriteRecord, plays map[string]domain.PlayRecord) []domain.FavoriteItem {
	keys := make([]string, 0, len(favs))
	for key := range favs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	sort.SliceStable(keys, func(i, j int) bool {
		return favs[keys[i]].SaveTime > favs[keys[j]].SaveTime
	})

	items := make([]domain.FavoriteItem, 0, len(keys))
	for _, key := range keys {
		fav := favs[key]
		source, id, _ := domain.ParseKey(key)

		item := domain.FavoriteItem{
			ID:          id,
			Source:      source,
			Title:       fav.Title,
			Year:        fav.Year,
			Poster:      fav.Cover,
			Episodes:    fav.TotalEpisodes,
			SourceName:  fav.SourceName,
			SearchTitle: fav.SearchTitle,
			Origin:      fav.Origin,
		}.WithKey(key)
		if play, ok := plays[key]; ok {
			episode := play.Index
			item.CurrentEpisode = &episode
		}
		items = append(items, item)
	}
	return items
}

// Reconcile drops items whose key is absent from keys. It never adds items
// and preserves the order of the survivors. The input slice is not modified.
func Reconcile(items []domain.FavoriteItem, keys map[string]struct{}) []domain.FavoriteItem {
	kept := make([]domain.FavoriteItem, 0, len(items))
	for _, item := range items {
		if _, ok := keys[item.Key()]; ok {
			kept = append(kept, item)
		}
	}
	return kept
}

// KeySet returns the set of keys in favs.
func KeySet(favs map[string]domain.FavoriteRecord) map[string]struct{} {
	keys := make(map[string]struct{}, len(favs))
	for key := range favs {
		keys[key] = struct{}{}
	}
	return keys
}

// MalformedKeys returns keys that have no source/id separator.
func MalformedKeys(favs map[string]domain.FavoriteRecord) []string {
	var bad []string
	for key := range favs {
		if _, _, ok := domain.ParseKey(key); !ok {
			bad = append(bad, key)
		}
	}
	sort.Strings(bad)
	return bad
}
