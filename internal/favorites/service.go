package favorites

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/mmcdole/kinofav/internal/domain"
	"golang.org/x/sync/errgroup"
)

// Service orchestrates the favorites and play record stores.
type Service struct {
	favs   domain.FavoriteStore
	plays  domain.PlayRecordStore
	logger *slog.Logger
	now    func() time.Time
}

// NewService creates a new favorites service.
func NewService(favs domain.FavoriteStore, plays domain.PlayRecordStore, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{favs: favs, plays: plays, logger: logger, now: time.Now}
}

// Load reads both stores concurrently and returns the joined, sorted list.
// Nothing is returned unless both reads succeed.
func (s *Service) Load(ctx context.Context) ([]domain.FavoriteItem, error) {
	var (
		favs  map[string]domain.FavoriteRecord
		plays map[string]domain.PlayRecord
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		favs, err = s.favs.GetAllFavorites(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		plays, err = s.plays.GetAllPlayRecords(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.logger.Error("failed to load favorites", "error", err)
		return nil, err
	}

	for _, key := range MalformedKeys(favs) {
		s.logger.Warn("favorite key has no source separator", "key", key)
	}

	items := BuildItems(favs, plays)
	s.logger.Debug("loaded favorites", "count", len(items), "play_records", len(plays))
	return items, nil
}

// CurrentKeys returns the key set currently in the favorites store.
func (s *Service) CurrentKeys(ctx context.Context) (map[string]struct{}, error) {
	favs, err := s.favs.GetAllFavorites(ctx)
	if err != nil {
		s.logger.Error("failed to read favorite keys", "error", err)
		return nil, err
	}
	return KeySet(favs), nil
}

// ClearAll removes every favorite. Play records are left in place.
func (s *Service) ClearAll(ctx context.Context) error {
	if err := s.favs.ClearAllFavorites(ctx); err != nil {
		s.logger.Error("failed to clear favorites", "error", err)
		return err
	}
	s.logger.Info("cleared all favorites")
	return nil
}

// Remove deletes the favorite stored under key.
func (s *Service) Remove(ctx context.Context, key string) error {
	if err := s.favs.DeleteFavoriteKey(ctx, key); err != nil {
		s.logger.Error("failed to remove favorite", "error", err, "key", key)
		return err
	}
	s.logger.Info("removed favorite", "key", key)
	return nil
}

// Add saves a favorite, stamping the save time when the record has none.
func (s *Service) Add(ctx context.Context, source, id string, record domain.FavoriteRecord) error {
	if record.SaveTime == 0 {
		record.SaveTime = s.now().UnixMilli()
	}
	if err := s.favs.SaveFavorite(ctx, source, id, record); err != nil {
		s.logger.Error("failed to save favorite", "error", err, "source", source, "id", id)
		return err
	}
	s.logger.Info("saved favorite", "source", source, "id", id, "title", record.Title)
	return nil
}

// RecordProgress stores the current episode for an item.
func (s *Service) RecordProgress(ctx context.Context, source, id string, record domain.PlayRecord) error {
	if record.SaveTime == 0 {
		record.SaveTime = s.now().UnixMilli()
	}
	if err := s.plays.SavePlayRecord(ctx, source, id, record); err != nil {
		s.logger.Error("failed to save play record", "error", err, "source", source, "id", id)
		return err
	}
	s.logger.Debug("saved play record", "source", source, "id", id, "index", record.Index)
	return nil
}

// Find resolves query to exactly one favorite. An exact composite key or
// title wins; otherwise titles are ranked with case-insensitive fuzzy matching and the
// best match is returned only if it is unambiguous.
func (s *Service) Find(ctx context.Context, query string) (domain.FavoriteItem, error) {
	items, err := s.Load(ctx)
	if err != nil {
		return domain.FavoriteItem{}, err
	}

	query = strings.TrimSpace(query)
	for _, item := range items {
		if item.Key() == query {
			return item, nil
		}
	}

	titles := make([]string, len(items))
	for i, item := range items {
		titles[i] = item.Title
		if strings.EqualFold(item.Title, query) {
			return item, nil
		}
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	if len(ranks) == 0 {
		return domain.FavoriteItem{}, fmt.Errorf("%w: %q", domain.ErrFavoriteNotFound, query)
	}
	sort.Sort(ranks)

	if len(ranks) > 1 && ranks[0].Distance == ranks[1].Distance {
		return domain.FavoriteItem{}, fmt.Errorf("%w: %q", domain.ErrAmbiguousMatch, query)
	}
	return items[ranks[0].OriginalIndex], nil
}
