package store_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/mmcdole/kinofav/internal/domain"
	"github.com/mmcdole/kinofav/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	bolt "go.etcd.io/bbolt"
)

type recordingPublisher struct {
	events []string
}

func (p *recordingPublisher) Publish(event string) {
	p.events = append(p.events, event)
}

func setupTestStore(t *testing.T, path string) (*store.Store, *recordingPublisher) {
	t.Helper()
	pub := &recordingPublisher{}
	s, err := store.Open(store.Options{Path: path, Publisher: pub})
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, pub
}

// storeModes runs fn against a bolt-backed and a memory-only store.
func storeModes(t *testing.T, fn func(t *testing.T, s *store.Store, pub *recordingPublisher)) {
	t.Run("bolt", func(t *testing.T) {
		s, pub := setupTestStore(t, filepath.Join(t.TempDir(), "kinofav.db"))
		fn(t, s, pub)
	})
	t.Run("memory", func(t *testing.T) {
		s, pub := setupTestStore(t, "")
		fn(t, s, pub)
	})
}

func TestFavoritesCRUD(t *testing.T) {
	storeModes(t, func(t *testing.T, s *store.Store, pub *recordingPublisher) {
		ctx := context.Background()

		rec := domain.FavoriteRecord{Title: "Blue Planet", Year: "2001", Cover: "c.jpg", TotalEpisodes: 8, SaveTime: 100}
		require.NoError(t, s.SaveFavorite(ctx, "bbc", "42", rec))
		require.NoError(t, s.SaveFavorite(ctx, "nhk", "7", domain.FavoriteRecord{Title: "Tokyo", SaveTime: 200}))

		all, err := s.GetAllFavorites(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, rec, all["bbc+42"])

		require.NoError(t, s.DeleteFavorite(ctx, "bbc", "42"))
		all, err = s.GetAllFavorites(ctx)
		require.NoError(t, err)
		assert.NotContains(t, all, "bbc+42")
		assert.Contains(t, all, "nhk+7")

		err = s.DeleteFavorite(ctx, "bbc", "42")
		assert.ErrorIs(t, err, domain.ErrFavoriteNotFound)

		assert.Equal(t, []string{
			domain.EventFavoritesUpdated,
			domain.EventFavoritesUpdated,
			domain.EventFavoritesUpdated,
		}, pub.events)
	})
}

func TestClearAllFavoritesLeavesPlayRecords(t *testing.T) {
	storeModes(t, func(t *testing.T, s *store.Store, pub *recordingPublisher) {
		ctx := context.Background()

		require.NoError(t, s.SaveFavorite(ctx, "a", "1", domain.FavoriteRecord{Title: "X"}))
		require.NoError(t, s.SaveFavorite(ctx, "b", "2", domain.FavoriteRecord{Title: "Y"}))
		require.NoError(t, s.SavePlayRecord(ctx, "b", "2", domain.PlayRecord{Index: 3}))

		require.NoError(t, s.ClearAllFavorites(ctx))

		favs, err := s.GetAllFavorites(ctx)
		require.NoError(t, err)
		assert.Empty(t, favs)

		plays, err := s.GetAllPlayRecords(ctx)
		require.NoError(t, err)
		assert.Equal(t, 3, plays["b+2"].Index)

		assert.Equal(t, domain.EventFavoritesUpdated, pub.events[len(pub.events)-1])
	})
}

func TestPlayRecordsCRUD(t *testing.T) {
	storeModes(t, func(t *testing.T, s *store.Store, pub *recordingPublisher) {
		ctx := context.Background()

		require.NoError(t, s.SavePlayRecord(ctx, "a", "1", domain.PlayRecord{Index: 2, PlayTime: 60}))
		require.NoError(t, s.SavePlayRecord(ctx, "a", "1", domain.PlayRecord{Index: 4, PlayTime: 30}))

		plays, err := s.GetAllPlayRecords(ctx)
		require.NoError(t, err)
		require.Len(t, plays, 1)
		assert.Equal(t, 4, plays["a+1"].Index)

		require.NoError(t, s.DeletePlayRecord(ctx, "a", "1"))
		plays, err = s.GetAllPlayRecords(ctx)
		require.NoError(t, err)
		assert.Empty(t, plays)

		assert.Equal(t, []string{
			domain.EventPlayRecordsUpdated,
			domain.EventPlayRecordsUpdated,
			domain.EventPlayRecordsUpdated,
		}, pub.events)
	})
}

func TestFavoritesPersistAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinofav.db")
	ctx := context.Background()

	s, err := store.Open(store.Options{Path: path})
	require.NoError(t, err)
	require.NoError(t, s.SaveFavorite(ctx, "a", "1", domain.FavoriteRecord{Title: "X", SaveTime: 5}))
	require.NoError(t, s.Close())

	s, err = store.Open(store.Options{Path: path})
	require.NoError(t, err)
	defer s.Close()

	all, err := s.GetAllFavorites(ctx)
	require.NoError(t, err)
	assert.Equal(t, "X", all["a+1"].Title)
}

func TestClosedStoreReturnsError(t *testing.T) {
	s, err := store.Open(store.Options{})
	require.NoError(t, err)
	require.NoError(t, s.Close())
	require.NoError(t, s.Close())

	_, err = s.GetAllFavorites(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
	err = s.ClearAllFavorites(context.Background())
	assert.ErrorIs(t, err, domain.ErrStoreClosed)
}

func TestCanceledContext(t *testing.T) {
	s, _ := setupTestStore(t, "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.GetAllPlayRecords(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

// writeRawFavorite stores data under key without going through the Store,
// the way another writer could leave a key with no separator.
func writeRawFavorite(t *testing.T, path, key string, data []byte) {
	t.Helper()
	db, err := bolt.Open(path, 0600, nil)
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists([]byte("favorites"))
		if err != nil {
			return err
		}
		return b.Put([]byte(key), data)
	}))
}

func TestDeleteFavoriteKeyWithoutSeparator(t *testing.T) {
	path := filepath.Join(t.TempDir(), "kinofav.db")
	writeRawFavorite(t, path, "abc", []byte(`{"title":"Bad","save_time":1}`))

	s, pub := setupTestStore(t, path)
	ctx := context.Background()

	all, err := s.GetAllFavorites(ctx)
	require.NoError(t, err)
	require.Contains(t, all, "abc")
	assert.Equal(t, "Bad", all["abc"].Title)

	assert.ErrorIs(t, s.DeleteFavorite(ctx, "abc", ""), domain.ErrFavoriteNotFound)

	require.NoError(t, s.DeleteFavoriteKey(ctx, "abc"))
	all, err = s.GetAllFavorites(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Equal(t, []string{domain.EventFavoritesUpdated}, pub.events)
}
