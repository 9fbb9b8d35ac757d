package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/mmcdole/kinofav/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketFavorites   = []byte("favorites")
	bucketPlayRecords = []byte("play_records")
)

var allBuckets = [][]byte{bucketFavorites, bucketPlayRecords}

// Publisher receives change notifications after successful writes.
type Publisher interface {
	Publish(event string)
}

// Options configures a Store.
type Options struct {
	// Path of the bolt database. Empty means memory-only mode (no persistence).
	Path        string
	OpenTimeout time.Duration
	Publisher   Publisher
	Logger      *slog.Logger
}

// Store implements domain.FavoriteStore and domain.PlayRecordStore using BoltDB.
type Store struct {
	db        *bolt.DB
	publisher Publisher
	logger    *slog.Logger

	mu     sync.RWMutex // Protects mem and closed
	mem    map[string][]byte
	closed bool
}

// Open opens (or creates) the database described by opts.
func Open(opts Options) (*Store, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Store{publisher: opts.Publisher, logger: logger}

	if opts.Path == "" {
		s.mem = make(map[string][]byte)
		logger.Debug("store opened in memory-only mode")
		return s, nil
	}

	if err := os.MkdirAll(filepath.Dir(opts.Path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	timeout := opts.OpenTimeout
	if timeout <= 0 {
		timeout = time.Second
	}
	db, err := bolt.Open(opts.Path, 0600, &bolt.Options{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range allBuckets {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	s.db = db
	logger.Debug("store opened", "path", opts.Path)
	return s, nil
}

func (s *Store) Close() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return nil
	}
	s.closed = true
	s.mu.Unlock()

	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// === Generic helpers ===

func memKey(bucket []byte, key string) string {
	return string(bucket) + ":" + key
}

func (s *Store) checkOpen(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return domain.ErrStoreClosed
	}
	return nil
}

// forEach calls fn with every key/value in bucket. Values are copies.
func (s *Store) forEach(bucket []byte, fn func(key string, data []byte) error) error {
	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.RLock()
		defer s.mu.RUnlock()
		for k, v := range s.mem {
			if rest, ok := strings.CutPrefix(k, prefix); ok {
				if err := fn(rest, v); err != nil {
					return err
				}
			}
		}
		return nil
	}

	return s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		return b.ForEach(func(k, v []byte) error {
			data := make([]byte, len(v))
			copy(data, v)
			return fn(string(k), data)
		})
	})
}

func (s *Store) set(bucket []byte, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	if s.db == nil {
		s.mu.Lock()
		s.mem[memKey(bucket, key)] = data
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucket).Put([]byte(key), data)
	})
}

// delete removes key from bucket and reports whether it existed.
func (s *Store) delete(bucket []byte, key string) (bool, error) {
	if s.db == nil {
		mk := memKey(bucket, key)
		s.mu.Lock()
		_, ok := s.mem[mk]
		delete(s.mem, mk)
		s.mu.Unlock()
		return ok, nil
	}

	var existed bool
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucket)
		if b == nil {
			return nil
		}
		existed = b.Get([]byte(key)) != nil
		return b.Delete([]byte(key))
	})
	return existed, err
}

func (s *Store) clear(bucket []byte) error {
	if s.db == nil {
		prefix := string(bucket) + ":"
		s.mu.Lock()
		for k := range s.mem {
			if strings.HasPrefix(k, prefix) {
				delete(s.mem, k)
			}
		}
		s.mu.Unlock()
		return nil
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(bucket); err != nil && err != bolt.ErrBucketNotFound {
			return err
		}
		_, err := tx.CreateBucket(bucket)
		return err
	})
}

func (s *Store) publish(event string) {
	if s.publisher != nil {
		s.publisher.Publish(event)
	}
}

// === Favorites ===

func (s *Store) GetAllFavorites(ctx context.Context) (map[string]domain.FavoriteRecord, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}
	favorites := make(map[string]domain.FavoriteRecord)
	err := s.forEach(bucketFavorites, func(key string, data []byte) error {
		var rec domain.FavoriteRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			// Skip undecodable entries rather than failing the whole read
			s.logger.Warn("skipping corrupt favorite", "key", key, "error", err)
			return nil
		}
		favorites[key] = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read favorites: %w", err)
	}
	return favorites, nil
}

func (s *Store) SaveFavorite(ctx context.Context, source, id string, record domain.FavoriteRecord) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if err := s.set(bucketFavorites, domain.FormatKey(source, id), record); err != nil {
		return fmt.Errorf("save favorite: %w", err)
	}
	s.publish(domain.EventFavoritesUpdated)
	return nil
}

func (s *Store) DeleteFavorite(ctx context.Context, source, id string) error {
	return s.DeleteFavoriteKey(ctx, domain.FormatKey(source, id))
}

// DeleteFavoriteKey removes the favorite stored under key exactly as it was read.
func (s *Store) DeleteFavoriteKey(ctx context.Context, key string) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	existed, err := s.delete(bucketFavorites, key)
	if err != nil {
		return fmt.Errorf("delete favorite: %w", err)
	}
	if !existed {
		return fmt.Errorf("%w: %s", domain.ErrFavoriteNotFound, key)
	}
	s.publish(domain.EventFavoritesUpdated)
	return nil
}

func (s *Store) ClearAllFavorites(ctx context.Context) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if err := s.clear(bucketFavorites); err != nil {
		return fmt.Errorf("clear favorites: %w", err)
	}
	s.publish(domain.EventFavoritesUpdated)
	return nil
}

// === Play records ===

func (s *Store) GetAllPlayRecords(ctx context.Context) (map[string]domain.PlayRecord, error) {
	if err := s.checkOpen(ctx); err != nil {
		return nil, err
	}
	records := make(map[string]domain.PlayRecord)
	err := s.forEach(bucketPlayRecords, func(key string, data []byte) error {
		var rec domain.PlayRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			s.logger.Warn("skipping corrupt play record", "key", key, "error", err)
			return nil
		}
		records[key] = rec
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("read play records: %w", err)
	}
	return records, nil
}

func (s *Store) SavePlayRecord(ctx context.Context, source, id string, record domain.PlayRecord) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if err := s.set(bucketPlayRecords, domain.FormatKey(source, id), record); err != nil {
		return fmt.Errorf("save play record: %w", err)
	}
	s.publish(domain.EventPlayRecordsUpdated)
	return nil
}

func (s *Store) DeletePlayRecord(ctx context.Context, source, id string) error {
	if err := s.checkOpen(ctx); err != nil {
		return err
	}
	if _, err := s.delete(bucketPlayRecords, domain.FormatKey(source, id)); err != nil {
		return fmt.Errorf("delete play record: %w", err)
	}
	s.publish(domain.EventPlayRecordsUpdated)
	return nil
}
