package favorites_test

import (
	"context"
	"sync"

	"github.com/mmcdole/kinofav/internal/domain"
)

// fakeStore is an in-memory FavoriteStore and PlayRecordStore with injectable failures.
type fakeStore struct {
	mu       sync.Mutex
	favs     map[string]domain.FavoriteRecord
	plays    map[string]domain.PlayRecord
	favErr   error
	playErr  error
	clearErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		favs:  make(map[string]domain.FavoriteRecord),
		plays: make(map[string]domain.PlayRecord),
	}
}

func (f *fakeStore) GetAllFavorites(context.Context) (map[string]domain.FavoriteRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.favErr != nil {
		return nil, f.favErr
	}
	out := make(map[string]domain.FavoriteRecord, len(f.favs))
	for k, v := range f.favs {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) SaveFavorite(_ context.Context, source, id string, rec domain.FavoriteRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.favs[domain.FormatKey(source, id)] = rec
	return nil
}

func (f *fakeStore) DeleteFavorite(ctx context.Context, source, id string) error {
	return f.DeleteFavoriteKey(ctx, domain.FormatKey(source, id))
}

func (f *fakeStore) DeleteFavoriteKey(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.favs[key]; !ok {
		return domain.ErrFavoriteNotFound
	}
	delete(f.favs, key)
	return nil
}

func (f *fakeStore) ClearAllFavorites(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.clearErr != nil {
		return f.clearErr
	}
	f.favs = make(map[string]domain.FavoriteRecord)
	return nil
}

func (f *fakeStore) GetAllPlayRecords(context.Context) (map[string]domain.PlayRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.playErr != nil {
		return nil, f.playErr
	}
	out := make(map[string]domain.PlayRecord, len(f.plays))
	for k, v := range f.plays {
		out[k] = v
	}
	return out, nil
}

func (f *fakeStore) SavePlayRecord(_ context.Context, source, id string, rec domain.PlayRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.plays[domain.FormatKey(source, id)] = rec
	return nil
}

func (f *fakeStore) DeletePlayRecord(_ context.Context, source, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.plays, domain.FormatKey(source, id))
	return nil
}

// countingBus records subscribe/unsubscribe calls.
type countingBus struct {
	mu           sync.Mutex
	handlers     map[int]domain.EventHandler
	next         int
	subscribes   int
	unsubscribes int
}

func newCountingBus() *countingBus {
	return &countingBus{handlers: make(map[int]domain.EventHandler)}
}

func (b *countingBus) Subscribe(h domain.EventHandler) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.handlers[id] = h
	b.subscribes++
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		if _, ok := b.handlers[id]; ok {
			delete(b.handlers, id)
			b.unsubscribes++
		}
	}
}

func (b *countingBus) Publish(event string) {
	b.mu.Lock()
	hs := make([]domain.EventHandler, 0, len(b.handlers))
	for _, h := range b.handlers {
		hs = append(hs, h)
	}
	b.mu.Unlock()
	for _, h := range hs {
		h(event)
	}
}

func (b *countingBus) active() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.handlers)
}
