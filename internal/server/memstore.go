package server

import (
	"context"
	"sort"
	"sync"

	"github.com/idilsaglam/todoboard/internal/model"
)

// MemoryStore keeps todos in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	items  map[int]model.Item
	nextID int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{items: make(map[int]model.Item), nextID: 1}
}

func (s *MemoryStore) List(_ context.Context, page, limit int) ([]model.Item, int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	all := s.sortedLocked()
	lo, hi := pageBounds(page, limit, len(all))
	out := make([]model.Item, hi-lo)
	copy(out, all[lo:hi])
	return out, len(all), nil
}

func (s *MemoryStore) Get(_ context.Context, id int) (model.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	it, ok := s.items[id]
	if !ok {
		return model.Item{}, ErrNotFound
	}
	return it, nil
}

func (s *MemoryStore) Create(_ context.Context, it model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it.ID = s.nextID
	s.nextID++
	s.items[it.ID] = it
	return it, nil
}

func (s *MemoryStore) Update(_ context.Context, id int, p Patch) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	it, ok := s.items[id]
	if !ok {
		return model.Item{}, ErrNotFound
	}
	it = p.apply(it)
	s.items[id] = it
	return it, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return ErrNotFound
	}
	delete(s.items, id)
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) sortedLocked() []model.Item {
	all := make([]model.Item, 0, len(s.items))
	for _, it := range s.items {
		all = append(all, it)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all
}

// snapshot and restore are used by FileStore to persist the whole state.
func (s *MemoryStore) snapshot() ([]model.Item, int) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sortedLocked(), s.nextID
}

func (s *MemoryStore) restore(items []model.Item, nextID int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[int]model.Item, len(items))
	for _, it := range items {
		s.items[it.ID] = it
		if it.ID >= nextID {
			nextID = it.ID + 1
		}
	}
	if nextID < 1 {
		nextID = 1
	}
	s.nextID = nextID
}
