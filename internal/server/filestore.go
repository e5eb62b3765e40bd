package server

import (
	"context"
	"fmt"
	"sync"

	"github.com/idilsaglam/todoboard/internal/model"
	"github.com/idilsaglam/todoboard/internal/store/jsonstore"
)

// FileStore is a MemoryStore persisted to a JSON file after every mutation.
// A mutation whose save fails is rolled back.
type FileStore struct {
	path string
	mu   sync.Mutex // serializes mutate+save
	mem  *MemoryStore
}

// OpenFileStore loads path (missing is fine) and returns the store.
func OpenFileStore(path string) (*FileStore, error) {
	snap, err := jsonstore.Load(path)
	if err != nil {
		return nil, fmt.Errorf("open file store: %w", err)
	}
	mem := NewMemoryStore()
	mem.restore(snap.Todos, snap.NextID)
	return &FileStore{path: path, mem: mem}, nil
}

func (s *FileStore) List(ctx context.Context, page, limit int) ([]model.Item, int, error) {
	return s.mem.List(ctx, page, limit)
}

func (s *FileStore) Get(ctx context.Context, id int) (model.Item, error) {
	return s.mem.Get(ctx, id)
}

func (s *FileStore) Create(ctx context.Context, it model.Item) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, next := s.mem.snapshot()
	created, err := s.mem.Create(ctx, it)
	if err != nil {
		return model.Item{}, err
	}
	if err := s.saveLocked(); err != nil {
		s.mem.restore(items, next)
		return model.Item{}, err
	}
	return created, nil
}

func (s *FileStore) Update(ctx context.Context, id int, p Patch) (model.Item, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, next := s.mem.snapshot()
	it, err := s.mem.Update(ctx, id, p)
	if err != nil {
		return model.Item{}, err
	}
	if err := s.saveLocked(); err != nil {
		s.mem.restore(items, next)
		return model.Item{}, err
	}
	return it, nil
}

func (s *FileStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	items, next := s.mem.snapshot()
	if err := s.mem.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.saveLocked(); err != nil {
		s.mem.restore(items, next)
		return err
	}
	return nil
}

func (s *FileStore) Close() error { return nil }

func (s *FileStore) saveLocked() error {
	items, next := s.mem.snapshot()
	if err := jsonstore.Save(s.path, jsonstore.Snapshot{NextID: next, Todos: items}); err != nil {
		return fmt.Errorf("save %s: %w", s.path, err)
	}
	return nil
}
