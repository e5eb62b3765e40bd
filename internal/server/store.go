package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/idilsaglam/todoboard/internal/model"
)

// ErrNotFound is returned when no item has the requested id.
var ErrNotFound = errors.New("todo not found")

// Patch is a partial update; nil fields are left alone.
type Patch struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
	UserID    *int    `json:"userId,omitempty"`
}

func (p Patch) apply(it model.Item) model.Item {
	if p.Title != nil {
		it.Title = *p.Title
	}
	if p.Completed != nil {
		it.Completed = *p.Completed
	}
	if p.UserID != nil {
		it.UserID = *p.UserID
	}
	return it
}

// Store holds the server's todos. Ids are assigned by the store, increase
// monotonically and are never reused after a delete.
// Implementations are safe for concurrent use.
type Store interface {
	// List returns one page in id order plus the total item count.
	// limit <= 0 means all items.
	List(ctx context.Context, page, limit int) ([]model.Item, int, error)
	Get(ctx context.Context, id int) (model.Item, error)
	// Create ignores it.ID and assigns a fresh one.
	Create(ctx context.Context, it model.Item) (model.Item, error)
	Update(ctx context.Context, id int, p Patch) (model.Item, error)
	Delete(ctx context.Context, id int) error
	Close() error
}

// pageBounds converts a 1-based page into slice bounds over n items.
func pageBounds(page, limit, n int) (lo, hi int) {
	if limit <= 0 {
		return 0, n
	}
	if page < 1 {
		page = 1
	}
	lo = (page - 1) * limit
	if lo > n {
		lo = n
	}
	hi = lo + limit
	if hi > n {
		hi = n
	}
	return lo, hi
}

// Seed fills an empty store with n deterministic items, 20 per user with
// every third completed.
func Seed(ctx context.Context, s Store, n int) error {
	if n <= 0 {
		return nil
	}
	_, total, err := s.List(ctx, 1, 1)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if total > 0 {
		return nil
	}
	for i := 1; i <= n; i++ {
		it := model.Item{
			UserID:    (i-1)/20 + 1,
			Title:     fmt.Sprintf("todo %d", i),
			Completed: i%3 == 0,
		}
		if _, err := s.Create(ctx, it); err != nil {
			return fmt.Errorf("seed item %d: %w", i, err)
		}
	}
	return nil
}
