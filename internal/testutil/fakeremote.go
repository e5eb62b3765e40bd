// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/idilsaglam/todoboard/internal/model"
)

// ErrNotFound is returned by FakeRemote for unknown ids when StrictIDs is set.
var ErrNotFound = errors.New("not found")

// Call records one request made against FakeRemote.
type Call struct {
	Op        string
	Page      int
	Limit     int
	ID        int
	Title     string
	Completed bool
}

// FakeRemote is an in-memory todo endpoint implementing board.Remote.
type FakeRemote struct {
	mu     sync.Mutex
	items  []model.Item
	nextID int
	calls  []Call

	// Error injection
	ListErr     error
	CreateErr   error
	UpdateErr   error
	CompleteErr error
	DeleteErr   error

	// CreateID, when non-zero, is the id the next Create returns.
	CreateID int
	// StrictIDs makes Update/Delete of unknown ids fail like a 404.
	StrictIDs bool
}

// NewFakeRemote creates a remote holding n items with ids 1..n.
func NewFakeRemote(n int) *FakeRemote {
	f := &FakeRemote{nextID: n + 1}
	for i := 1; i <= n; i++ {
		f.items = append(f.items, model.Item{ID: i, Title: fmt.Sprintf("todo %d", i), Completed: i%3 == 0})
	}
	return f
}

// Calls returns the recorded requests.
func (f *FakeRemote) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// Items returns the remote's copy of the data.
func (f *FakeRemote) Items() []model.Item {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]model.Item(nil), f.items...)
}

func (f *FakeRemote) List(_ context.Context, page, limit int) ([]model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "list", Page: page, Limit: limit})
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	lo := (page - 1) * limit
	if lo > len(f.items) {
		lo = len(f.items)
	}
	hi := lo + limit
	if hi > len(f.items) {
		hi = len(f.items)
	}
	return append([]model.Item{}, f.items[lo:hi]...), nil
}

func (f *FakeRemote) Create(_ context.Context, title string) (model.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "create", Title: title})
	if f.CreateErr != nil {
		return model.Item{}, f.CreateErr
	}
	id := f.nextID
	if f.CreateID != 0 {
		id = f.CreateID
	}
	f.nextID = id + 1
	it := model.Item{ID: id, Title: title}
	f.items = append(f.items, it)
	return it, nil
}

func (f *FakeRemote) Update(_ context.Context, id int, title string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "update", ID: id, Title: title})
	if f.UpdateErr != nil {
		return f.UpdateErr
	}
	return f.mutate(id, func(it *model.Item) { it.Title = title })
}

func (f *FakeRemote) SetCompleted(_ context.Context, id int, completed bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "complete", ID: id, Completed: completed})
	if f.CompleteErr != nil {
		return f.CompleteErr
	}
	return f.mutate(id, func(it *model.Item) { it.Completed = completed })
}

func (f *FakeRemote) Delete(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, Call{Op: "delete", ID: id})
	if f.DeleteErr != nil {
		return f.DeleteErr
	}
	for i, it := range f.items {
		if it.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	if f.StrictIDs {
		return ErrNotFound
	}
	return nil
}

func (f *FakeRemote) mutate(id int, fn func(*model.Item)) error {
	for i := range f.items {
		if f.items[i].ID == id {
			fn(&f.items[i])
			return nil
		}
	}
	if f.StrictIDs {
		return ErrNotFound
	}
	return nil
}
