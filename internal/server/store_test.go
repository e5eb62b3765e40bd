package server

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoboard/internal/model"
)

// exerciseStore runs the behaviour every Store must share.
func exerciseStore(t *testing.T, st Store) {
	t.Helper()
	ctx := context.Background()

	a, err := st.Create(ctx, model.Item{ID: 999, Title: "a"})
	require.NoError(t, err)
	b, err := st.Create(ctx, model.Item{Title: "b", Completed: true})
	require.NoError(t, err)
	assert.NotEqual(t, 999, a.ID, "client ids are ignored")
	assert.Greater(t, b.ID, a.ID)

	items, total, err := st.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, []model.Item{a, b}, items)

	title := "a2"
	upd, err := st.Update(ctx, a.ID, Patch{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "a2", upd.Title)

	require.NoError(t, st.Delete(ctx, b.ID))
	assert.ErrorIs(t, st.Delete(ctx, b.ID), ErrNotFound)
	_, err = st.Get(ctx, b.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = st.Update(ctx, b.ID, Patch{Title: &title})
	assert.ErrorIs(t, err, ErrNotFound)

	c, err := st.Create(ctx, model.Item{Title: "c"})
	require.NoError(t, err)
	assert.Greater(t, c.ID, b.ID, "ids are never reused")

	page, total, err := st.List(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	require.Len(t, page, 1)
	assert.Equal(t, c.ID, page[0].ID)

	page, _, err = st.List(ctx, 5, 1)
	require.NoError(t, err)
	assert.Empty(t, page)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestFileStore(t *testing.T) {
	path := filepath.Join(t.TempDir(), "todos.json")
	st, err := OpenFileStore(path)
	require.NoError(t, err)
	exerciseStore(t, st)

	// reopen: state and id counter survive
	again, err := OpenFileStore(path)
	require.NoError(t, err)
	items, total, err := again.List(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
	assert.Equal(t, "a2", items[0].Title)

	d, err := again.Create(context.Background(), model.Item{Title: "d"})
	require.NoError(t, err)
	assert.Equal(t, 4, d.ID)
}

func TestFileStore_RollsBackFailedSave(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st, err := OpenFileStore(filepath.Join(dir, "todos.json"))
	require.NoError(t, err)
	kept, err := st.Create(ctx, model.Item{Title: "kept"})
	require.NoError(t, err)

	blocker := filepath.Join(dir, "blocker")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))
	st.path = filepath.Join(blocker, "todos.json")

	_, err = st.Create(ctx, model.Item{Title: "lost"})
	assert.Error(t, err)
	renamed := "renamed"
	_, err = st.Update(ctx, kept.ID, Patch{Title: &renamed})
	assert.Error(t, err)
	assert.Error(t, st.Delete(ctx, kept.ID))

	items, total, err := st.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Equal(t, []model.Item{kept}, items)

	st.path = filepath.Join(dir, "todos.json")
	next, err := st.Create(ctx, model.Item{Title: "next"})
	require.NoError(t, err)
	assert.Equal(t, kept.ID+1, next.ID, "failed create does not consume an id")
}

func TestPageBounds(t *testing.T) {
	tests := []struct {
		page, limit, n int
		lo, hi         int
	}{
		{1, 5, 12, 0, 5},
		{3, 5, 12, 10, 12},
		{4, 5, 12, 12, 12},
		{0, 5, 12, 0, 5},
		{1, 0, 12, 0, 12},
	}
	for _, tt := range tests {
		lo, hi := pageBounds(tt.page, tt.limit, tt.n)
		assert.Equal(t, tt.lo, lo)
		assert.Equal(t, tt.hi, hi)
	}
}
