package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoboard/internal/model"
)

func newSeeded(t *testing.T, n int) (*Server, Store) {
	t.Helper()
	st := NewMemoryStore()
	require.NoError(t, Seed(context.Background(), st, n))
	return New(st), st
}

func serve(t *testing.T, s *Server, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestList_Pagination(t *testing.T) {
	s, _ := newSeeded(t, 23)

	rec := serve(t, s, http.MethodGet, "/todos?_page=2&_limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "23", rec.Header().Get("X-Total-Count"))

	var items []model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
	require.Len(t, items, 5)
	assert.Equal(t, 6, items[0].ID)
	assert.Equal(t, 10, items[4].ID)
}

func TestList_Defaults(t *testing.T) {
	s, _ := newSeeded(t, 23)

	tests := []struct {
		query string
		want  int
	}{
		{"", 23},
		{"?_page=3", 3},   // default limit 10
		{"?_limit=4", 4},  // first page
		{"?_page=9&_limit=5", 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			rec := serve(t, s, http.MethodGet, "/todos"+tt.query, "")
			require.Equal(t, http.StatusOK, rec.Code)
			var items []model.Item
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &items))
			assert.Len(t, items, tt.want)
		})
	}
}

func TestCreate_AssignsFreshIDs(t *testing.T) {
	s, _ := newSeeded(t, 3)

	rec := serve(t, s, http.MethodDelete, "/todos/3", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, s, http.MethodPost, "/todos", `{"title":"X","completed":false}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var created model.Item
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Equal(t, 4, created.ID, "deleted id 3 must not be reused")
	assert.Equal(t, "X", created.Title)
	assert.False(t, created.Completed)
}

func TestUpdate_PartialMerge(t *testing.T) {
	s, st := newSeeded(t, 3)

	rec := serve(t, s, http.MethodPut, "/todos/3", `{"title":"renamed"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	it, err := st.Get(context.Background(), 3)
	require.NoError(t, err)
	assert.Equal(t, "renamed", it.Title)
	assert.True(t, it.Completed, "seed marks every third item completed")

	rec = serve(t, s, http.MethodPatch, "/todos/3", `{"completed":false}`)
	require.Equal(t, http.StatusOK, rec.Code)
	it, _ = st.Get(context.Background(), 3)
	assert.Equal(t, "renamed", it.Title)
	assert.False(t, it.Completed)
}

func TestNotFoundAndBadRequest(t *testing.T) {
	s, _ := newSeeded(t, 1)

	assert.Equal(t, http.StatusNotFound, serve(t, s, http.MethodGet, "/todos/99", "").Code)
	assert.Equal(t, http.StatusNotFound, serve(t, s, http.MethodPut, "/todos/99", `{"title":"x"}`).Code)
	assert.Equal(t, http.StatusBadRequest, serve(t, s, http.MethodPost, "/todos", `{`).Code)
	assert.Equal(t, http.StatusOK, serve(t, s, http.MethodGet, "/todos/1", "").Code)
}

func TestDelete_UnknownIDIsOK(t *testing.T) {
	s, st := newSeeded(t, 2)

	rec := serve(t, s, http.MethodDelete, "/todos/99", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{}`, rec.Body.String())

	_, total, err := st.List(context.Background(), 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, total)
}

func TestRequestIDEchoed(t *testing.T) {
	s, _ := newSeeded(t, 1)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-ID", "abc")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc", rec.Header().Get("X-Request-ID"))

	rec = serve(t, s, http.MethodGet, "/health", "")
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestMetricsRoute(t *testing.T) {
	s := New(NewMemoryStore(), WithMetrics())
	serve(t, s, http.MethodGet, "/todos", "")
	rec := serve(t, s, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "todoboard_server_requests_total")

	plain := New(NewMemoryStore())
	assert.Equal(t, http.StatusNotFound, serve(t, plain, http.MethodGet, "/metrics", "").Code)
}

func TestSeed_SkipsNonEmptyStore(t *testing.T) {
	st := NewMemoryStore()
	ctx := context.Background()
	_, err := st.Create(ctx, model.Item{Title: "mine"})
	require.NoError(t, err)

	require.NoError(t, Seed(ctx, st, 10))
	_, total, err := st.List(ctx, 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
}
