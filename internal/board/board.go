// Package board holds the view state of the todo board and the transitions
// driven by user actions and remote results.
//
// Remote calls are expressed as Actions: closures that perform exactly one
// request and return a Result. The caller decides where an Action runs (a
// Bubble Tea command, or inline through Run) and hands the Result back to
// Apply, so every state change happens on the caller's goroutine. A Board is
// not safe for concurrent use.
package board

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/idilsaglam/todoboard/internal/logging"
	"github.com/idilsaglam/todoboard/internal/model"
)

// maxNotices bounds the toast queue; older notices fall off.
const maxNotices = 5

// Remote is the subset of the todo endpoint the board needs.
type Remote interface {
	List(ctx context.Context, page, limit int) ([]model.Item, error)
	Create(ctx context.Context, title string) (model.Item, error)
	Update(ctx context.Context, id int, title string) error
	SetCompleted(ctx context.Context, id int, completed bool) error
	Delete(ctx context.Context, id int) error
}

// Options configure pagination.
type Options struct {
	PageSize        int
	PageSizeOptions []int
	// TotalEstimate is the assumed number of remote items; the endpoint does
	// not report one, so the page count is derived from this constant.
	TotalEstimate int
	// Now is the clock used to stamp notices. Defaults to time.Now.
	Now func() time.Time
}

// Action performs one remote request and describes its outcome.
type Action func(ctx context.Context) Result

// Result is the outcome of an Action, consumed by Board.Apply.
type Result interface {
	apply(b *Board)
}

// Board is the view state: current page, page size, items, loading flag,
// modal state and pending notices.
type Board struct {
	remote Remote
	opts   Options
	logger zerolog.Logger

	items    []model.Item
	page     int
	pageSize int
	loading  bool
	listSeq  uint64

	creating    bool
	createDraft string

	editing   bool
	selected  model.Item
	editDraft string

	notices    []Notice
	nextNotice int
}

// New creates a board that starts in the loading state, before Mount.
func New(remote Remote, opts Options) (*Board, error) {
	if remote == nil {
		return nil, fmt.Errorf("remote is required")
	}
	if len(opts.PageSizeOptions) == 0 {
		return nil, fmt.Errorf("page size options are required")
	}
	if !slices.Contains(opts.PageSizeOptions, opts.PageSize) {
		return nil, fmt.Errorf("page size %d is not one of %v", opts.PageSize, opts.PageSizeOptions)
	}
	if opts.TotalEstimate <= 0 {
		return nil, fmt.Errorf("total estimate must be positive (got %d)", opts.TotalEstimate)
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Board{
		remote:   remote,
		opts:     opts,
		logger:   logging.NewLogger("board"),
		items:    []model.Item{},
		page:     1,
		pageSize: opts.PageSize,
		loading:  true,
	}, nil
}

// Run performs a and applies its result inline. A nil Action is a no-op.
func (b *Board) Run(ctx context.Context, a Action) {
	if a == nil {
		return
	}
	b.Apply(a(ctx))
}

// Apply folds a result into the state. A nil Result is ignored.
func (b *Board) Apply(r Result) {
	if r == nil {
		return
	}
	r.apply(b)
}

// --- accessors ---

// Items returns a copy of the current collection.
func (b *Board) Items() []model.Item { return slices.Clone(b.items) }

func (b *Board) Page() int              { return b.page }
func (b *Board) PageSize() int          { return b.pageSize }
func (b *Board) PageSizeOptions() []int { return slices.Clone(b.opts.PageSizeOptions) }
func (b *Board) TotalEstimate() int     { return b.opts.TotalEstimate }
func (b *Board) Loading() bool          { return b.loading }

// PageCount is derived from the fixed total estimate, never from the server.
func (b *Board) PageCount() int {
	n := (b.opts.TotalEstimate + b.pageSize - 1) / b.pageSize
	if n < 1 {
		return 1
	}
	return n
}

func (b *Board) Creating() bool      { return b.creating }
func (b *Board) CreateDraft() string { return b.createDraft }
func (b *Board) Editing() bool       { return b.editing }
func (b *Board) EditDraft() string   { return b.editDraft }

// Selected returns the item being edited.
func (b *Board) Selected() (model.Item, bool) { return b.selected, b.editing }

// --- listing ---

// Mount starts the initial fetch.
func (b *Board) Mount() Action { return b.beginList() }

// Refresh refetches the current page.
func (b *Board) Refresh() Action { return b.beginList() }

// SetPage moves to page p (clamped to the pager's range) and fetches it.
func (b *Board) SetPage(p int) Action {
	if p < 1 {
		p = 1
	}
	if last := b.PageCount(); p > last {
		p = last
	}
	b.page = p
	return b.beginList()
}

// NextPage and PrevPage return nil at the edges.
func (b *Board) NextPage() Action {
	if b.page >= b.PageCount() {
		return nil
	}
	return b.SetPage(b.page + 1)
}

func (b *Board) PrevPage() Action {
	if b.page <= 1 {
		return nil
	}
	return b.SetPage(b.page - 1)
}

// SetPageSize switches to one of the configured sizes, resets to page 1 and
// fetches.
func (b *Board) SetPageSize(n int) (Action, error) {
	if !slices.Contains(b.opts.PageSizeOptions, n) {
		return nil, fmt.Errorf("page size %d is not one of %v", n, b.opts.PageSizeOptions)
	}
	b.pageSize = n
	b.page = 1
	return b.beginList(), nil
}

// CyclePageSize steps through the size options by delta, stopping at the
// ends. It returns nil when the size would not change.
func (b *Board) CyclePageSize(delta int) Action {
	i := slices.Index(b.opts.PageSizeOptions, b.pageSize) + delta
	if i < 0 || i >= len(b.opts.PageSizeOptions) {
		return nil
	}
	a, _ := b.SetPageSize(b.opts.PageSizeOptions[i])
	return a
}

func (b *Board) beginList() Action {
	b.loading = true
	b.listSeq++
	seq, page, limit := b.listSeq, b.page, b.pageSize
	remote := b.remote
	return func(ctx context.Context) Result {
		items, err := remote.List(ctx, page, limit)
		return listResult{seq: seq, page: page, limit: limit, items: items, err: err}
	}
}

type listResult struct {
	seq         uint64
	page, limit int
	items       []model.Item
	err         error
}

func (r listResult) apply(b *Board) {
	if r.seq != b.listSeq {
		b.logger.Debug().
			Int("page", r.page).
			Int("limit", r.limit).
			Msg("Dropping stale list result")
		return
	}
	b.loading = false
	if r.err != nil {
		b.logger.Error().Err(r.err).Int("page", r.page).Int("limit", r.limit).Msg("Failed to load todos")
		b.notify(NoticeError, "Failed to load todos: "+r.err.Error())
		return
	}
	b.items = slices.Clone(r.items)
	if b.items == nil {
		b.items = []model.Item{}
	}
}

// --- create ---

// OpenCreate shows the create form with an empty draft.
func (b *Board) OpenCreate() {
	b.creating = true
	b.createDraft = ""
}

func (b *Board) SetCreateDraft(s string) { b.createDraft = s }

func (b *Board) CancelCreate() {
	b.creating = false
	b.createDraft = ""
}

// ConfirmCreate returns nil without touching anything when the trimmed
// draft is empty.
func (b *Board) ConfirmCreate() Action {
	title := strings.TrimSpace(b.createDraft)
	if title == "" {
		return nil
	}
	remote := b.remote
	return func(ctx context.Context) Result {
		it, err := remote.Create(ctx, title)
		return createResult{item: it, err: err}
	}
}

type createResult struct {
	item model.Item
	err  error
}

func (r createResult) apply(b *Board) {
	if r.err != nil {
		b.logger.Error().Err(r.err).Msg("Failed to add todo")
		b.notify(NoticeError, "Failed to add todo: "+r.err.Error())
		return
	}
	b.items = append(b.items, r.item)
	b.creating = false
	b.createDraft = ""
	b.notify(NoticeSuccess, fmt.Sprintf("Added %q", r.item.Title))
}

// --- edit ---

// OpenEdit selects item id and pre-populates the draft with its title.
// It reports false when id is not on the current page.
func (b *Board) OpenEdit(id int) bool {
	i := b.indexOf(id)
	if i < 0 {
		return false
	}
	b.selected = b.items[i]
	b.editDraft = b.selected.Title
	b.editing = true
	return true
}

func (b *Board) SetEditDraft(s string) { b.editDraft = s }

func (b *Board) CancelEdit() {
	b.editing = false
	b.editDraft = ""
	b.selected = model.Item{}
}

// ConfirmEdit sends the draft title for the selected item. Like create, an
// empty trimmed draft is ignored.
func (b *Board) ConfirmEdit() Action {
	if !b.editing {
		return nil
	}
	title := strings.TrimSpace(b.editDraft)
	if title == "" {
		return nil
	}
	id := b.selected.ID
	remote := b.remote
	return func(ctx context.Context) Result {
		return updateResult{id: id, title: title, err: remote.Update(ctx, id, title)}
	}
}

type updateResult struct {
	id    int
	title string
	err   error
}

func (r updateResult) apply(b *Board) {
	if r.err != nil {
		b.logger.Error().Err(r.err).Int("id", r.id).Msg("Failed to update todo")
		b.notify(NoticeError, "Failed to update todo: "+r.err.Error())
		return
	}
	for i := range b.items {
		if b.items[i].ID == r.id {
			b.items[i].Title = r.title
		}
	}
	if b.editing && b.selected.ID == r.id {
		b.CancelEdit()
	}
	b.notify(NoticeSuccess, "Todo updated")
}

// --- toggle ---

// ToggleCompleted flips the completed flag of item id on the server.
// It returns nil when id is not on the current page.
func (b *Board) ToggleCompleted(id int) Action {
	i := b.indexOf(id)
	if i < 0 {
		return nil
	}
	completed := !b.items[i].Completed
	remote := b.remote
	return func(ctx context.Context) Result {
		return completeResult{id: id, completed: completed, err: remote.SetCompleted(ctx, id, completed)}
	}
}

type completeResult struct {
	id        int
	completed bool
	err       error
}

func (r completeResult) apply(b *Board) {
	if r.err != nil {
		b.logger.Error().Err(r.err).Int("id", r.id).Msg("Failed to update todo")
		b.notify(NoticeError, "Failed to update todo: "+r.err.Error())
		return
	}
	for i := range b.items {
		if b.items[i].ID == r.id {
			b.items[i].Completed = r.completed
		}
	}
	if r.completed {
		b.notify(NoticeSuccess, "Marked as completed")
	} else {
		b.notify(NoticeSuccess, "Marked as incomplete")
	}
}

// --- delete ---

// Delete always issues the request, even for ids not on the page.
func (b *Board) Delete(id int) Action {
	remote := b.remote
	return func(ctx context.Context) Result {
		return deleteResult{id: id, err: remote.Delete(ctx, id)}
	}
}

type deleteResult struct {
	id  int
	err error
}

func (r deleteResult) apply(b *Board) {
	if r.err != nil {
		b.logger.Error().Err(r.err).Int("id", r.id).Msg("Failed to delete todo")
		b.notify(NoticeError, "Failed to delete todo: "+r.err.Error())
		return
	}
	b.items = slices.DeleteFunc(b.items, func(it model.Item) bool { return it.ID == r.id })
	if b.editing && b.selected.ID == r.id {
		b.CancelEdit()
	}
	b.notify(NoticeSuccess, "Todo deleted")
}

func (b *Board) indexOf(id int) int {
	return slices.IndexFunc(b.items, func(it model.Item) bool { return it.ID == id })
}
