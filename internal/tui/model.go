// Package tui is the interactive todo board: paginated cards, create and
// edit forms, and toasts, driven by a board.Board.
package tui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/paginator"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/idilsaglam/todoboard/internal/board"
	"github.com/idilsaglam/todoboard/internal/model"
	"github.com/idilsaglam/todoboard/internal/ui"
)

// Options tune the board's presentation.
type Options struct {
	// ToastDuration is how long a notice stays on screen.
	ToastDuration time.Duration
	// SkeletonRows is the number of placeholder rows shown while loading.
	SkeletonRows int
	AltScreen    bool
}

// resultMsg carries a finished board.Action back onto the event loop.
type resultMsg struct{ result board.Result }

type dismissMsg struct{ id int }

// Model implements tea.Model on top of a board.Board.
type Model struct {
	ctx   context.Context
	board *board.Board
	opts  Options

	keys    keyMap
	form    formKeys
	help    help.Model
	spinner spinner.Model
	pager   paginator.Model
	input   textinput.Model

	cursor        int
	width, height int
	submitting    bool
	lastNotice    int
	quitting      bool
}

// New creates the model. Remote calls made by b run with ctx.
func New(ctx context.Context, b *board.Board, opts Options) Model {
	if opts.ToastDuration <= 0 {
		opts.ToastDuration = 3 * time.Second
	}
	if opts.SkeletonRows <= 0 {
		opts.SkeletonRows = 5
	}
	keys := defaultKeys()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = ui.Current().Accent

	pg := paginator.New()
	pg.Type = paginator.Arabic
	pg.ArabicFormat = "page %d of %d"

	ti := textinput.New()
	ti.Prompt = "> "
	ti.CharLimit = 200

	return Model{
		ctx:     ctx,
		board:   b,
		opts:    opts,
		keys:    keys,
		form:    formKeys{confirm: keys.Confirm, cancel: keys.Cancel},
		help:    help.New(),
		spinner: sp,
		pager:   pg,
		input:   ti,
	}
}

// Run starts the program and blocks until the user quits or ctx ends.
func Run(ctx context.Context, b *board.Board, opts Options) error {
	progOpts := []tea.ProgramOption{tea.WithContext(ctx)}
	if opts.AltScreen {
		progOpts = append(progOpts, tea.WithAltScreen())
	}
	_, err := tea.NewProgram(New(ctx, b, opts), progOpts...).Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.run(m.board.Mount()), m.spinner.Tick)
}

// run turns a board action into a command; nil stays nil.
func (m Model) run(a board.Action) tea.Cmd {
	if a == nil {
		return nil
	}
	ctx := m.ctx
	return func() tea.Msg { return resultMsg{result: a(ctx)} }
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case resultMsg:
		m.board.Apply(msg.result)
		m.submitting = false
		if !m.formOpen() {
			m.input.Blur()
		}
		m.clampCursor()
		return m, m.scheduleDismiss()

	case dismissMsg:
		m.board.Dismiss(msg.id)
		return m, nil

	case tea.KeyMsg:
		if m.formOpen() {
			return m.updateForm(msg)
		}
		return m.updateBoard(msg)
	}

	if m.formOpen() {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateBoard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.board.Items())-1 {
			m.cursor++
		}

	case key.Matches(msg, m.keys.PrevPage):
		return m.fetch(m.board.PrevPage())

	case key.Matches(msg, m.keys.NextPage):
		return m.fetch(m.board.NextPage())

	case key.Matches(msg, m.keys.Smaller):
		return m.fetch(m.board.CyclePageSize(-1))

	case key.Matches(msg, m.keys.Larger):
		return m.fetch(m.board.CyclePageSize(1))

	case key.Matches(msg, m.keys.Refresh):
		return m.fetch(m.board.Refresh())

	case key.Matches(msg, m.keys.Add):
		m.board.OpenCreate()
		m.input.Reset()
		m.input.Placeholder = "What needs doing?"
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Edit):
		it, ok := m.current()
		if !ok || !m.board.OpenEdit(it.ID) {
			return m, nil
		}
		m.input.Placeholder = "New title"
		m.input.SetValue(m.board.EditDraft())
		m.input.CursorEnd()
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.Delete):
		if it, ok := m.current(); ok {
			return m, m.run(m.board.Delete(it.ID))
		}

	case key.Matches(msg, m.keys.Toggle):
		if it, ok := m.current(); ok {
			return m, m.run(m.board.ToggleCompleted(it.ID))
		}
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case msg.String() == "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Cancel):
		if m.board.Creating() {
			m.board.CancelCreate()
		} else {
			m.board.CancelEdit()
		}
		m.input.Reset()
		m.input.Blur()
		m.submitting = false
		return m, nil

	case key.Matches(msg, m.keys.Confirm):
		if m.submitting {
			return m, nil
		}
		var a board.Action
		if m.board.Creating() {
			a = m.board.ConfirmCreate()
		} else {
			a = m.board.ConfirmEdit()
		}
		m.submitting = a != nil
		return m, m.run(a)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.board.Creating() {
		m.board.SetCreateDraft(m.input.Value())
	} else {
		m.board.SetEditDraft(m.input.Value())
	}
	return m, cmd
}

// fetch resets the cursor for a page or size change.
func (m Model) fetch(a board.Action) (tea.Model, tea.Cmd) {
	if a != nil {
		m.cursor = 0
	}
	return m, m.run(a)
}

func (m Model) formOpen() bool { return m.board.Creating() || m.board.Editing() }

// current is the item under the cursor; nothing is selectable while loading.
func (m Model) current() (model.Item, bool) {
	if m.board.Loading() {
		return model.Item{}, false
	}
	items := m.board.Items()
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.Item{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.board.Items())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

// scheduleDismiss starts a timer for every notice not seen yet.
func (m *Model) scheduleDismiss() tea.Cmd {
	var cmds []tea.Cmd
	for _, n := range m.board.Notices() {
		if n.ID <= m.lastNotice {
			continue
		}
		m.lastNotice = n.ID
		id := n.ID
		cmds = append(cmds, tea.Tick(m.opts.ToastDuration, func(time.Time) tea.Msg {
			return dismissMsg{id: id}
		}))
	}
	return tea.Batch(cmds...)
}
