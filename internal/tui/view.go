package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/idilsaglam/todoboard/internal/board"
	"github.com/idilsaglam/todoboard/internal/model"
	"github.com/idilsaglam/todoboard/internal/ui"
)

const (
	// cardHeight is two content lines plus the border.
	cardHeight = 4
	// chromeLines is everything around the cards: header, footer, toasts, help.
	chromeLines = 10
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}
	items := m.board.Items()

	sections := []string{ui.Header("Todos", items), ""}
	switch {
	case m.board.Creating():
		sections = append(sections, m.formView("Add todo"))
	case m.board.Editing():
		sel, _ := m.board.Selected()
		sections = append(sections, m.formView(fmt.Sprintf("Edit todo #%d", sel.ID)))
	case m.board.Loading():
		sections = append(sections, m.skeletonView())
	default:
		sections = append(sections, m.cardsView(items))
	}
	sections = append(sections, "", m.footerView())
	if toasts := m.toastView(); toasts != "" {
		sections = append(sections, toasts)
	}
	if m.formOpen() {
		sections = append(sections, m.help.View(m.form))
	} else {
		sections = append(sections, m.help.View(m.keys))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) skeletonView() string {
	t := ui.Current()
	rows := make([]string, 0, m.opts.SkeletonRows)
	for i := 0; i < m.opts.SkeletonRows; i++ {
		bar := strings.Repeat("░", 24+(i*7)%16)
		rows = append(rows, m.spinner.View()+" "+t.Muted.Render(bar))
	}
	return strings.Join(rows, "\n")
}

func (m Model) cardsView(items []model.Item) string {
	if len(items) == 0 {
		return ui.Current().Muted.Render("No todos on this page.")
	}

	visible := len(items)
	if m.height > 0 {
		visible = max(1, (m.height-chromeLines)/cardHeight)
	}
	start := 0
	if m.cursor >= visible {
		start = m.cursor - visible + 1
	}
	end := min(len(items), start+visible)

	cards := make([]string, 0, end-start)
	for i := start; i < end; i++ {
		cards = append(cards, m.card(items[i], i == m.cursor))
	}
	if end < len(items) || start > 0 {
		cards = append(cards, ui.Current().Muted.Render(fmt.Sprintf("%d-%d of %d on this page", start+1, end, len(items))))
	}
	return strings.Join(cards, "\n")
}

func (m Model) card(it model.Item, selected bool) string {
	t := ui.Current()

	cursor, box, title := " ", t.BoxUnchecked, it.Title
	status := t.Pending.Render(it.Status())
	if it.Completed {
		box = t.BoxChecked
		status = t.Success.Render(it.Status())
	}
	if m.width > 0 {
		title = ui.Truncate(title, m.width-12)
	}
	if it.Completed {
		title = t.Done.Render(title)
	}

	style := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.BorderColor).
		Padding(0, 1)
	if m.width > 0 {
		style = style.Width(m.width - 2)
	}
	if selected {
		cursor = ">"
		style = style.BorderForeground(t.Highlight)
		title = t.Selected.Render(title)
	}

	lines := []string{
		fmt.Sprintf("%s %s %s", cursor, box, title),
		fmt.Sprintf("  %s %s", t.Muted.Render("#"+strconv.Itoa(it.ID)), status),
	}
	return style.Render(strings.Join(lines, "\n"))
}

func (m Model) formView(title string) string {
	t := ui.Current()
	box := lipgloss.NewStyle().
		Border(t.Border).
		BorderForeground(t.Highlight).
		Padding(0, 1)
	if m.width > 0 {
		box = box.Width(min(m.width-2, 60))
	}
	body := t.Title.Render(title) + "\n" + m.input.View()
	if m.submitting {
		body += "\n" + m.spinner.View() + t.Muted.Render(" saving...")
	}
	return box.Render(body)
}

func (m Model) footerView() string {
	t := ui.Current()

	p := m.pager
	p.PerPage = m.board.PageSize()
	p.SetTotalPages(m.board.TotalEstimate())
	p.Page = m.board.Page() - 1

	sizes := make([]string, 0, len(m.board.PageSizeOptions()))
	for _, n := range m.board.PageSizeOptions() {
		if n == m.board.PageSize() {
			sizes = append(sizes, t.Accent.Render("["+strconv.Itoa(n)+"]"))
		} else {
			sizes = append(sizes, t.Muted.Render(strconv.Itoa(n)))
		}
	}
	return p.View() + t.Muted.Render("  •  per page: ") + strings.Join(sizes, " ")
}

func (m Model) toastView() string {
	t := ui.Current()
	notices := m.board.Notices()
	lines := make([]string, 0, len(notices))
	for _, n := range notices {
		if n.Kind == board.NoticeError {
			lines = append(lines, t.Error.Render(t.SymFail+" "+n.Text))
		} else {
			lines = append(lines, t.Success.Render(t.SymOK+" "+n.Text))
		}
	}
	return strings.Join(lines, "\n")
}
