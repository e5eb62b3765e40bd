package ui

import (
	"fmt"

	"github.com/idilsaglam/todoboard/internal/model"
)

const maxTitle = 80

// Header renders the count line shown above a list of items.
func Header(title string, items []model.Item) string {
	t := Current()
	d, p := model.Stats(items)
	return fmt.Sprintf("%s  %s %d  %s %d  %s %d",
		t.Title.Render(title),
		t.Success.Render(t.SymDone), d,
		t.Pending.Render(t.SymPending), p,
		t.Accent.Render("Total"), len(items),
	)
}

// ItemLine renders one item as "#id box title".
func ItemLine(it model.Item) string {
	t := Current()
	box := t.Muted.Render(t.BoxUnchecked)
	title := Truncate(it.Title, maxTitle)
	if it.Completed {
		box = t.Success.Render(t.BoxChecked)
		title = t.Done.Render(title)
	}
	return fmt.Sprintf("%s %s %s", t.Muted.Render(fmt.Sprintf("#%-4d", it.ID)), box, title)
}

// FlatLines renders items in server order.
func FlatLines(items []model.Item) []string {
	if len(items) == 0 {
		return []string{Current().Muted.Render("no items")}
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, ItemLine(it))
	}
	return out
}

// GroupLines renders pending items first, then completed ones.
func GroupLines(items []model.Item) []string {
	t := Current()
	var pend, done []model.Item
	for _, it := range items {
		if it.Completed {
			done = append(done, it)
		} else {
			pend = append(pend, it)
		}
	}
	section := func(name string, in []model.Item) []string {
		lines := []string{t.Accent.Render(name)}
		if len(in) == 0 {
			return append(lines, t.Muted.Render("(none)"))
		}
		return append(lines, FlatLines(in)...)
	}
	lines := section("Pending", pend)
	lines = append(lines, "")
	return append(lines, section("Done", done)...)
}
