package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/idilsaglam/todoboard/internal/model"
)

func withTheme(t *testing.T, name string) {
	t.Helper()
	require.True(t, SetTheme(name))
	t.Cleanup(func() { SetTheme("classic") })
}

func TestProgressBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		want               string
	}{
		{5, 10, 10, "█████░░░░░  50%"},
		{0, 0, 10, "░░░░░░░░░░   0%"},
		{3, 3, 2, "█████ 100%"},
		{12, 10, 5, "█████ 100%"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ProgressBar(tt.done, tt.total, tt.width))
	}
}

func TestSetTheme(t *testing.T) {
	t.Cleanup(func() { SetTheme("classic") })

	assert.True(t, SetTheme("NEON"))
	assert.Equal(t, "neon", Current().Name)

	assert.False(t, SetTheme("solarized"))
	assert.Equal(t, "classic", Current().Name)
}

func TestPanelString_Mono(t *testing.T) {
	withTheme(t, "mono")

	out := PanelString([]string{"hello", "wide line"}, 0)
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "+"))
	assert.Contains(t, lines[1], "| hello")
	assert.Contains(t, lines[2], "wide line |")
}

func TestPanelString_FixedWidth(t *testing.T) {
	withTheme(t, "mono")

	out := PanelString([]string{"x"}, 30)
	for _, ln := range strings.Split(out, "\n") {
		assert.Equal(t, 30, len(ln))
	}
}

func TestItemLines(t *testing.T) {
	withTheme(t, "mono")
	items := []model.Item{
		{ID: 1, Title: "write docs"},
		{ID: 3, Title: "ship", Completed: true},
		{ID: 4, Title: "review"},
	}

	assert.Contains(t, ItemLine(items[1]), "#3")
	assert.Contains(t, ItemLine(items[1]), "[x] ship")
	assert.Contains(t, ItemLine(items[0]), "[ ] write docs")

	grouped := GroupLines(items)
	assert.Equal(t, "Pending", grouped[0])
	assert.Contains(t, grouped[1], "write docs")
	assert.Contains(t, grouped[2], "review")
	assert.Equal(t, "", grouped[3])
	assert.Equal(t, "Done", grouped[4])
	assert.Contains(t, grouped[5], "ship")

	assert.Equal(t, []string{"no items"}, FlatLines(nil))
	assert.Contains(t, GroupLines(items[:1]), "(none)")

	assert.Equal(t, "Todos  x 1  - 2  Total 3", Header("Todos", items))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "abcde...", Truncate("abcdefghij", 8))
}

func TestOKAndFail(t *testing.T) {
	withTheme(t, "mono")
	var buf bytes.Buffer

	OK(&buf, "added #4")
	Fail(&buf, "boom")
	assert.Equal(t, "ok added #4\nerror: boom\n", buf.String())
}

func TestWidth_NotATerminal(t *testing.T) {
	assert.Equal(t, 80, Width(nil))
}
