package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up, Down        key.Binding
	PrevPage        key.Binding
	NextPage        key.Binding
	Smaller, Larger key.Binding
	Add, Edit       key.Binding
	Delete, Toggle  key.Binding
	Refresh         key.Binding
	Confirm, Cancel key.Binding
	Help, Quit      key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		PrevPage: key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "prev page")),
		NextPage: key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next page")),
		Smaller:  key.NewBinding(key.WithKeys("["), key.WithHelp("[", "smaller pages")),
		Larger:   key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "larger pages")),
		Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Toggle:   key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle done")),
		Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Confirm:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Add, k.Edit, k.Delete, k.Toggle, k.PrevPage, k.NextPage, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage},
		{k.Smaller, k.Larger, k.Refresh},
		{k.Add, k.Edit, k.Delete, k.Toggle},
		{k.Help, k.Quit},
	}
}

// formKeys is shown while a modal form is open.
type formKeys struct{ confirm, cancel key.Binding }

func (k formKeys) ShortHelp() []key.Binding  { return []key.Binding{k.confirm, k.cancel} }
func (k formKeys) FullHelp() [][]key.Binding { return [][]key.Binding{k.ShortHelp()} }
