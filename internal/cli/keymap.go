package cli

import "github.com/charmbracelet/bubbles/key"

// sessionsKeyMap binds the sessions view keys.
type sessionsKeyMap struct {
	Up          key.Binding
	Down        key.Binding
	PageUp      key.Binding
	PageDown    key.Binding
	Select      key.Binding
	SelectAll   key.Binding
	Open        key.Binding
	Search      key.Binding
	Filters     key.Binding
	Settings    key.Binding
	SortNext    key.Binding
	Undo        key.Binding
	Redo        key.Binding
	MoveRowUp   key.Binding
	MoveRowDown key.Binding
	ShareLink   key.Binding
	Refresh     key.Binding
	Back        key.Binding
	Quit        key.Binding
}

func newSessionsKeyMap() sessionsKeyMap {
	return sessionsKeyMap{
		Up:          key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "move up")),
		Down:        key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "move down")),
		PageUp:      key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
		PageDown:    key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
		Select:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "select row")),
		SelectAll:   key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		Open:        key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open session")),
		Search:      key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
		Filters:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "filters")),
		Settings:    key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "settings")),
		SortNext:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "cycle sort")),
		Undo:        key.NewBinding(key.WithKeys("ctrl+z"), key.WithHelp("ctrl+z", "undo filters")),
		Redo:        key.NewBinding(key.WithKeys("ctrl+y"), key.WithHelp("ctrl+y", "redo filters")),
		MoveRowUp:   key.NewBinding(key.WithKeys("K", "shift+up"), key.WithHelp("K", "move row up")),
		MoveRowDown: key.NewBinding(key.WithKeys("J", "shift+down"), key.WithHelp("J", "move row down")),
		ShareLink:   key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "share link")),
		Refresh:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Back:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		Quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}
