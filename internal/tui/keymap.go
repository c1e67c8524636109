package tui

import (
	"github.com/charmbracelet/bubbles/key"
)

type listKeyMap struct {
	Up             key.Binding
	Down           key.Binding
	PageUp         key.Binding
	PageDown       key.Binding
	QuickUpload    key.Binding
	AdvancedUpload key.Binding
	Refresh        key.Binding
	LoadMore       key.Binding
	OpenWeb        key.Binding
	Help           key.Binding
	Quit           key.Binding
}

type selectionKeyMap struct {
	Up        key.Binding
	Down      key.Binding
	Toggle    key.Binding
	SelectAll key.Binding
	SelectNo  key.Binding
	Upload    key.Binding
	Cancel    key.Binding
}

type keyMap struct {
	selectionActive bool

	list      listKeyMap
	selection selectionKeyMap
}

func newKeyMap() keyMap {
	return keyMap{
		list: listKeyMap{
			Up:       key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
			Down:     key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
			PageUp:   key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "page up")),
			PageDown: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "page down")),
			QuickUpload: key.NewBinding(
				key.WithKeys("u"),
				key.WithHelp("u", "quick upload"),
			),
			AdvancedUpload: key.NewBinding(
				key.WithKeys("U"),
				key.WithHelp("U", "upload with options"),
			),
			Refresh:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
			LoadMore: key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "more")),
			OpenWeb: key.NewBinding(
				key.WithKeys("o"),
				key.WithHelp("o", "open Paperless"),
			),
			Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
			Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		},
		selection: selectionKeyMap{
			Up:     key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k", "up")),
			Down:   key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j", "down")),
			Toggle: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
			SelectAll: key.NewBinding(
				key.WithKeys("a"),
				key.WithHelp("a", "select all"),
			),
			SelectNo: key.NewBinding(
				key.WithKeys("n"),
				key.WithHelp("n", "select none"),
			),
			Upload: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "upload")),
			Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		},
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	if k.selectionActive {
		return []key.Binding{
			k.selection.Toggle,
			k.selection.Upload,
			k.selection.Cancel,
		}
	}
	return []key.Binding{
		k.list.QuickUpload,
		k.list.AdvancedUpload,
		k.list.Help,
		k.list.Quit,
	}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	if k.selectionActive {
		return [][]key.Binding{
			{k.selection.Up, k.selection.Down, k.selection.Toggle},
			{k.selection.SelectAll, k.selection.SelectNo},
			{k.selection.Upload, k.selection.Cancel},
		}
	}
	return [][]key.Binding{
		{k.list.Up, k.list.Down, k.list.PageUp, k.list.PageDown},
		{k.list.QuickUpload, k.list.AdvancedUpload},
		{k.list.Refresh, k.list.LoadMore, k.list.OpenWeb},
		{k.list.Help, k.list.Quit},
	}
}

func (m *Model) keyMap() keyMap {
	km := m.keys
	km.selectionActive = m.selection.active
	return km
}
