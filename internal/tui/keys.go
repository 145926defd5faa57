package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/trly/servicedeck/internal/unit"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Search  key.Binding
	Help    key.Binding
	Back    key.Binding
	Detail  key.Binding
	Edit    key.Binding
	Save    key.Binding
	Refresh key.Binding
	Sort    key.Binding
	Quit    key.Binding

	Start   key.Binding
	Stop    key.Binding
	Restart key.Binding
	Enable  key.Binding
	Disable key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Search: key.NewBinding(
			key.WithKeys("/", "ctrl+f"),
			key.WithHelp("/", "search"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close"),
		),
		Detail: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "unit file"),
		),
		Edit: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit"),
		),
		Save: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "save"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("ctrl+r", "f5"),
			key.WithHelp("ctrl+r", "refresh"),
		),
		Sort: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5"),
			key.WithHelp("1-5", "sort column"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Start: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "start"),
		),
		Stop: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "stop"),
		),
		Restart: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restart"),
		),
		Enable: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "enable"),
		),
		Disable: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "disable"),
		),
	}
}

// actionBinding returns the binding that triggers a.
func (k keyMap) actionBinding(a unit.Action) key.Binding {
	switch a {
	case unit.Start:
		return k.Start
	case unit.Stop:
		return k.Stop
	case unit.Restart:
		return k.Restart
	case unit.Enable:
		return k.Enable
	default:
		return k.Disable
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.Detail, k.Refresh, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Search, k.Back},
		{k.Start, k.Stop, k.Restart, k.Enable, k.Disable},
		{k.Detail, k.Edit, k.Save, k.Sort},
		{k.Refresh, k.Help, k.Quit},
	}
}
