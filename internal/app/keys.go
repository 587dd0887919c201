package app

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines all keyboard bindings for the TUI.
type KeyMap struct {
	Up        key.Binding
	Down      key.Binding
	PageUp    key.Binding
	PageDown  key.Binding
	Tab       key.Binding
	LastHeard key.Binding
	Clients   key.Binding
	Users     key.Binding
	Peers     key.Binding
	Modules   key.Binding
	Info      key.Binding
	Module    key.Binding
	Select    key.Binding
	Escape    key.Binding
	Quit      key.Binding
	Debug     key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "scroll up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "scroll down"),
		),
		PageUp: key.NewBinding(
			key.WithKeys("pgup", "ctrl+u"),
			key.WithHelp("pgup", "page up"),
		),
		PageDown: key.NewBinding(
			key.WithKeys("pgdown", "ctrl+d"),
			key.WithHelp("pgdn", "page down"),
		),
		Tab: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "next view"),
		),
		LastHeard: key.NewBinding(
			key.WithKeys("1"),
			key.WithHelp("1", "last heard"),
		),
		Clients: key.NewBinding(
			key.WithKeys("2"),
			key.WithHelp("2", "clients"),
		),
		Users: key.NewBinding(
			key.WithKeys("3"),
			key.WithHelp("3", "users"),
		),
		Peers: key.NewBinding(
			key.WithKeys("4"),
			key.WithHelp("4", "peers"),
		),
		Modules: key.NewBinding(
			key.WithKeys("5"),
			key.WithHelp("5", "modules"),
		),
		Info: key.NewBinding(
			key.WithKeys("6"),
			key.WithHelp("6", "reflector info"),
		),
		Module: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "cycle module filter"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "hearing details"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "close overlay"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Debug: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "event log"),
		),
	}
}
