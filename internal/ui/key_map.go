package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	toggle    key.Binding
	reset     key.Binding
	workUp    key.Binding
	workDown  key.Binding
	breakUp   key.Binding
	breakDown key.Binding
	focus     key.Binding
	insert    key.Binding
	auth      key.Binding
	add       key.Binding
	check     key.Binding
	remove    key.Binding
	up        key.Binding
	down      key.Binding
	dismiss   key.Binding
	back      key.Binding
	help      key.Binding
	quit      key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		toggle:    key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		reset:     key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset")),
		workUp:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "work ±1m")),
		workDown:  key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "work -1m")),
		breakUp:   key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "break ±1m")),
		breakDown: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "break -1m")),
		focus:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
		insert:    key.NewBinding(key.WithKeys("i"), key.WithHelp("i", "new task")),
		auth:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "spotify auth")),
		add:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "add")),
		check:     key.NewBinding(key.WithKeys("x", "enter"), key.WithHelp("x", "done/undo")),
		remove:    key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		up:        key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:      key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		dismiss:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "dismiss")),
		back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		help:      key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more")),
		quit:      key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.toggle, k.reset, k.focus, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.toggle, k.reset, k.workUp, k.breakUp},
		{k.focus, k.insert, k.check, k.remove},
		{k.up, k.down, k.auth, k.quit},
	}
}
