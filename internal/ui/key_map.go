package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the TUI.
type keyMap struct {
	up      key.Binding
	down    key.Binding
	enter   key.Binding
	back    key.Binding
	sync    key.Binding
	scan    key.Binding
	search  key.Binding
	refresh key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "log")),
		back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
		sync:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sync")),
		scan:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "scan")),
		search:  key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "search")),
		refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.up, k.down, k.enter, k.back},
		{k.sync, k.scan, k.search},
		{k.refresh, k.quit},
	}
}
