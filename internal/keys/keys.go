// Package keys contains keybinding definitions for help output.
package keys

import "github.com/charmbracelet/bubbles/key"

// TextpadKeyMap lists the textpad keys worth advertising. Dispatch itself
// goes through the textbox command table; these bindings only feed
// bubbles/help and the cancel check.
type TextpadKeyMap struct {
	// Motion
	Move      key.Binding
	LineStart key.Binding
	LineEnd   key.Binding

	// Editing
	DeleteLeft key.Binding
	DeleteChar key.Binding
	KillLine   key.Binding
	Newline    key.Binding
	InsertLine key.Binding

	// Session
	Refresh key.Binding
	Finish  key.Binding
	Cancel  key.Binding
}

// Textpad is the default textpad key map.
var Textpad = TextpadKeyMap{
	Move: key.NewBinding(
		key.WithKeys("up", "down", "left", "right", "ctrl+p", "ctrl+n", "ctrl+b", "ctrl+f"),
		key.WithHelp("↑↓←→", "move"),
	),
	LineStart: key.NewBinding(
		key.WithKeys("ctrl+a", "home"),
		key.WithHelp("ctrl+a", "line start"),
	),
	LineEnd: key.NewBinding(
		key.WithKeys("ctrl+e", "end"),
		key.WithHelp("ctrl+e", "line end"),
	),
	DeleteLeft: key.NewBinding(
		key.WithKeys("backspace", "ctrl+h"),
		key.WithHelp("backspace", "delete left"),
	),
	DeleteChar: key.NewBinding(
		key.WithKeys("delete", "ctrl+d"),
		key.WithHelp("ctrl+d", "delete"),
	),
	KillLine: key.NewBinding(
		key.WithKeys("ctrl+k"),
		key.WithHelp("ctrl+k", "kill line"),
	),
	Newline: key.NewBinding(
		key.WithKeys("enter", "ctrl+j"),
		key.WithHelp("enter", "next line"),
	),
	InsertLine: key.NewBinding(
		key.WithKeys("ctrl+o"),
		key.WithHelp("ctrl+o", "open line"),
	),
	Refresh: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "redraw"),
	),
	Finish: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "done"),
	),
	Cancel: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "cancel"),
	),
}

// ShortHelp returns keybindings for the one-line help view.
func (k TextpadKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Finish, k.KillLine, k.Cancel}
}

// FullHelp returns keybindings for the full help view.
func (k TextpadKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Move, k.LineStart, k.LineEnd},                                  // Motion
		{k.DeleteLeft, k.DeleteChar, k.KillLine, k.Newline, k.InsertLine}, // Editing
		{k.Refresh, k.Finish, k.Cancel},                                   // Session
	}
}

// ReviewKeyMap is shown while stepping through unreviewed hosts.
type ReviewKeyMap struct {
	Accept key.Binding
	Skip   key.Binding
	Quit   key.Binding
}

// Review is the default review key map.
var Review = ReviewKeyMap{
	Accept: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "save & mark reviewed"),
	),
	Skip: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "skip host"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+q"),
		key.WithHelp("ctrl+q", "stop reviewing"),
	),
}

// ShortHelp returns keybindings for the one-line help view.
func (k ReviewKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.Skip, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k ReviewKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Accept, k.Skip, k.Quit}}
}
