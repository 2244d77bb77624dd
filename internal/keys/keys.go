// Package keys contains keybinding definitions.
package keys

import "github.com/charmbracelet/bubbles/key"

// FormKeyMap defines the keybindings for the sign-up form.
type FormKeyMap struct {
	// Navigation
	NextField key.Binding
	PrevField key.Binding

	// Actions
	Submit     key.Binding
	ToggleRole key.Binding
	Login      key.Binding

	// General
	Logs key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k FormKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.NextField, k.Submit, k.ToggleRole, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k FormKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.NextField, k.PrevField},        // Navigation
		{k.Submit, k.ToggleRole, k.Login}, // Actions
		{k.Logs, k.Quit},                  // General
	}
}

// Form holds the sign-up form bindings.
var Form = FormKeyMap{
	NextField: key.NewBinding(
		key.WithKeys("tab", "down"),
		key.WithHelp("tab/↓", "next field"),
	),
	PrevField: key.NewBinding(
		key.WithKeys("shift+tab", "up"),
		key.WithHelp("shift+tab/↑", "previous field"),
	),
	Submit: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "sign up"),
	),
	ToggleRole: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("ctrl+r", "student/doctor"),
	),
	Login: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "log in instead"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "toggle logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("ctrl+c", "quit"),
	),
}

// LandingKeyMap defines the keybindings for the landing and login screens.
type LandingKeyMap struct {
	Back key.Binding
	Logs key.Binding
	Quit key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k LandingKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k LandingKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Back, k.Logs, k.Quit}}
}

// Landing holds the landing screen bindings.
var Landing = LandingKeyMap{
	Back: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "back to sign up"),
	),
	Logs: key.NewBinding(
		key.WithKeys("ctrl+x"),
		key.WithHelp("ctrl+x", "toggle logs"),
	),
	Quit: key.NewBinding(
		key.WithKeys("q", "ctrl+c"),
		key.WithHelp("q", "quit"),
	),
}
