package dialog

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings shared by all dialogs.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Left   key.Binding
	Right  key.Binding
	Next   key.Binding
	Prev   key.Binding
	Enter  key.Binding
	Toggle key.Binding
	Esc    key.Binding
	Cancel key.Binding
	Yes    key.Binding
	No     key.Binding
	Copy   key.Binding
}

// DefaultKeyMap returns a KeyMap with default bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("↓/j", "down"),
		),
		Left: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "left"),
		),
		Right: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "right"),
		),
		Next: key.NewBinding(
			key.WithKeys("tab", "down"),
			key.WithHelp("tab", "next field"),
		),
		Prev: key.NewBinding(
			key.WithKeys("shift+tab", "up"),
			key.WithHelp("shift+tab", "previous field"),
		),
		Enter: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "ok"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "space"),
			key.WithHelp("space", "toggle"),
		),
		Esc: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "cancel"),
		),
		Yes: key.NewBinding(
			key.WithKeys("y", "Y"),
			key.WithHelp("y", "yes"),
		),
		No: key.NewBinding(
			key.WithKeys("n", "N"),
			key.WithHelp("n", "no"),
		),
		Copy: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "copy"),
		),
	}
}

// bindings adapts a fixed set of bindings to help.KeyMap.
type bindings []key.Binding

func (b bindings) ShortHelp() []key.Binding  { return b }
func (b bindings) FullHelp() [][]key.Binding { return [][]key.Binding{b} }

func (k KeyMap) menuHelp() bindings {
	return bindings{k.Up, k.Down, k.Enter, k.Esc}
}

func (k KeyMap) formHelp() bindings {
	return bindings{k.Next, k.Prev, k.Enter, k.Esc}
}

func (k KeyMap) checklistHelp() bindings {
	return bindings{k.Up, k.Down, k.Toggle, k.Enter, k.Esc}
}

func (k KeyMap) yesNoHelp() bindings {
	return bindings{k.Yes, k.No, k.Left, k.Right, k.Enter, k.Esc}
}

func (k KeyMap) msgboxHelp(copyable bool) bindings {
	if copyable {
		return bindings{k.Up, k.Down, k.Copy, k.Enter}
	}
	return bindings{k.Up, k.Down, k.Enter}
}
