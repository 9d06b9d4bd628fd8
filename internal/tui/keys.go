package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap holds the TUI key bindings. Printable keys are left to the scan
// input and the quantity capture, so the bindings use control keys.
type keyMap struct {
	Submit     key.Binding
	Dismiss    key.Binding
	SwitchPane key.Binding
	ToggleView key.Binding
	ToggleEdit key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Submit:     key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "scan / confirm")),
		Dismiss:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "close dialog")),
		SwitchPane: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "scan input / lines")),
		ToggleView: key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "list / kanban")),
		ToggleEdit: key.NewBinding(key.WithKeys("ctrl+e"), key.WithHelp("ctrl+e", "edit / view")),
		Help:       key.NewBinding(key.WithKeys("f1"), key.WithHelp("f1", "help")),
		Quit:       key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.SwitchPane, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Submit, k.Dismiss, k.SwitchPane},
		{k.ToggleView, k.ToggleEdit, k.Help, k.Quit},
	}
}
