package interview

import "github.com/charmbracelet/bubbles/key"

// keyMap lists the interview bindings.
type keyMap struct {
	Start  key.Binding
	Resume key.Binding
	New    key.Binding
	Submit key.Binding
	Mode   key.Binding
	Record key.Binding
	Quit   key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Start:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "start")),
		Resume: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "resume")),
		New:    key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "start new")),
		Submit: key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Mode:   key.NewBinding(key.WithKeys("ctrl+t"), key.WithHelp("ctrl+t", "text/voice")),
		Record: key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "record")),
		Quit:   key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Submit, k.Mode, k.Record, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Start, k.Resume, k.New}, k.ShortHelp()}
}
