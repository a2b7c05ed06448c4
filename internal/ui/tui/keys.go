package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle     key.Binding
	Reset      key.Binding
	Work       key.Binding
	ShortBreak key.Binding
	LongBreak  key.Binding
	NextSound  key.Binding
	PrevSound  key.Binding
	PlaySound  key.Binding
	VolumeUp   key.Binding
	VolumeDown key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Toggle:     key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "start/pause")),
		Reset:      key.NewBinding(key.WithKeys("r", "R"), key.WithHelp("r", "reset")),
		Work:       key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "focus")),
		ShortBreak: key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "short break")),
		LongBreak:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "long break")),
		NextSound:  key.NewBinding(key.WithKeys("s", "down", "j"), key.WithHelp("s/↓", "next sound")),
		PrevSound:  key.NewBinding(key.WithKeys("S", "up", "k"), key.WithHelp("S/↑", "previous sound")),
		PlaySound:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "play/stop sound")),
		VolumeUp:   key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "volume up")),
		VolumeDown: key.NewBinding(key.WithKeys("-", "_"), key.WithHelp("-", "volume down")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "more keys")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (keys keyMap) ShortHelp() []key.Binding {
	return []key.Binding{keys.Toggle, keys.Reset, keys.PlaySound, keys.Help, keys.Quit}
}

// FullHelp implements help.KeyMap.
func (keys keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{keys.Toggle, keys.Reset, keys.Work, keys.ShortBreak, keys.LongBreak},
		{keys.NextSound, keys.PrevSound, keys.PlaySound, keys.VolumeUp, keys.VolumeDown},
		{keys.Help, keys.Quit},
	}
}
