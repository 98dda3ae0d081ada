package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nathoo/dungeoncore/types"
)

// keyMap holds the map-mode bindings.
type keyMap struct {
	North   key.Binding
	South   key.Binding
	East    key.Binding
	West    key.Binding
	PickUp  key.Binding
	UseItem key.Binding
	Wait    key.Binding
	Command key.Binding
	Help    key.Binding
	Quit    key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		North:   key.NewBinding(key.WithKeys("up", "w", "k"), key.WithHelp("↑/w/k", "north")),
		South:   key.NewBinding(key.WithKeys("down", "s", "j"), key.WithHelp("↓/s/j", "south")),
		East:    key.NewBinding(key.WithKeys("right", "d", "l"), key.WithHelp("→/d/l", "east")),
		West:    key.NewBinding(key.WithKeys("left", "a", "h"), key.WithHelp("←/a/h", "west")),
		PickUp:  key.NewBinding(key.WithKeys("g", ","), key.WithHelp("g", "pick up")),
		UseItem: key.NewBinding(key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"), key.WithHelp("1-9", "use item")),
		Wait:    key.NewBinding(key.WithKeys(".", "z"), key.WithHelp(".", "wait")),
		Command: key.NewBinding(key.WithKeys(":", "/"), key.WithHelp(":", "command")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.North, k.PickUp, k.UseItem, k.Wait, k.Command, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.North, k.South, k.East, k.West},
		{k.PickUp, k.UseItem, k.Wait},
		{k.Command, k.Help, k.Quit},
	}
}

// direction maps a key press to a movement direction.
func (k keyMap) direction(msg tea.KeyMsg) (types.Direction, bool) {
	switch {
	case key.Matches(msg, k.North):
		return types.North, true
	case key.Matches(msg, k.South):
		return types.South, true
	case key.Matches(msg, k.East):
		return types.East, true
	case key.Matches(msg, k.West):
		return types.West, true
	}
	return 0, false
}

// viewportKeyMap returns a log keymap that leaves the arrows to movement.
func viewportKeyMap() viewport.KeyMap {
	return viewport.KeyMap{
		PageDown:     key.NewBinding(key.WithKeys("pgdown")),
		PageUp:       key.NewBinding(key.WithKeys("pgup")),
		HalfPageDown: key.NewBinding(key.WithKeys("ctrl+d")),
		HalfPageUp:   key.NewBinding(key.WithKeys("ctrl+u")),
		Up:           key.NewBinding(key.WithDisabled()),
		Down:         key.NewBinding(key.WithDisabled()),
	}
}
