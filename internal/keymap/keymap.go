// Package keymap builds the logical-action-to-key bindings the mode
// controller consumes. Bindings come from configuration by action name and
// fall back to built-in defaults per action when missing or malformed.
package keymap

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
)

// Map holds one binding per logical action. Normal-mode movement uses
// letter keys; Insert mode gets its own bindings because letters there
// belong to the query.
type Map struct {
	MoveUp   key.Binding
	MoveDown key.Binding
	Top      key.Binding
	Bottom   key.Binding
	Parent   key.Binding
	Activate key.Binding
	Back     key.Binding

	ToggleSelect key.Binding
	ToggleHidden key.Binding
	Refresh      key.Binding
	Yank         key.Binding
	Open         key.Binding

	Quit    key.Binding
	Help    key.Binding
	Command key.Binding

	InsertUp     key.Binding
	InsertDown   key.Binding
	InsertSelect key.Binding
}

// Default returns the built-in bindings.
func Default() Map {
	return Map{
		MoveUp:   key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "move up")),
		MoveDown: key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "move down")),
		Top:      key.NewBinding(key.WithKeys("g", "home"), key.WithHelp("g", "go to top")),
		Bottom:   key.NewBinding(key.WithKeys("G", "end"), key.WithHelp("G", "go to bottom")),
		Parent:   key.NewBinding(key.WithKeys("h", "left", "backspace"), key.WithHelp("h/←", "parent directory")),
		Activate: key.NewBinding(key.WithKeys("enter", "l", "right"), key.WithHelp("enter/l/→", "enter / select")),
		Back:     key.NewBinding(key.WithKeys("ctrl+o"), key.WithHelp("ctrl+o", "previous directory")),

		ToggleSelect: key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle selection")),
		ToggleHidden: key.NewBinding(key.WithKeys("."), key.WithHelp(".", "toggle hidden files")),
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh listing")),
		Yank:         key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy path")),
		Open:         key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "open with default app")),

		Quit:    key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Command: key.NewBinding(key.WithKeys(":"), key.WithHelp(":", "command")),

		InsertUp:     key.NewBinding(key.WithKeys("up", "ctrl+p"), key.WithHelp("↑", "move up")),
		InsertDown:   key.NewBinding(key.WithKeys("down", "ctrl+n"), key.WithHelp("↓", "move down")),
		InsertSelect: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "toggle selection")),
	}
}

// FromConfig overlays configured bindings onto the defaults. Each entry
// maps a logical action name to one or more key descriptors. A missing or
// malformed entry leaves that action on its default; unknown action names
// are reported as warnings so a typo is visible without being fatal.
func FromConfig(bindings map[string][]string) (Map, []string) {
	m := Default()
	var warnings []string

	targets := map[string]*key.Binding{
		"move-up":         &m.MoveUp,
		"move-down":       &m.MoveDown,
		"go-top":          &m.Top,
		"go-bottom":       &m.Bottom,
		"parent":          &m.Parent,
		"enter-directory": &m.Activate,
		"back":            &m.Back,
		"toggle-select":   &m.ToggleSelect,
		"toggle-hidden":   &m.ToggleHidden,
		"refresh":         &m.Refresh,
		"yank":            &m.Yank,
		"open":            &m.Open,
		"quit":            &m.Quit,
		"help":            &m.Help,
		"command":         &m.Command,
		"insert-up":       &m.InsertUp,
		"insert-down":     &m.InsertDown,
		"insert-select":   &m.InsertSelect,
	}

	for action, keys := range bindings {
		target, ok := targets[action]
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown keybinding action %q", action))
			continue
		}
		valid := keys[:0:0]
		for _, k := range keys {
			if k != "" {
				valid = append(valid, k)
			}
		}
		if len(valid) == 0 {
			warnings = append(warnings, fmt.Sprintf("keybinding %q has no keys, using default", action))
			continue
		}
		target.SetKeys(valid...)
	}

	return m, warnings
}
