// Package modal is the input state machine. It owns the active mode, the
// live filter query, and the pending Normal-mode command buffer, and turns
// raw key events into closed Action values the event loop applies. It
// never touches the filesystem or the candidate set itself.
package modal

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/breeze-nav/breeze/internal/keymap"
)

// Mode is the active input mode. Exactly one is active at a time.
type Mode int

const (
	// ModeInsert is the default on entering a directory: keystrokes
	// build the live filter query.
	ModeInsert Mode = iota
	// ModeNormal routes keystrokes to bound actions and typed commands.
	ModeNormal
	// ModeHelp shows the key reference until any unclaimed key.
	ModeHelp
	// ModeConfirm gates destructive commands behind an explicit yes/no.
	// Navigation never reaches it, but user-defined commands can.
	ModeConfirm
)

func (m Mode) String() string {
	switch m {
	case ModeInsert:
		return "insert"
	case ModeNormal:
		return "normal"
	case ModeHelp:
		return "help"
	default:
		return "confirm"
	}
}

// ActionKind enumerates everything the controller can ask the loop to do.
type ActionKind int

const (
	ActionNone ActionKind = iota
	// ActionQueryChanged: the query was edited; refilter. Appended is
	// true when the edit strictly extended the query, which is the only
	// edit that can trigger auto-navigation.
	ActionQueryChanged
	// ActionLeaveToParent: navigate to the parent directory.
	ActionLeaveToParent
	// ActionActivate: act on the candidate under the cursor; the loop
	// decides between entering a directory and selecting a file.
	ActionActivate
	// ActionMoveCursor: move the cursor by Delta, clamped.
	ActionMoveCursor
	// ActionCursorTop and ActionCursorBottom jump to either end.
	ActionCursorTop
	ActionCursorBottom
	// ActionBack: pop the history stack.
	ActionBack
	// ActionToggleSelect: flip selection of the candidate under cursor.
	ActionToggleSelect
	// ActionToggleHidden: flip dotfile visibility and reload.
	ActionToggleHidden
	// ActionDispatch: hand Command to the command dispatcher.
	ActionDispatch
	// ActionConfirmed: the user approved the destructive Command.
	ActionConfirmed
)

// Action is the controller's output for one key event. Appended is set on
// query edits that strictly extended the query; those are the only edits
// allowed to trigger auto-navigation.
type Action struct {
	Kind     ActionKind
	Delta    int
	Command  string
	Appended bool
}

// Controller is the finite-state machine.
type Controller struct {
	mode     Mode
	prevMode Mode
	query    []rune
	pending  []rune
	// typingCommand is true while a ':'-prefixed command is being built.
	typingCommand bool
	// confirmCommand is the destructive token awaiting approval.
	confirmCommand string

	keys               keymap.Map
	clearQueryOnEscape bool
}

// New returns a Controller in Insert mode with an empty query.
func New(keys keymap.Map, clearQueryOnEscape bool) *Controller {
	return &Controller{
		mode:               ModeInsert,
		keys:               keys,
		clearQueryOnEscape: clearQueryOnEscape,
	}
}

// Mode returns the active mode.
func (c *Controller) Mode() Mode { return c.mode }

// Query returns the live filter string.
func (c *Controller) Query() string { return string(c.query) }

// Pending returns the partially-typed Normal-mode command.
func (c *Controller) Pending() string { return string(c.pending) }

// TypingCommand reports whether a command buffer is open.
func (c *Controller) TypingCommand() bool { return c.typingCommand }

// ConfirmCommand returns the token awaiting confirmation.
func (c *Controller) ConfirmCommand() string { return c.confirmCommand }

// ClearQuery empties the query, e.g. after navigating into a directory.
func (c *Controller) ClearQuery() { c.query = c.query[:0] }

// ResetForDirectory puts the controller back into Insert mode with a clean
// query, the state for a freshly entered directory.
func (c *Controller) ResetForDirectory() {
	c.mode = ModeInsert
	c.query = c.query[:0]
	c.pending = c.pending[:0]
	c.typingCommand = false
}

// RequireConfirm transitions into Confirm mode for token. Only the command
// dispatcher triggers this, and only for commands flagged destructive.
func (c *Controller) RequireConfirm(token string) {
	c.confirmCommand = token
	c.prevMode = c.mode
	c.mode = ModeConfirm
}

// Handle routes one key event through the transition table for the active
// mode and returns the resulting action.
func (c *Controller) Handle(msg tea.KeyMsg) Action {
	switch c.mode {
	case ModeInsert:
		return c.handleInsert(msg)
	case ModeNormal:
		return c.handleNormal(msg)
	case ModeHelp:
		return c.handleHelp(msg)
	default:
		return c.handleConfirm(msg)
	}
}

func (c *Controller) handleInsert(msg tea.KeyMsg) Action {
	switch {
	case msg.Type == tea.KeyEsc:
		c.mode = ModeNormal
		if c.clearQueryOnEscape && len(c.query) > 0 {
			c.query = c.query[:0]
			return Action{Kind: ActionQueryChanged}
		}
		return Action{Kind: ActionNone}

	case msg.Type == tea.KeyEnter:
		return Action{Kind: ActionActivate}

	case msg.Type == tea.KeyBackspace:
		// The signature interaction: delete a filter character, else
		// go up a level.
		if len(c.query) > 0 {
			c.query = c.query[:len(c.query)-1]
			return Action{Kind: ActionQueryChanged}
		}
		return Action{Kind: ActionLeaveToParent}

	case key.Matches(msg, c.keys.InsertUp):
		return Action{Kind: ActionMoveCursor, Delta: -1}

	case key.Matches(msg, c.keys.InsertDown):
		return Action{Kind: ActionMoveCursor, Delta: 1}

	case key.Matches(msg, c.keys.InsertSelect):
		return Action{Kind: ActionToggleSelect}

	case msg.Type == tea.KeyRunes || msg.Type == tea.KeySpace:
		c.query = append(c.query, runesOf(msg)...)
		return Action{Kind: ActionQueryChanged, Appended: true}
	}
	return Action{Kind: ActionNone}
}

func (c *Controller) handleNormal(msg tea.KeyMsg) Action {
	if c.typingCommand {
		return c.handleCommandBuffer(msg)
	}

	switch {
	case key.Matches(msg, c.keys.Quit):
		return Action{Kind: ActionDispatch, Command: "quit"}
	case key.Matches(msg, c.keys.Help):
		c.prevMode = c.mode
		c.mode = ModeHelp
		return Action{Kind: ActionNone}
	case key.Matches(msg, c.keys.Command):
		c.typingCommand = true
		c.pending = c.pending[:0]
		return Action{Kind: ActionNone}
	case key.Matches(msg, c.keys.MoveUp):
		return Action{Kind: ActionMoveCursor, Delta: -1}
	case key.Matches(msg, c.keys.MoveDown):
		return Action{Kind: ActionMoveCursor, Delta: 1}
	case key.Matches(msg, c.keys.Top):
		return Action{Kind: ActionCursorTop}
	case key.Matches(msg, c.keys.Bottom):
		return Action{Kind: ActionCursorBottom}
	case key.Matches(msg, c.keys.Parent):
		return Action{Kind: ActionLeaveToParent}
	case key.Matches(msg, c.keys.Activate):
		return Action{Kind: ActionActivate}
	case key.Matches(msg, c.keys.Back):
		return Action{Kind: ActionBack}
	case key.Matches(msg, c.keys.ToggleSelect):
		return Action{Kind: ActionToggleSelect}
	case key.Matches(msg, c.keys.ToggleHidden):
		return Action{Kind: ActionToggleHidden}
	case key.Matches(msg, c.keys.Refresh):
		return Action{Kind: ActionDispatch, Command: "refresh"}
	case key.Matches(msg, c.keys.Yank):
		return Action{Kind: ActionDispatch, Command: "yank"}
	case key.Matches(msg, c.keys.Open):
		return Action{Kind: ActionDispatch, Command: "open"}
	case msg.Type == tea.KeyEsc:
		return Action{Kind: ActionNone}
	case msg.Type == tea.KeyRunes:
		// Any printable not claimed by a binding begins a new query
		// and returns to Insert mode.
		c.mode = ModeInsert
		c.query = append(c.query[:0], runesOf(msg)...)
		return Action{Kind: ActionQueryChanged, Appended: true}
	}
	return Action{Kind: ActionNone}
}

func (c *Controller) handleCommandBuffer(msg tea.KeyMsg) Action {
	switch msg.Type {
	case tea.KeyEsc:
		c.typingCommand = false
		c.pending = c.pending[:0]
		return Action{Kind: ActionNone}
	case tea.KeyEnter:
		token := string(c.pending)
		c.typingCommand = false
		c.pending = c.pending[:0]
		if token == "" {
			return Action{Kind: ActionNone}
		}
		return Action{Kind: ActionDispatch, Command: token}
	case tea.KeyBackspace:
		if len(c.pending) > 0 {
			c.pending = c.pending[:len(c.pending)-1]
			return Action{Kind: ActionNone}
		}
		c.typingCommand = false
		return Action{Kind: ActionNone}
	case tea.KeyRunes, tea.KeySpace:
		c.pending = append(c.pending, runesOf(msg)...)
		return Action{Kind: ActionNone}
	}
	return Action{Kind: ActionNone}
}

func (c *Controller) handleHelp(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, c.keys.MoveUp), key.Matches(msg, c.keys.InsertUp):
		return Action{Kind: ActionMoveCursor, Delta: -1}
	case key.Matches(msg, c.keys.MoveDown), key.Matches(msg, c.keys.InsertDown):
		return Action{Kind: ActionMoveCursor, Delta: 1}
	}
	// Escape or any key that is not part of the help view returns to the
	// previous mode.
	c.mode = c.prevMode
	return Action{Kind: ActionNone}
}

func (c *Controller) handleConfirm(msg tea.KeyMsg) Action {
	if msg.Type == tea.KeyRunes {
		switch string(msg.Runes) {
		case "y", "Y":
			token := c.confirmCommand
			c.confirmCommand = ""
			c.mode = ModeNormal
			return Action{Kind: ActionConfirmed, Command: token}
		case "n", "N":
			c.confirmCommand = ""
			c.mode = ModeNormal
			return Action{Kind: ActionNone}
		}
	}
	if msg.Type == tea.KeyEsc {
		c.confirmCommand = ""
		c.mode = ModeNormal
	}
	return Action{Kind: ActionNone}
}

func runesOf(msg tea.KeyMsg) []rune {
	if msg.Type == tea.KeySpace {
		return []rune{' '}
	}
	return msg.Runes
}
