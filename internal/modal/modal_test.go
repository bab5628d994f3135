package modal

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeze-nav/breeze/internal/keymap"
)

func newController() *Controller {
	return New(keymap.Default(), true)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func keyOf(t tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: t}
}

func typeString(c *Controller, s string) Action {
	var a Action
	for _, r := range s {
		a = c.Handle(runes(string(r)))
	}
	return a
}

func TestStartsInInsertMode(t *testing.T) {
	c := newController()
	assert.Equal(t, ModeInsert, c.Mode())
	assert.Empty(t, c.Query())
}

func TestInsertTypingBuildsQuery(t *testing.T) {
	c := newController()
	a := typeString(c, "ap")
	assert.Equal(t, ActionQueryChanged, a.Kind)
	assert.True(t, a.Appended)
	assert.Equal(t, "ap", c.Query())
}

func TestInsertSpaceIsPartOfQuery(t *testing.T) {
	c := newController()
	typeString(c, "my")
	a := c.Handle(keyOf(tea.KeySpace))
	assert.Equal(t, ActionQueryChanged, a.Kind)
	assert.Equal(t, "my ", c.Query())
}

func TestInsertBackspaceDeletesThenNavigatesUp(t *testing.T) {
	c := newController()
	typeString(c, "ab")

	a := c.Handle(keyOf(tea.KeyBackspace))
	assert.Equal(t, ActionQueryChanged, a.Kind)
	assert.False(t, a.Appended)
	assert.Equal(t, "a", c.Query())

	c.Handle(keyOf(tea.KeyBackspace))
	require.Empty(t, c.Query())

	// Backspace on an empty query is "go up a level".
	a = c.Handle(keyOf(tea.KeyBackspace))
	assert.Equal(t, ActionLeaveToParent, a.Kind)
}

func TestInsertEnterActivates(t *testing.T) {
	c := newController()
	a := c.Handle(keyOf(tea.KeyEnter))
	assert.Equal(t, ActionActivate, a.Kind)
}

func TestInsertEscapeEntersNormalAndClearsQuery(t *testing.T) {
	c := newController()
	typeString(c, "abc")
	a := c.Handle(keyOf(tea.KeyEsc))
	assert.Equal(t, ModeNormal, c.Mode())
	assert.Equal(t, ActionQueryChanged, a.Kind)
	assert.Empty(t, c.Query())
}

func TestInsertEscapeKeepsQueryWhenConfigured(t *testing.T) {
	c := New(keymap.Default(), false)
	typeString(c, "abc")
	a := c.Handle(keyOf(tea.KeyEsc))
	assert.Equal(t, ModeNormal, c.Mode())
	assert.Equal(t, ActionNone, a.Kind)
	assert.Equal(t, "abc", c.Query())
}

func TestInsertArrowsMoveCursor(t *testing.T) {
	c := newController()
	assert.Equal(t, Action{Kind: ActionMoveCursor, Delta: 1}, c.Handle(keyOf(tea.KeyDown)))
	assert.Equal(t, Action{Kind: ActionMoveCursor, Delta: -1}, c.Handle(keyOf(tea.KeyUp)))
	assert.Equal(t, ModeInsert, c.Mode())
}

func TestInsertTabTogglesSelection(t *testing.T) {
	c := newController()
	a := c.Handle(keyOf(tea.KeyTab))
	assert.Equal(t, ActionToggleSelect, a.Kind)
}

func TestNormalMovementKeys(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))
	require.Equal(t, ModeNormal, c.Mode())

	assert.Equal(t, Action{Kind: ActionMoveCursor, Delta: 1}, c.Handle(runes("j")))
	assert.Equal(t, Action{Kind: ActionMoveCursor, Delta: -1}, c.Handle(runes("k")))
	assert.Equal(t, ActionCursorTop, c.Handle(runes("g")).Kind)
	assert.Equal(t, ActionCursorBottom, c.Handle(runes("G")).Kind)
	assert.Equal(t, ActionLeaveToParent, c.Handle(runes("h")).Kind)
	assert.Equal(t, ActionActivate, c.Handle(runes("l")).Kind)
	assert.Equal(t, ActionToggleHidden, c.Handle(runes(".")).Kind)
	// Movement keys never leave Normal mode.
	assert.Equal(t, ModeNormal, c.Mode())
}

func TestNormalDispatchShortcuts(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))

	assert.Equal(t, Action{Kind: ActionDispatch, Command: "quit"}, c.Handle(runes("q")))
	assert.Equal(t, Action{Kind: ActionDispatch, Command: "refresh"}, c.Handle(runes("r")))
	assert.Equal(t, Action{Kind: ActionDispatch, Command: "yank"}, c.Handle(runes("y")))
	assert.Equal(t, Action{Kind: ActionDispatch, Command: "open"}, c.Handle(runes("o")))
}

func TestNormalUnboundPrintableBeginsNewQuery(t *testing.T) {
	c := newController()
	typeString(c, "old")
	c.Handle(keyOf(tea.KeyEsc))
	require.Equal(t, ModeNormal, c.Mode())

	a := c.Handle(runes("x"))
	assert.Equal(t, ModeInsert, c.Mode())
	assert.Equal(t, ActionQueryChanged, a.Kind)
	assert.True(t, a.Appended)
	assert.Equal(t, "x", c.Query())
}

func TestNormalCommandBuffer(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))

	a := c.Handle(runes(":"))
	assert.Equal(t, ActionNone, a.Kind)
	require.True(t, c.TypingCommand())

	typeString(c, "cd")
	assert.Equal(t, "cd", c.Pending())

	a = c.Handle(keyOf(tea.KeyEnter))
	assert.Equal(t, Action{Kind: ActionDispatch, Command: "cd"}, a)
	assert.False(t, c.TypingCommand())
	assert.Empty(t, c.Pending())
}

func TestCommandBufferBackspaceAndEscape(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))
	c.Handle(runes(":"))
	typeString(c, "se")

	c.Handle(keyOf(tea.KeyBackspace))
	assert.Equal(t, "s", c.Pending())

	c.Handle(keyOf(tea.KeyEsc))
	assert.False(t, c.TypingCommand())
	assert.Empty(t, c.Pending())
	assert.Equal(t, ModeNormal, c.Mode())
}

func TestCommandBufferEmptyEnterIsNoop(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))
	c.Handle(runes(":"))
	a := c.Handle(keyOf(tea.KeyEnter))
	assert.Equal(t, ActionNone, a.Kind)
	assert.False(t, c.TypingCommand())
}

func TestHelpModeRoundTrip(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))
	c.Handle(runes("?"))
	require.Equal(t, ModeHelp, c.Mode())

	// j/k scroll without leaving help.
	a := c.Handle(runes("j"))
	assert.Equal(t, ActionMoveCursor, a.Kind)
	assert.Equal(t, ModeHelp, c.Mode())

	// Any other key returns to the previous mode.
	c.Handle(keyOf(tea.KeyEsc))
	assert.Equal(t, ModeNormal, c.Mode())
}

func TestConfirmYesDispatchesConfirmed(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))
	c.RequireConfirm("purge-cache")
	require.Equal(t, ModeConfirm, c.Mode())
	assert.Equal(t, "purge-cache", c.ConfirmCommand())

	a := c.Handle(runes("y"))
	assert.Equal(t, Action{Kind: ActionConfirmed, Command: "purge-cache"}, a)
	assert.Equal(t, ModeNormal, c.Mode())
	assert.Empty(t, c.ConfirmCommand())
}

func TestConfirmNoAndEscapeCancel(t *testing.T) {
	for _, cancel := range []tea.KeyMsg{runes("n"), runes("N"), keyOf(tea.KeyEsc)} {
		c := newController()
		c.Handle(keyOf(tea.KeyEsc))
		c.RequireConfirm("purge-cache")

		a := c.Handle(cancel)
		assert.Equal(t, ActionNone, a.Kind)
		assert.Equal(t, ModeNormal, c.Mode())
		assert.Empty(t, c.ConfirmCommand())
	}
}

func TestConfirmIgnoresOtherKeys(t *testing.T) {
	c := newController()
	c.Handle(keyOf(tea.KeyEsc))
	c.RequireConfirm("purge-cache")

	c.Handle(runes("j"))
	c.Handle(keyOf(tea.KeyEnter))
	assert.Equal(t, ModeConfirm, c.Mode())
}

func TestResetForDirectory(t *testing.T) {
	c := newController()
	typeString(c, "abc")
	c.Handle(keyOf(tea.KeyEsc))
	c.Handle(runes(":"))
	typeString(c, "se")

	c.ResetForDirectory()
	assert.Equal(t, ModeInsert, c.Mode())
	assert.Empty(t, c.Query())
	assert.Empty(t, c.Pending())
	assert.False(t, c.TypingCommand())
}
