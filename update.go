package main

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/breeze-nav/breeze/internal/command"
	"github.com/breeze-nav/breeze/internal/emit"
	"github.com/breeze-nav/breeze/internal/listing"
	"github.com/breeze-nav/breeze/internal/modal"
)

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Expire stale status notices.
	if m.statusMsg != "" && time.Now().After(m.statusExpiry) {
		m.statusMsg = ""
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.width < minTerminalWidth {
			m.width = minTerminalWidth
		}
		if m.height < minTerminalHeight {
			m.height = minTerminalHeight
		}
		m.clampScroll()
		return m, nil

	case listingMsg:
		// Cancellation by discard: a read for a directory the user has
		// since left is dropped on arrival.
		if msg.path != m.nav.Dir() {
			return m, nil
		}
		m.loading = false
		m.ix.SetListing(msg.l)
		m.ix.SetQuery(m.controller.Query())
		m.nav.ClampCursor(m.ix.Len())
		m.clampScroll()
		if msg.l.Partial {
			m.setStatus("directory unreadable or read cut short; listing may be incomplete")
		}
		return m, nil

	case dirEventMsg:
		cmds := []tea.Cmd{}
		if m.watcher != nil {
			cmds = append(cmds, waitForDirEvent(m.watcher))
		}
		if msg.path == m.nav.Dir() {
			m.provider.Invalidate(msg.path)
			m.loading = true
			cmds = append(cmds, m.loadListingCmd(msg.path))
		}
		return m, tea.Batch(cmds...)

	case gitBranchMsg:
		if msg.dir == m.nav.Dir() {
			m.gitBranch = msg.branch
		}
		return m, nil

	case noticeMsg:
		m.setStatus(msg.text)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.finish(command.TokenQuit, nil, emit.ExitQuit)
		}
		return m.applyAction(m.controller.Handle(msg))
	}

	return m, nil
}

func (m *model) applyAction(a modal.Action) (tea.Model, tea.Cmd) {
	switch a.Kind {
	case modal.ActionQueryChanged:
		return m, m.refilter(a.Appended)

	case modal.ActionLeaveToParent:
		if !m.nav.LeaveToParent() {
			m.setStatus("already at filesystem root")
			return m, nil
		}
		return m, m.afterNavigate()

	case modal.ActionBack:
		if _, ok := m.nav.Back(); !ok {
			m.setStatus("history is empty")
			return m, nil
		}
		return m, m.afterNavigate()

	case modal.ActionActivate:
		e, ok := m.cursorEntry()
		if !ok {
			return m, nil
		}
		if e.IsDir() {
			m.nav.Enter(e.Path)
			return m, m.afterNavigate()
		}
		return m.finish(command.TokenSelect, m.actionPaths(), emit.ExitSelect)

	case modal.ActionMoveCursor:
		if m.controller.Mode() == modal.ModeHelp {
			m.helpScroll += a.Delta
			if max := len(helpLines) - m.helpVisible(); m.helpScroll > max {
				m.helpScroll = max
			}
			if m.helpScroll < 0 {
				m.helpScroll = 0
			}
			return m, nil
		}
		m.nav.MoveCursor(a.Delta, m.ix.Len())
		m.clampScroll()
		return m, nil

	case modal.ActionCursorTop:
		m.nav.SetCursor(0, m.ix.Len())
		m.clampScroll()
		return m, nil

	case modal.ActionCursorBottom:
		m.nav.SetCursor(m.ix.Len()-1, m.ix.Len())
		m.clampScroll()
		return m, nil

	case modal.ActionToggleSelect:
		if e, ok := m.cursorEntry(); ok {
			m.nav.ToggleSelect(e)
			// Step past the toggled row so repeated space marks a run.
			m.nav.MoveCursor(1, m.ix.Len())
			m.clampScroll()
		}
		return m, nil

	case modal.ActionToggleHidden:
		m.provider.SetShowHidden(!m.provider.ShowHidden())
		m.loading = true
		if m.provider.ShowHidden() {
			m.setStatus("showing hidden files")
		} else {
			m.setStatus("hiding hidden files")
		}
		return m, m.loadListingCmd(m.nav.Dir())

	case modal.ActionDispatch:
		spec, err := m.dispatcher.Dispatch(a.Command)
		if err != nil {
			// Unknown commands are recoverable notices, never fatal.
			m.setStatus(err.Error())
			return m, nil
		}
		if spec.Destructive {
			m.controller.RequireConfirm(spec.Token)
			return m, nil
		}
		return m.runCommand(spec)

	case modal.ActionConfirmed:
		spec, ok := m.dispatcher.Lookup(a.Command)
		if !ok {
			return m, nil
		}
		return m.runCommand(spec)
	}

	return m, nil
}

// refilter recomputes the candidate set for the live query, re-validates
// the cursor, and auto-navigates when exactly one candidate remains after
// an extending keystroke and that candidate is a directory.
func (m *model) refilter(appended bool) tea.Cmd {
	m.ix.SetQuery(m.controller.Query())
	m.nav.ClampCursor(m.ix.Len())
	m.scrollOffset = 0
	m.clampScroll()

	if appended && m.ix.Len() == 1 {
		if c, ok := m.ix.At(0); ok && c.Entry.IsDir() {
			m.nav.Enter(c.Entry.Path)
			return m.afterNavigate()
		}
	}
	return nil
}

// afterNavigate is the shared tail of every directory change: reset the
// controller to Insert mode with a clean query, repoint the watcher, and
// kick off the background read. The index is superseded with an empty
// placeholder for the new path immediately, so the old directory's rows
// are never visible or actionable while the read is in flight.
func (m *model) afterNavigate() tea.Cmd {
	dir := m.nav.Dir()
	m.controller.ResetForDirectory()
	m.ix.SetListing(listing.Listing{Path: dir})
	m.ix.SetQuery("")
	m.nav.ClampCursor(m.ix.Len())
	m.scrollOffset = 0
	m.loading = true
	if m.watcher != nil {
		m.watcher.Watch(dir)
	}
	return tea.Batch(m.loadListingCmd(dir), m.gitBranchCmd(dir))
}

func (m *model) runCommand(spec command.Spec) (tea.Model, tea.Cmd) {
	switch spec.Token {
	case command.TokenCd:
		dir := m.nav.Dir()
		if e, ok := m.cursorEntry(); ok && e.IsDir() {
			dir = e.Path
		}
		return m.finishIn(dir, command.TokenCd, nil, emit.ExitSelect)

	case command.TokenSelect:
		paths := m.actionPaths()
		if len(paths) == 0 {
			m.setStatus("nothing to select")
			return m, nil
		}
		return m.finish(command.TokenSelect, paths, emit.ExitSelect)

	case command.TokenQuit:
		return m.finish(command.TokenQuit, nil, emit.ExitQuit)

	case command.TokenRefresh:
		m.provider.Invalidate(m.nav.Dir())
		m.loading = true
		m.setStatus("refreshed")
		return m, m.loadListingCmd(m.nav.Dir())

	case command.TokenYank:
		e, ok := m.cursorEntry()
		if !ok {
			m.setStatus("nothing under cursor")
			return m, nil
		}
		return m, yankCmd(e.Path)

	case command.TokenOpen:
		e, ok := m.cursorEntry()
		if !ok {
			m.setStatus("nothing under cursor")
			return m, nil
		}
		if e.IsDir() {
			m.setStatus("open works on files; use enter for directories")
			return m, nil
		}
		return m, openCmd(e.Path)

	default:
		// User-defined command: emitted as data for the wrapper.
		return m.finish(spec.Token, m.actionPaths(), emit.ExitSelect)
	}
}

// finish records the single Result for the current directory and ends the
// event loop.
func (m *model) finish(cmd string, paths []string, code int) (tea.Model, tea.Cmd) {
	return m.finishIn(m.nav.Dir(), cmd, paths, code)
}

// clampScroll keeps the cursor inside the visible scroll window. Called
// whenever the cursor, the candidate set, or the terminal size changes, so
// View can render without touching state.
func (m *model) clampScroll() {
	n := m.ix.Len()
	if n == 0 {
		m.scrollOffset = 0
		return
	}
	listHeight := m.listHeight()
	cursor := m.nav.Cursor()
	if cursor >= 0 && cursor < m.scrollOffset {
		m.scrollOffset = cursor
	}
	if cursor >= m.scrollOffset+listHeight {
		m.scrollOffset = cursor - listHeight + 1
	}
	if m.scrollOffset > n-1 {
		m.scrollOffset = n - 1
	}
	if m.scrollOffset < 0 {
		m.scrollOffset = 0
	}
}

func (m *model) finishIn(dir, cmd string, paths []string, code int) (tea.Model, tea.Cmd) {
	if m.result != nil {
		// A Result is created exactly once.
		return m, tea.Quit
	}
	m.result = &emit.Result{Dir: dir, Command: cmd, Paths: paths}
	m.exitCode = code
	if m.watcher != nil {
		m.watcher.Close()
	}
	return m, tea.Quit
}
