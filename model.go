package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/breeze-nav/breeze/internal/command"
	"github.com/breeze-nav/breeze/internal/config"
	"github.com/breeze-nav/breeze/internal/emit"
	"github.com/breeze-nav/breeze/internal/git"
	"github.com/breeze-nav/breeze/internal/index"
	"github.com/breeze-nav/breeze/internal/keymap"
	"github.com/breeze-nav/breeze/internal/listing"
	"github.com/breeze-nav/breeze/internal/logger"
	"github.com/breeze-nav/breeze/internal/modal"
	"github.com/breeze-nav/breeze/internal/nav"
)

// Listing completion message, tagged with the path it was issued for so a
// result for a directory the user has since left is recognized and dropped.
type listingMsg struct {
	path string
	l    listing.Listing
}

// dirEventMsg reports that the watched directory changed on disk.
type dirEventMsg struct{ path string }

// gitBranchMsg carries the branch name for the directory it was read in.
type gitBranchMsg struct {
	dir    string
	branch string
}

// noticeMsg sets a transient status line message.
type noticeMsg struct{ text string }

// Terminal dimension constants.
const (
	minTerminalWidth  = 40
	minTerminalHeight = 10
	uiOverhead        = 4 // header (1) + filter line (1) + status (2)
)

const statusDuration = 3 * time.Second

type model struct {
	cfg        *config.Config
	keys       keymap.Map
	controller *modal.Controller
	provider   *listing.Provider
	watcher    *listing.Watcher
	dispatcher *command.Dispatcher
	ix         *index.Index
	nav        *nav.State

	width        int
	height       int
	scrollOffset int
	helpScroll   int

	loading      bool
	gitBranch    string
	statusMsg    string
	statusExpiry time.Time

	// Set exactly once, when a terminal action ends the session.
	result   *emit.Result
	exitCode int
}

func newModel(startDir string, cfg *config.Config, warnings []string) *model {
	keys, keyWarnings := keymap.FromConfig(cfg.Keybindings)
	warnings = append(warnings, keyWarnings...)

	provider := listing.NewProvider(listing.Options{
		ShowHidden:     cfg.Options.ShowHidden,
		TTL:            time.Duration(cfg.Options.CacheTTLMS) * time.Millisecond,
		IgnorePatterns: cfg.Options.IgnorePatterns,
	})

	watcher, err := listing.NewWatcher()
	if err != nil {
		// Change notification is a nicety; run without it.
		logger.Warn("running without change watcher: %v", err)
		watcher = nil
	}

	m := &model{
		cfg:        cfg,
		keys:       keys,
		controller: modal.New(keys, cfg.Options.ClearQueryOnEscape),
		provider:   provider,
		watcher:    watcher,
		dispatcher: command.NewDispatcher(cfg.Commands),
		ix:         index.New(cfg.Options.IncrementalThreshold),
		nav:        nav.NewState(startDir, cfg.Options.HistorySize, cfg.Options.PersistentSelection),
		loading:    true,
	}
	if len(warnings) > 0 {
		// Surfaced once as a notice, logged in full.
		m.setStatus(warnings[0])
		for _, w := range warnings {
			logger.Warn("config: %s", w)
		}
	}
	if watcher != nil {
		watcher.Watch(startDir)
	}
	return m
}

func (m *model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.SetWindowTitle("breeze"),
		m.loadListingCmd(m.nav.Dir()),
		m.gitBranchCmd(m.nav.Dir()),
	}
	if m.watcher != nil {
		cmds = append(cmds, waitForDirEvent(m.watcher))
	}
	return tea.Batch(cmds...)
}

// loadListingCmd reads a directory off the event loop. The read is bounded
// by list_timeout_ms; past the deadline whatever was gathered comes back
// marked partial instead of blocking input.
func (m *model) loadListingCmd(path string) tea.Cmd {
	provider := m.provider
	timeout := time.Duration(m.cfg.Options.ListTimeoutMS) * time.Millisecond
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		return listingMsg{path: path, l: provider.List(ctx, path)}
	}
}

func (m *model) gitBranchCmd(dir string) tea.Cmd {
	return func() tea.Msg {
		return gitBranchMsg{dir: dir, branch: git.Branch(dir)}
	}
}

// waitForDirEvent blocks on the watcher channel; re-armed after each
// delivery.
func waitForDirEvent(w *listing.Watcher) tea.Cmd {
	return func() tea.Msg {
		path, ok := <-w.Events()
		if !ok {
			return nil
		}
		return dirEventMsg{path: path}
	}
}

func (m *model) setStatus(text string) {
	m.statusMsg = text
	m.statusExpiry = time.Now().Add(statusDuration)
}

// cursorEntry returns the entry under the cursor, if any.
func (m *model) cursorEntry() (listing.Entry, bool) {
	c, ok := m.ix.At(m.nav.Cursor())
	if !ok {
		return listing.Entry{}, false
	}
	return c.Entry, true
}

// actionPaths returns the paths a terminal action operates on: the
// explicit selection when there is one, otherwise the entry under cursor.
func (m *model) actionPaths() []string {
	if m.nav.SelectionCount() > 0 {
		return m.nav.SelectedPaths()
	}
	if e, ok := m.cursorEntry(); ok {
		return []string{e.Path}
	}
	return nil
}
