// Package nav tracks where the user is: current directory, a bounded trail
// of visited paths, the cursor into the ranked candidate sequence, and the
// multi-selection set.
package nav

import (
	"path/filepath"
	"sort"

	"github.com/breeze-nav/breeze/internal/listing"
)

// State is the navigation state. The cursor invariant holds after every
// operation: the cursor is -1 exactly when the candidate sequence is
// empty, otherwise it is a valid index into it.
type State struct {
	dir        string
	history    []string
	maxHistory int
	cursor     int
	selected   map[string]listing.Kind
	// When false (the default) the selection is scoped to one directory
	// and cleared on navigation.
	persistent bool
}

// NewState starts at dir with an empty history and selection.
func NewState(dir string, maxHistory int, persistentSelection bool) *State {
	if maxHistory <= 0 {
		maxHistory = 100
	}
	return &State{
		dir:        dir,
		maxHistory: maxHistory,
		selected:   make(map[string]listing.Kind),
		persistent: persistentSelection,
	}
}

// Dir returns the current working directory.
func (s *State) Dir() string { return s.dir }

// Enter moves into dir, pushing the previous directory onto history,
// resetting the cursor, and clearing any per-directory selection.
func (s *State) Enter(dir string) {
	if dir == s.dir {
		return
	}
	s.pushHistory(s.dir)
	s.dir = dir
	s.cursor = 0
	if !s.persistent {
		s.selected = make(map[string]listing.Kind)
	}
}

// LeaveToParent moves to the parent directory and reports whether the
// directory actually changed (it does not at the filesystem root).
func (s *State) LeaveToParent() bool {
	parent := filepath.Dir(s.dir)
	if parent == s.dir {
		return false
	}
	s.Enter(parent)
	return true
}

// Back pops the most recent history entry and returns to it.
func (s *State) Back() (string, bool) {
	if len(s.history) == 0 {
		return "", false
	}
	prev := s.history[len(s.history)-1]
	s.history = s.history[:len(s.history)-1]
	s.dir = prev
	s.cursor = 0
	if !s.persistent {
		s.selected = make(map[string]listing.Kind)
	}
	return prev, true
}

// History returns the visited-path trail, oldest first.
func (s *State) History() []string { return s.history }

func (s *State) pushHistory(dir string) {
	s.history = append(s.history, dir)
	if len(s.history) > s.maxHistory {
		s.history = s.history[len(s.history)-s.maxHistory:]
	}
}

// Cursor returns the cursor index into the ranked candidate sequence.
func (s *State) Cursor() int { return s.cursor }

// MoveCursor moves by delta within [0, n-1], clamping at either end.
// Clamp, never wrap: running past the end should not teleport the cursor.
func (s *State) MoveCursor(delta, n int) {
	if n <= 0 {
		s.cursor = -1
		return
	}
	c := s.cursor + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	s.cursor = c
}

// SetCursor jumps to i, clamped into the valid range for n candidates.
func (s *State) SetCursor(i, n int) {
	s.cursor = i
	s.ClampCursor(n)
}

// ClampCursor re-validates the cursor after the candidate sequence changed
// shape. A keystroke may shrink the ranked set below the cursor.
func (s *State) ClampCursor(n int) {
	if n <= 0 {
		s.cursor = -1
		return
	}
	if s.cursor < 0 {
		s.cursor = 0
	}
	if s.cursor >= n {
		s.cursor = n - 1
	}
}

// ToggleSelect flips the selection state of e. Identity is path plus kind.
func (s *State) ToggleSelect(e listing.Entry) {
	if _, ok := s.selected[e.Path]; ok {
		delete(s.selected, e.Path)
		return
	}
	s.selected[e.Path] = e.Kind
}

// IsSelected reports whether path is in the selection set.
func (s *State) IsSelected(path string) bool {
	_, ok := s.selected[path]
	return ok
}

// SelectionCount returns the number of selected entries.
func (s *State) SelectionCount() int { return len(s.selected) }

// SelectedPaths returns the selected paths in deterministic order.
func (s *State) SelectedPaths() []string {
	paths := make([]string, 0, len(s.selected))
	for p := range s.selected {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// ClearSelection empties the selection set.
func (s *State) ClearSelection() {
	s.selected = make(map[string]listing.Kind)
}
