package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/breeze-nav/breeze/internal/index"
	"github.com/breeze-nav/breeze/internal/listing"
	"github.com/breeze-nav/breeze/internal/modal"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")).
			Background(lipgloss.Color("235")).
			Padding(0, 1)

	branchStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))

	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	dirStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	symlinkStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("36"))
	degradedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	matchStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))

	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")).Padding(0, 1)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	modeStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("99"))
	filterStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

func (m *model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.controller.Mode() {
	case modal.ModeHelp:
		return m.renderHelp()
	case modal.ModeConfirm:
		return m.renderConfirm()
	}

	header := m.renderHeader()
	filter := m.renderFilterLine()
	list := m.renderList()
	status := m.renderStatusBar()

	return lipgloss.JoinVertical(lipgloss.Left, header, filter, list, status)
}

func (m *model) renderHeader() string {
	title := m.nav.Dir()
	if m.gitBranch != "" {
		title += "  " + branchStyle.Render(" "+m.gitBranch)
	}
	if n := m.nav.SelectionCount(); n > 0 {
		title += "  " + selectedStyle.Render(fmt.Sprintf("%d selected", n))
	}
	if m.loading {
		title += "  " + dimStyle.Render("reading…")
	}
	return headerStyle.Width(m.width).Render(title)
}

func (m *model) renderFilterLine() string {
	if m.controller.TypingCommand() {
		return filterStyle.Render(":" + m.controller.Pending() + "█")
	}
	switch m.controller.Mode() {
	case modal.ModeInsert:
		q := m.controller.Query()
		if q == "" {
			return dimStyle.Render("filter: (type to filter, backspace for parent, esc for normal mode)")
		}
		return filterStyle.Render("filter: " + q + "█")
	default:
		if q := m.controller.Query(); q != "" {
			return dimStyle.Render("filter: " + q)
		}
		return dimStyle.Render("-- normal -- (? for help)")
	}
}

// listHeight is the number of candidate rows the terminal can show.
func (m *model) listHeight() int {
	h := m.height - uiOverhead
	if h < 3 {
		h = 3
	}
	return h
}

// renderList draws the scroll window. Update keeps scrollOffset valid via
// clampScroll; the view only reads it.
func (m *model) renderList() string {
	listHeight := m.listHeight()

	n := m.ix.Len()
	if n == 0 {
		body := dimStyle.Render("  (no matching entries)")
		return body + strings.Repeat("\n", listHeight-1)
	}

	cursor := m.nav.Cursor()
	off := m.scrollOffset
	if off > n-1 {
		off = n - 1
	}
	if off < 0 {
		off = 0
	}
	end := off + listHeight
	if end > n {
		end = n
	}

	var b strings.Builder
	for i := off; i < end; i++ {
		c, _ := m.ix.At(i)
		b.WriteString(m.renderRow(c, i == cursor))
		if i < end-1 {
			b.WriteByte('\n')
		}
	}
	// Pad so the status bar stays anchored.
	for i := end - off; i < listHeight; i++ {
		b.WriteByte('\n')
	}
	return b.String()
}

func (m *model) renderRow(c index.Candidate, underCursor bool) string {
	prefix := "  "
	if underCursor {
		prefix = cursorStyle.Render("> ")
	}

	marker := "  "
	if m.nav.IsSelected(c.Entry.Path) {
		marker = selectedStyle.Render("✓ ")
	}

	name := highlightName(c.Entry.Name, c.Positions)
	switch {
	case c.Entry.IsDir():
		name = dirStyle.Render(name) + "/"
	case c.Entry.Kind == listing.KindSymlink:
		name = symlinkStyle.Render(name) + "@"
	}

	meta := ""
	if c.Entry.MetaUnavailable {
		meta = degradedStyle.Render(" [metadata unavailable]")
	} else if !c.Entry.IsDir() {
		meta = dimStyle.Render(" " + formatSize(c.Entry.Size))
	}

	row := prefix + marker + name + meta
	maxw := m.width - 2
	if maxw > 0 && lipgloss.Width(row) > maxw {
		row = runewidth.Truncate(row, maxw, "…")
	}
	return row
}

// highlightName styles the matched rune positions inside name. Positions
// are ascending rune indexes produced by the matcher.
func highlightName(name string, positions []int) string {
	if len(positions) == 0 {
		return name
	}
	var b strings.Builder
	pi := 0
	for i, r := range []rune(name) {
		if pi < len(positions) && positions[pi] == i {
			b.WriteString(matchStyle.Render(string(r)))
			pi++
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (m *model) renderStatusBar() string {
	mode := modeStyle.Render(strings.ToUpper(m.controller.Mode().String()))
	counts := fmt.Sprintf("%d/%d", m.ix.Len(), len(m.ix.Listing().Entries))
	parts := []string{mode, counts}
	if m.ix.Listing().Partial {
		parts = append(parts, noticeStyle.Render("partial listing"))
	}
	if m.statusMsg != "" {
		parts = append(parts, noticeStyle.Render(m.statusMsg))
	}
	return statusStyle.Width(m.width).Render(strings.Join(parts, "  •  "))
}

func (m *model) renderConfirm() string {
	token := m.controller.ConfirmCommand()
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		Padding(1, 2).
		Render(fmt.Sprintf("Run %q? This command is marked destructive.\n\n[y] yes   [n] no", token))
	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, box)
}

var helpLines = []string{
	modeStyle.Render("breeze — keys"),
	"",
	"Insert mode (default)",
	"  type          narrow the listing (fuzzy)",
	"  backspace     delete filter char, else go to parent",
	"  enter         enter directory / select file",
	"  ↑/↓           move cursor",
	"  tab           toggle selection",
	"  esc           normal mode",
	"",
	"Normal mode",
	"  j/k ↑/↓       move cursor",
	"  g/G           top / bottom",
	"  h/←/backspace parent directory",
	"  l/→/enter     enter directory / select file",
	"  ctrl+o        previous directory",
	"  space         toggle selection",
	"  .             toggle hidden files",
	"  r             refresh listing",
	"  y             copy path to clipboard",
	"  o             open with default application",
	"  :             type a command (cd, select, quit, …)",
	"  q             quit",
	"  ?             this help",
	"",
	"Any other printable key returns to Insert mode and starts a new filter.",
	"",
	dimStyle.Render("esc or any other key to close"),
}

// helpVisible is the number of help lines the terminal can show.
func (m *model) helpVisible() int {
	v := m.height - 2
	if v < 1 {
		v = 1
	}
	return v
}

func (m *model) renderHelp() string {
	visible := m.helpVisible()
	off := m.helpScroll
	if off > len(helpLines)-visible {
		off = len(helpLines) - visible
	}
	if off < 0 {
		off = 0
	}
	end := off + visible
	if end > len(helpLines) {
		end = len(helpLines)
	}
	return strings.Join(helpLines[off:end], "\n")
}
