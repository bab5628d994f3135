package main

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/skratchdot/open-golang/open"
)

// yankCmd copies path to the system clipboard off the event loop.
func yankCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if err := clipboard.WriteAll(path); err != nil {
			return noticeMsg{text: fmt.Sprintf("clipboard unavailable: %v", err)}
		}
		return noticeMsg{text: fmt.Sprintf("copied %s", path)}
	}
}

// openCmd opens path with the OS default application.
func openCmd(path string) tea.Cmd {
	return func() tea.Msg {
		if err := open.Start(path); err != nil {
			return noticeMsg{text: fmt.Sprintf("cannot open: %v", err)}
		}
		return noticeMsg{text: fmt.Sprintf("opened %s", path)}
	}
}

// formatSize renders a byte count the way humans read them.
func formatSize(size int64) string {
	const unit = 1024
	if size < unit {
		return fmt.Sprintf("%dB", size)
	}
	div, exp := int64(unit), 0
	for n := size / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%c", float64(size)/float64(div), "KMGTPE"[exp])
}
