// Package emit serializes the single Result the process prints to stdout
// at exit, in the protocol the shell wrapper consumes.
package emit

import (
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Exit codes are a stable contract with the shell wrapper.
const (
	ExitSelect  = 0 // a selection was made
	ExitQuit    = 0 // quit with no action; the command token disambiguates
	ExitStartup = 2 // fatal startup error, before the event loop
)

// Delimiter separates Result fields on the output line.
const Delimiter = "\t"

// Result is the terminal output: final working directory, dispatched
// command token, and zero or more selected paths. Created exactly once.
type Result struct {
	Dir     string
	Command string
	Paths   []string
}

// Encode renders the Result as one line: directory, command, then paths,
// tab-separated. Fields containing the delimiter, a newline, or a leading
// quote are Go-quoted rather than truncated, so the wrapper can always
// split unambiguously.
func (r Result) Encode() string {
	fields := make([]string, 0, 2+len(r.Paths))
	fields = append(fields, escape(r.Dir), escape(r.Command))
	for _, p := range r.Paths {
		fields = append(fields, escape(p))
	}
	return strings.Join(fields, Delimiter)
}

// Write prints the encoded Result followed by a newline.
func (r Result) Write(w io.Writer) error {
	if _, err := fmt.Fprintln(w, r.Encode()); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	return nil
}

func escape(field string) string {
	if strings.ContainsAny(field, Delimiter+"\n\r") || strings.HasPrefix(field, `"`) {
		return strconv.Quote(field)
	}
	return field
}
