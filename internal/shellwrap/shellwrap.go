// Package shellwrap prints the shell function that wraps the breeze
// binary: it runs breeze with the terminal UI on stderr, captures the
// Result line from stdout, and cds into the returned directory.
package shellwrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// PrintSetup writes the wrapper function for shell to w. Supported shells
// are bash, zsh, sh, ksh (POSIX template) and fish; "auto" resolves the
// shell from $SHELL. The caller evals the output, e.g.
// `eval "$(breeze --init bash)"`.
func PrintSetup(w io.Writer, shell string) error {
	exe, err := os.Executable()
	if err != nil {
		exe = "breeze"
	}
	quoted := strconv.Quote(exe)

	shell = normalize(shell)
	if shell == "auto" {
		shell = DetectShell()
	}

	switch shell {
	case "bash", "zsh", "sh", "ksh":
		fmt.Fprintf(w, `breeze() {
    local out dir cmd
    out=$(command %s "$@") || return $?
    [ -n "$out" ] || return 0
    dir=$(printf '%%s\n' "$out" | cut -f1)
    cmd=$(printf '%%s\n' "$out" | cut -f2)
    if [ -d "$dir" ]; then
        cd "$dir" || return
    fi
    if [ "$cmd" != "quit" ] && [ "$cmd" != "cd" ]; then
        printf '%%s\n' "$out" | cut -f3-
    fi
}
`, quoted)
		return nil
	case "fish":
		fmt.Fprintf(w, `function breeze
    set -l out (command %s $argv; or return $status)
    test -n "$out"; or return 0
    set -l dir (printf '%%s\n' "$out" | cut -f1)
    set -l cmd (printf '%%s\n' "$out" | cut -f2)
    if test -d "$dir"
        builtin cd "$dir"
    end
    if test "$cmd" != quit -a "$cmd" != cd
        printf '%%s\n' "$out" | cut -f3-
    end
end
`, quoted)
		return nil
	default:
		return fmt.Errorf("unsupported shell %q (supported: bash, zsh, sh, ksh, fish)", shell)
	}
}

// DetectShell guesses the invoking shell from $SHELL.
func DetectShell() string {
	sh := os.Getenv("SHELL")
	if sh == "" {
		return "bash"
	}
	return normalize(filepath.Base(sh))
}

func normalize(shell string) string {
	return strings.ToLower(strings.TrimSpace(shell))
}
