// Package git reads the branch name for the header line. Absence of git,
// or of a repository, is not an error; everything degrades to "".
package git

import (
	"os/exec"
	"strings"
)

// Branch returns the current branch name for dir, or "" outside a
// repository (or in a detached state it returns "HEAD", which is shown
// as-is).
func Branch(dir string) string {
	cmd := exec.Command("git", "rev-parse", "--abbrev-ref", "HEAD")
	cmd.Dir = dir
	output, err := cmd.Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(output))
}
