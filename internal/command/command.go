// Package command maps completed Normal-mode command tokens to actions.
// Commands are plain data: builtins act on navigation or terminate, and
// user-defined tokens ride out in the Result for the shell wrapper to act
// on. Nothing here executes anything.
package command

import (
	"fmt"
	"sort"

	"github.com/sahilm/fuzzy"

	"github.com/breeze-nav/breeze/internal/config"
)

// Builtin command tokens.
const (
	TokenCd      = "cd"
	TokenSelect  = "select"
	TokenQuit    = "quit"
	TokenRefresh = "refresh"
	TokenYank    = "yank"
	TokenOpen    = "open"
)

// Spec describes one dispatchable command.
type Spec struct {
	Token       string
	Args        string
	Destructive bool
	Builtin     bool
}

// Dispatcher validates tokens against the known command table.
type Dispatcher struct {
	commands map[string]Spec
	tokens   []string
}

// NewDispatcher builds the table from the builtins plus the user-defined
// command rows. A user row may not shadow a builtin; shadowing attempts
// are dropped.
func NewDispatcher(user []config.Command) *Dispatcher {
	d := &Dispatcher{commands: make(map[string]Spec)}
	for _, token := range []string{TokenCd, TokenSelect, TokenQuit, TokenRefresh, TokenYank, TokenOpen} {
		d.commands[token] = Spec{Token: token, Builtin: true}
	}
	for _, c := range user {
		if _, exists := d.commands[c.Token]; exists {
			continue
		}
		d.commands[c.Token] = Spec{
			Token:       c.Token,
			Args:        c.Args,
			Destructive: c.Destructive,
		}
	}
	for token := range d.commands {
		d.tokens = append(d.tokens, token)
	}
	sort.Strings(d.tokens)
	return d
}

// Tokens returns every known token, sorted.
func (d *Dispatcher) Tokens() []string { return d.tokens }

// Lookup returns the spec for token.
func (d *Dispatcher) Lookup(token string) (Spec, bool) {
	s, ok := d.commands[token]
	return s, ok
}

// Dispatch resolves token or returns a recoverable error. Unknown tokens
// get a closest-match suggestion when one exists.
func (d *Dispatcher) Dispatch(token string) (Spec, error) {
	if s, ok := d.commands[token]; ok {
		return s, nil
	}
	if suggestion := d.suggest(token); suggestion != "" {
		return Spec{}, fmt.Errorf("unknown command %q (did you mean %q?)", token, suggestion)
	}
	return Spec{}, fmt.Errorf("unknown command %q", token)
}

func (d *Dispatcher) suggest(token string) string {
	matches := fuzzy.Find(token, d.tokens)
	if len(matches) == 0 {
		return ""
	}
	return matches[0].Str
}
