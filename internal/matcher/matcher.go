// Package matcher implements case-insensitive fuzzy subsequence matching
// with positional scoring. It is pure: no state is retained between calls,
// so it can run once per candidate per keystroke.
package matcher

import (
	"unicode"
	"unicode/utf8"
)

// Result holds the score and the matched rune positions for one label.
// Positions are rune indexes into the label, ascending.
type Result struct {
	Score     int
	Positions []int
}

// Scoring weights. Contiguous runs and word-boundary hits dominate; the
// per-rune length penalty ranks shorter labels above longer ones when the
// match quality is otherwise equal.
const (
	matchBonus       = 16
	consecutiveBonus = 12
	boundaryBonus    = 10
	startBonus       = 8
	lengthPenalty    = 1
)

// Match reports whether every rune of query appears in label in order
// (case-insensitive, not necessarily contiguous). The empty query matches
// everything with a constant score so the caller's base ordering survives.
// Labels with invalid UTF-8 are handled byte-wise via RuneError, never
// rejected or panicked on.
func Match(query, label string) (Result, bool) {
	if query == "" {
		return Result{}, true
	}

	positions := make([]int, 0, utf8.RuneCountInString(query))
	score := 0
	qi := 0 // byte offset into query
	li := 0 // rune index into label
	prevMatched := false
	var prevRune rune

	for _, lr := range label {
		if qi < len(query) {
			qr, size := utf8.DecodeRuneInString(query[qi:])
			if unicode.ToLower(lr) == unicode.ToLower(qr) {
				score += matchBonus
				if prevMatched {
					score += consecutiveBonus
				}
				if li == 0 {
					score += startBonus + boundaryBonus
				} else if isBoundary(prevRune, lr) {
					score += boundaryBonus
				}
				positions = append(positions, li)
				qi += size
				prevMatched = true
				prevRune = lr
				li++
				continue
			}
		}
		prevMatched = false
		prevRune = lr
		li++
	}

	if qi < len(query) {
		return Result{}, false
	}

	score -= li * lengthPenalty
	return Result{Score: score, Positions: positions}, true
}

// isBoundary reports whether cur starts a word given the rune before it:
// after a path separator or common word separator, or a lower-to-upper
// camelCase transition.
func isBoundary(prev, cur rune) bool {
	switch prev {
	case '/', '\\', '.', '_', '-', ' ':
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(cur)
}
