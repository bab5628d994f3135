// Package index derives the ranked candidate set from exactly two inputs:
// the current listing and the current query. There is no other mutation
// path, so refiltering is idempotent and can be recomputed from scratch at
// any time.
package index

import (
	"sort"
	"strings"

	"github.com/breeze-nav/breeze/internal/listing"
	"github.com/breeze-nav/breeze/internal/matcher"
)

// Candidate projects an Entry together with its match metadata for the
// current query. Candidates are recomputed, never mutated in place.
type Candidate struct {
	Entry     listing.Entry
	Score     int
	Positions []int
}

// Index holds one directory's listing and its filtered, ranked subset.
type Index struct {
	l          listing.Listing
	query      string
	candidates []Candidate
	// Above this many entries a strictly-extended query narrows the
	// previous candidate set instead of rescoring the whole listing.
	threshold int
}

// New returns an empty Index. threshold <= 0 disables the incremental
// strategy.
func New(threshold int) *Index {
	return &Index{threshold: threshold}
}

// SetListing replaces the listing (superseding, not merging) and refilters
// with the current query.
func (ix *Index) SetListing(l listing.Listing) {
	ix.l = l
	ix.refilterAll()
}

// SetQuery refilters for q. When q strictly extends the previous query and
// the listing is large, only the surviving candidates are rescored; a
// subsequence match against q implies one against any prefix of q, so the
// narrowed set is exact, not approximate.
func (ix *Index) SetQuery(q string) {
	if q == ix.query {
		return
	}
	incremental := ix.threshold > 0 &&
		len(ix.l.Entries) > ix.threshold &&
		ix.query != "" &&
		strings.HasPrefix(q, ix.query)
	ix.query = q
	if incremental {
		ix.refilterCandidates()
		return
	}
	ix.refilterAll()
}

// Query returns the query the current candidate set was computed for.
func (ix *Index) Query() string { return ix.query }

// Listing returns the listing the current candidate set was computed from.
func (ix *Index) Listing() listing.Listing { return ix.l }

// Candidates returns the ranked candidate sequence.
func (ix *Index) Candidates() []Candidate { return ix.candidates }

// Len returns the size of the ranked candidate sequence.
func (ix *Index) Len() int { return len(ix.candidates) }

// At returns the candidate at rank i.
func (ix *Index) At(i int) (Candidate, bool) {
	if i < 0 || i >= len(ix.candidates) {
		return Candidate{}, false
	}
	return ix.candidates[i], true
}

func (ix *Index) refilterAll() {
	out := ix.candidates[:0]
	if cap(out) < len(ix.l.Entries) {
		out = make([]Candidate, 0, len(ix.l.Entries))
	}
	for _, e := range ix.l.Entries {
		if r, ok := matcher.Match(ix.query, e.Name); ok {
			out = append(out, Candidate{Entry: e, Score: r.Score, Positions: r.Positions})
		}
	}
	ix.candidates = out
	ix.rank()
}

func (ix *Index) refilterCandidates() {
	out := ix.candidates[:0]
	for _, c := range ix.candidates {
		if r, ok := matcher.Match(ix.query, c.Entry.Name); ok {
			out = append(out, Candidate{Entry: c.Entry, Score: r.Score, Positions: r.Positions})
		}
	}
	ix.candidates = out
	ix.rank()
}

// rank orders candidates by score descending, then directories before
// files, then case-sensitive name. The ordering is total and deterministic
// so repeated refilters with identical inputs agree, which keeps the
// cursor stable while typing. An empty query keeps the listing's base
// ordering untouched.
func (ix *Index) rank() {
	if ix.query == "" {
		return
	}
	sort.SliceStable(ix.candidates, func(i, j int) bool {
		a, b := ix.candidates[i], ix.candidates[j]
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		ad, bd := a.Entry.IsDir(), b.Entry.IsDir()
		if ad != bd {
			return ad
		}
		return a.Entry.Name < b.Entry.Name
	})
}
