package index

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breeze-nav/breeze/internal/listing"
)

func entriesOf(l listing.Listing, names ...string) listing.Listing {
	for _, n := range names {
		kind := listing.KindFile
		if len(n) > 0 && n[len(n)-1] == '/' {
			kind = listing.KindDir
			n = n[:len(n)-1]
		}
		l.Entries = append(l.Entries, listing.Entry{Name: n, Path: "/tmp/" + n, Kind: kind})
	}
	return l
}

func names(cs []Candidate) []string {
	out := make([]string, len(cs))
	for i, c := range cs {
		out[i] = c.Entry.Name
	}
	return out
}

func TestRankedOrderExample(t *testing.T) {
	// ["apple", "Banana", "app"] filtered by "ap" yields
	// ["app", "apple"]; Banana has no "ap" subsequence.
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "apple", "Banana", "app"))
	ix.SetQuery("ap")
	assert.Equal(t, []string{"app", "apple"}, names(ix.Candidates()))
}

func TestRefilterIdempotent(t *testing.T) {
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "alpha", "beta", "gamma", "alabama", "lambda"))
	ix.SetQuery("a")
	first := names(ix.Candidates())

	// Force a full recompute with identical inputs.
	ix.SetQuery("")
	ix.SetQuery("a")
	assert.Equal(t, first, names(ix.Candidates()))
}

func TestEveryCandidateIsSubsequenceMatch(t *testing.T) {
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "config", "cargo", "main.go", "Makefile", "cmd"))
	ix.SetQuery("cg")
	require.NotEmpty(t, ix.Candidates())
	for _, c := range ix.Candidates() {
		// cg must appear in order, case-insensitive.
		assert.Contains(t, []string{"config", "cargo"}, c.Entry.Name)
	}
}

func TestEmptyQueryPreservesListingOrder(t *testing.T) {
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "zeta/", "alpha/", "mid", "aaa"))
	ix.SetQuery("")
	assert.Equal(t, []string{"zeta", "alpha", "mid", "aaa"}, names(ix.Candidates()))
}

func TestDirectoriesBeforeFilesOnTie(t *testing.T) {
	ix := New(0)
	// Same name shape, identical scores: the directory must come first.
	ix.SetListing(entriesOf(listing.Listing{}, "abx", "aby/"))
	ix.SetQuery("ab")
	got := ix.Candidates()
	require.Len(t, got, 2)
	assert.True(t, got[0].Entry.IsDir())
	assert.Equal(t, "aby", got[0].Entry.Name)
}

func TestLexicographicFinalTieBreak(t *testing.T) {
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "abd", "abc"))
	ix.SetQuery("ab")
	assert.Equal(t, []string{"abc", "abd"}, names(ix.Candidates()))
}

func TestIncrementalMatchesFullRefilter(t *testing.T) {
	var base []string
	for i := 0; i < 50; i++ {
		base = append(base, fmt.Sprintf("entry_%02d", i))
	}
	base = append(base, "apple", "app", "apricot", "grape")

	// threshold 10 forces the incremental path on the extension.
	incr := New(10)
	incr.SetListing(entriesOf(listing.Listing{}, base...))
	incr.SetQuery("ap")
	incr.SetQuery("app")

	full := New(0)
	full.SetListing(entriesOf(listing.Listing{}, base...))
	full.SetQuery("app")

	assert.Equal(t, names(full.Candidates()), names(incr.Candidates()))
}

func TestSetListingSupersedes(t *testing.T) {
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "old_one", "old_two"))
	ix.SetQuery("o")
	require.NotEmpty(t, ix.Candidates())

	ix.SetListing(entriesOf(listing.Listing{}, "new_only"))
	assert.Equal(t, []string{"new_only"}, names(ix.Candidates()))
	assert.Equal(t, "o", ix.Query())
}

func TestAt(t *testing.T) {
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "a", "b"))
	ix.SetQuery("")

	_, ok := ix.At(-1)
	assert.False(t, ok)
	_, ok = ix.At(2)
	assert.False(t, ok)
	c, ok := ix.At(0)
	require.True(t, ok)
	assert.Equal(t, "a", c.Entry.Name)
}

func TestNoMatchYieldsEmpty(t *testing.T) {
	ix := New(0)
	ix.SetListing(entriesOf(listing.Listing{}, "alpha", "beta"))
	ix.SetQuery("zzz")
	assert.Zero(t, ix.Len())
}
