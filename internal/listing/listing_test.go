package listing

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mkfile(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
	return p
}

func entryNames(l Listing) []string {
	out := make([]string, len(l.Entries))
	for i, e := range l.Entries {
		out[i] = e.Name
	}
	return out
}

func TestListSortsDirsFirstThenName(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "zeta.txt")
	mkfile(t, dir, "Alpha.txt")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "src"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "Build"), 0o755))

	p := NewProvider(Options{TTL: time.Minute})
	l := p.List(context.Background(), dir)

	assert.False(t, l.Partial)
	assert.Equal(t, []string{"Build", "src", "Alpha.txt", "zeta.txt"}, entryNames(l))
}

func TestListHiddenFiltering(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, ".hidden")
	mkfile(t, dir, "visible")

	p := NewProvider(Options{TTL: time.Minute})
	l := p.List(context.Background(), dir)
	assert.Equal(t, []string{"visible"}, entryNames(l))

	p.SetShowHidden(true)
	l = p.List(context.Background(), dir)
	assert.Equal(t, []string{".hidden", "visible"}, entryNames(l))
	assert.True(t, p.ShowHidden())
}

func TestListIgnorePatterns(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "keep.go")
	mkfile(t, dir, "skip.tmp")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "node_modules"), 0o755))

	p := NewProvider(Options{
		TTL:            time.Minute,
		IgnorePatterns: []string{"*.tmp", "node_modules"},
	})
	l := p.List(context.Background(), dir)
	assert.Equal(t, []string{"keep.go"}, entryNames(l))
}

func TestBadIgnorePatternIsSkipped(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "a")

	p := NewProvider(Options{TTL: time.Minute, IgnorePatterns: []string{"[unclosed"}})
	l := p.List(context.Background(), dir)
	assert.Equal(t, []string{"a"}, entryNames(l))
}

func TestListKinds(t *testing.T) {
	dir := t.TempDir()
	target := mkfile(t, dir, "plain")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))
	require.NoError(t, os.Symlink(target, filepath.Join(dir, "link")))

	p := NewProvider(Options{TTL: time.Minute})
	l := p.List(context.Background(), dir)
	require.Len(t, l.Entries, 3)

	kinds := map[string]Kind{}
	for _, e := range l.Entries {
		kinds[e.Name] = e.Kind
	}
	assert.Equal(t, KindDir, kinds["sub"])
	assert.Equal(t, KindFile, kinds["plain"])
	// Symlinks are classified by their own type, never followed.
	assert.Equal(t, KindSymlink, kinds["link"])
}

func TestListUnreadableDirectoryIsPartialWithZeroEntries(t *testing.T) {
	p := NewProvider(Options{TTL: time.Minute})
	l := p.List(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"))
	assert.True(t, l.Partial)
	assert.Empty(t, l.Entries)
}

func TestListCancelledContextMarksPartial(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "a")
	mkfile(t, dir, "b")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewProvider(Options{TTL: time.Minute})
	l := p.List(ctx, dir)
	assert.True(t, l.Partial)
}

func TestCacheHitWithinTTL(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "a")

	p := NewProvider(Options{TTL: time.Minute})
	first := p.List(context.Background(), dir)

	// The second read must come from cache and not observe the new file.
	mkfile(t, dir, "b")
	second := p.List(context.Background(), dir)
	assert.Equal(t, entryNames(first), entryNames(second))
	assert.Equal(t, first.Taken, second.Taken)
}

func TestInvalidateForcesReread(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "a")

	p := NewProvider(Options{TTL: time.Minute})
	p.List(context.Background(), dir)

	mkfile(t, dir, "b")
	p.Invalidate(dir)
	l := p.List(context.Background(), dir)
	assert.Equal(t, []string{"a", "b"}, entryNames(l))
}

func TestInvalidateOtherPathKeepsCache(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, "a")

	p := NewProvider(Options{TTL: time.Minute})
	first := p.List(context.Background(), dir)

	p.Invalidate(filepath.Join(dir, "elsewhere"))
	second := p.List(context.Background(), dir)
	assert.Equal(t, first.Taken, second.Taken)
}

func TestSetShowHiddenDropsCache(t *testing.T) {
	dir := t.TempDir()
	mkfile(t, dir, ".dot")
	mkfile(t, dir, "plain")

	p := NewProvider(Options{TTL: time.Minute})
	require.Equal(t, []string{"plain"}, entryNames(p.List(context.Background(), dir)))

	p.SetShowHidden(true)
	assert.Equal(t, []string{".dot", "plain"}, entryNames(p.List(context.Background(), dir)))
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "file", KindFile.String())
	assert.Equal(t, "dir", KindDir.String())
	assert.Equal(t, "symlink", KindSymlink.String())
	assert.Equal(t, "other", KindOther.String())
}
