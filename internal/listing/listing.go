// Package listing is the only component that touches the filesystem. It
// reads one directory level at a time and absorbs every read failure into
// the returned Listing rather than surfacing errors to the caller.
package listing

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gobwas/glob"

	"github.com/breeze-nav/breeze/internal/logger"
)

// Kind classifies a directory child. Symlinks are reported as their own
// kind and never followed, which keeps traversal cycle-free.
type Kind int

const (
	KindFile Kind = iota
	KindDir
	KindSymlink
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindFile:
		return "file"
	case KindDir:
		return "dir"
	case KindSymlink:
		return "symlink"
	default:
		return "other"
	}
}

// Entry is one filesystem child. Immutable once read. Name may contain
// arbitrary bytes; it is carried verbatim and never re-decoded.
type Entry struct {
	Name            string
	Path            string
	Kind            Kind
	Size            int64
	ModTime         time.Time
	MetaUnavailable bool
}

// IsDir reports whether the entry can be navigated into.
func (e Entry) IsDir() bool { return e.Kind == KindDir }

// Listing is the ordered entry set for one directory, plus a capture
// timestamp and a partial flag set when the read failed or was cut short.
type Listing struct {
	Path    string
	Entries []Entry
	Partial bool
	Taken   time.Time
}

// Options configures a Provider.
type Options struct {
	ShowHidden     bool
	TTL            time.Duration
	IgnorePatterns []string
}

// Provider reads directory listings with a single-entry cache to absorb
// quick re-entry into the same directory (Backspace then Enter) without a
// second ReadDir.
type Provider struct {
	mu         sync.Mutex
	showHidden bool
	ttl        time.Duration
	ignore     []glob.Glob
	cached     Listing
	hasCache   bool
}

// NewProvider compiles the ignore patterns and returns a ready Provider.
// Patterns that fail to compile are logged and skipped, never fatal.
func NewProvider(opts Options) *Provider {
	p := &Provider{
		showHidden: opts.ShowHidden,
		ttl:        opts.TTL,
	}
	for _, pat := range opts.IgnorePatterns {
		g, err := glob.Compile(pat)
		if err != nil {
			logger.Warn("ignoring bad ignore pattern %q: %v", pat, err)
			continue
		}
		p.ignore = append(p.ignore, g)
	}
	return p
}

// List returns the Listing for path, reading one directory level only.
// A permission or I/O error on the directory itself yields zero entries
// with Partial set. Per-entry metadata failures mark that entry degraded
// but keep its name visible. A context deadline mid-read returns whatever
// was gathered so far, marked partial.
func (p *Provider) List(ctx context.Context, path string) Listing {
	p.mu.Lock()
	if p.hasCache && p.cached.Path == path && time.Since(p.cached.Taken) < p.ttl {
		l := p.cached
		p.mu.Unlock()
		return l
	}
	p.mu.Unlock()

	l := p.read(ctx, path)

	p.mu.Lock()
	p.cached = l
	p.hasCache = true
	p.mu.Unlock()
	return l
}

// Invalidate drops the cached listing for path, forcing the next List to
// hit the filesystem. Used by the refresh command and the change watcher.
func (p *Provider) Invalidate(path string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.hasCache && p.cached.Path == path {
		p.hasCache = false
	}
}

// SetShowHidden toggles dotfile visibility and drops the cache so the next
// read reflects it.
func (p *Provider) SetShowHidden(show bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.showHidden = show
	p.hasCache = false
}

// ShowHidden reports the current dotfile visibility.
func (p *Provider) ShowHidden() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.showHidden
}

func (p *Provider) read(ctx context.Context, path string) Listing {
	l := Listing{Path: path, Taken: time.Now()}

	dirents, err := os.ReadDir(path)
	if err != nil {
		logger.Warn("cannot read directory %s: %v", path, err)
		l.Partial = true
		return l
	}

	p.mu.Lock()
	showHidden := p.showHidden
	ignore := p.ignore
	p.mu.Unlock()

	for _, d := range dirents {
		if ctx.Err() != nil {
			l.Partial = true
			break
		}
		name := d.Name()
		if !showHidden && strings.HasPrefix(name, ".") {
			continue
		}
		if ignored(ignore, name) {
			continue
		}

		e := Entry{
			Name: name,
			Path: filepath.Join(path, name),
			Kind: kindOf(d.Type()),
		}
		if info, err := d.Info(); err != nil {
			// Target may have vanished between ReadDir and Stat;
			// keep the name so it can still be navigated or selected.
			e.MetaUnavailable = true
		} else {
			e.Size = info.Size()
			e.ModTime = info.ModTime()
		}
		l.Entries = append(l.Entries, e)
	}

	sortEntries(l.Entries)
	return l
}

func ignored(patterns []glob.Glob, name string) bool {
	for _, g := range patterns {
		if g.Match(name) {
			return true
		}
	}
	return false
}

func kindOf(mode fs.FileMode) Kind {
	switch {
	case mode&fs.ModeSymlink != 0:
		return KindSymlink
	case mode.IsDir():
		return KindDir
	case mode.IsRegular():
		return KindFile
	default:
		return KindOther
	}
}

// sortEntries orders directories first, then case-insensitive name, with
// the raw name as a deterministic final tie-break. This is the stable base
// ordering an empty query preserves.
func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		di, dj := entries[i].IsDir(), entries[j].IsDir()
		if di != dj {
			return di
		}
		ni, nj := strings.ToLower(entries[i].Name), strings.ToLower(entries[j].Name)
		if ni != nj {
			return ni < nj
		}
		return entries[i].Name < entries[j].Name
	})
}
