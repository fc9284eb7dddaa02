// Package walker enumerates a project tree in a deterministic depth-first
// order, pruning directories and files according to a rule set.
package walker

import (
	"fmt"
	"io"
	"io/fs"
	"iter"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	gitignore "github.com/monochromegane/go-gitignore"

	"github.com/Sarakael78/DoctorCodebase/internal/rules"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

// Options tune a walk beyond what the rule set describes.
type Options struct {
	// MaxDepth stops descent below this depth; children of the root are at
	// depth 1. Zero means unlimited.
	MaxDepth int
	// SkipHidden drops entries whose name starts with a dot.
	SkipHidden bool
	// UseGitignore applies the root .gitignore, if present.
	UseGitignore bool
	// Exclude lists paths that are pruned regardless of the rules, such as
	// the output directory of the run itself.
	Exclude []string
	Logger  *slog.Logger
}

// Entry is one surfaced directory or file.
type Entry struct {
	RelPath string // slash separated, relative to the root
	AbsPath string
	Name    string
	Ext     string // lower-cased with leading dot, "" for directories
	IsDir   bool
	Depth   int
	Size    int64
}

// InvalidRootError is returned by New when the root is missing or is not a directory.
type InvalidRootError struct {
	Root string
	Err  error
}

func (e *InvalidRootError) Error() string {
	return fmt.Sprintf("invalid root %s: %v", e.Root, e.Err)
}

func (e *InvalidRootError) Unwrap() error { return e.Err }

// Walker produces the entries of a single walk. It is not safe for
// concurrent use and its sequence can only be consumed once.
type Walker struct {
	root     string
	rules    rules.RuleSet
	opts     Options
	ignore   gitignore.IgnoreMatcher
	exclude  map[string]struct{}
	log      *slog.Logger
	used     bool
	warnings []types.FileAccessWarning
}

// New checks root and prepares a walk. No directory is read until the
// sequence returned by Entries is iterated.
func New(root string, rs rules.RuleSet, opts Options) (*Walker, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &InvalidRootError{Root: root, Err: err}
	}
	if !info.IsDir() {
		return nil, &InvalidRootError{Root: root, Err: fmt.Errorf("not a directory")}
	}

	w := &Walker{
		root:    abs,
		rules:   rs,
		opts:    opts,
		exclude: make(map[string]struct{}, len(opts.Exclude)),
		log:     opts.Logger,
	}
	if w.log == nil {
		w.log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	for _, p := range opts.Exclude {
		if p, err := filepath.Abs(p); err == nil {
			w.exclude[p] = struct{}{}
		}
	}

	if opts.UseGitignore {
		gitIgnorePath := filepath.Join(abs, ".gitignore")
		if _, err := os.Stat(gitIgnorePath); err == nil {
			matcher, err := gitignore.NewGitIgnore(gitIgnorePath, abs)
			if err != nil {
				w.warn(".gitignore", types.ReasonUnreadable, err)
			} else {
				w.ignore = matcher
			}
		}
	}
	return w, nil
}

// Root returns the absolute root path.
func (w *Walker) Root() string { return w.root }

// Warnings returns the non-fatal problems met so far.
func (w *Walker) Warnings() []types.FileAccessWarning { return w.warnings }

type frame struct {
	rel     string
	abs     string
	depth   int
	entries []fs.DirEntry
	next    int
}

// Entries returns the lazy sequence of surfaced entries. Directories are
// listed before files at each level and both are sorted by name; a directory
// is followed by its whole subtree before its next sibling. Pending
// directories live on an explicit stack, so deep trees do not grow the call
// stack. A second call yields nothing.
func (w *Walker) Entries() iter.Seq[Entry] {
	return func(yield func(Entry) bool) {
		if w.used {
			return
		}
		w.used = true

		stack := []*frame{w.open("", w.root, 0)}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			if top.next >= len(top.entries) {
				stack = stack[:len(stack)-1]
				continue
			}
			d := top.entries[top.next]
			top.next++

			e, ok := w.admit(top, d)
			if !ok {
				continue
			}
			if !yield(e) {
				return
			}
			if e.IsDir {
				stack = append(stack, w.open(e.RelPath, e.AbsPath, e.Depth))
			}
		}
	}
}

func (w *Walker) open(rel, abs string, depth int) *frame {
	f := &frame{rel: rel, abs: abs, depth: depth}
	if w.opts.MaxDepth > 0 && depth >= w.opts.MaxDepth {
		return f
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		name := rel
		if name == "" {
			name = "."
		}
		w.warn(name, types.ReasonUnreadable, err)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].IsDir() != entries[j].IsDir() {
			return entries[i].IsDir()
		}
		return entries[i].Name() < entries[j].Name()
	})
	f.entries = entries
	return f
}

func (w *Walker) admit(parent *frame, d fs.DirEntry) (Entry, bool) {
	name := d.Name()
	rel := path.Join(parent.rel, name)
	abs := filepath.Join(parent.abs, name)

	if d.Type()&fs.ModeSymlink != 0 {
		w.warn(rel, types.ReasonSymlink, nil)
		return Entry{}, false
	}
	if w.opts.SkipHidden && strings.HasPrefix(name, ".") {
		return Entry{}, false
	}
	if _, ok := w.exclude[abs]; ok {
		return Entry{}, false
	}
	if w.ignore != nil && w.ignore.Match(abs, d.IsDir()) {
		return Entry{}, false
	}

	e := Entry{RelPath: rel, AbsPath: abs, Name: name, Depth: parent.depth + 1}
	if d.IsDir() {
		if w.rules.IgnoresDir(rel) {
			w.log.Debug("pruned directory", "path", rel)
			return Entry{}, false
		}
		e.IsDir = true
		return e, true
	}
	if !d.Type().IsRegular() {
		return Entry{}, false
	}

	e.Ext = Ext(name)
	if w.rules.IgnoresExtension(e.Ext) && !w.rules.IsEssential(name) {
		return Entry{}, false
	}
	info, err := d.Info()
	if err != nil {
		w.warn(rel, types.ReasonUnreadable, err)
		return Entry{}, false
	}
	e.Size = info.Size()
	return e, true
}

func (w *Walker) warn(rel, reason string, err error) {
	w.log.Warn("skipping entry", "path", rel, "reason", reason, "error", err)
	w.warnings = append(w.warnings, types.FileAccessWarning{Path: rel, Reason: reason, Err: err})
}

// Ext returns the lower-cased extension of a file name. Dotfiles without a
// further dot, such as ".gitignore", have no extension.
func Ext(name string) string {
	trimmed := strings.TrimPrefix(name, ".")
	if !strings.Contains(trimmed, ".") {
		return ""
	}
	return strings.ToLower(filepath.Ext(name))
}
