// Package rules defines the immutable rule set that decides which directories
// are pruned, which files are surfaced and how they are categorised.
package rules

import (
	"fmt"
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Config is the raw, caller-supplied form of a rule set. It is normalised by New.
type Config struct {
	IgnoredDirectories   []string
	IgnoredExtensions    []string
	EssentialFilenames   []string
	StructuredExtensions []string
	SourceExtensions     []string
	ProjectName          string
}

// RuleSet is the resolved configuration consumed by the walker and the
// classifier. All fields are unexported so a RuleSet cannot change after New
// returns; copies share the same read-only lookup tables.
type RuleSet struct {
	dirNames    map[string]struct{}
	dirPatterns []string
	ignoredExts map[string]struct{}
	essentials  map[string]struct{}
	structured  map[string]struct{}
	source      map[string]struct{}
	projectName string
}

// New validates and normalises cfg. Extensions are lower-cased and given a
// leading dot; essential filenames match case-insensitively.
func New(cfg Config) (RuleSet, error) {
	rs := RuleSet{
		dirNames:    make(map[string]struct{}),
		ignoredExts: extensionSet(cfg.IgnoredExtensions),
		essentials:  make(map[string]struct{}),
		structured:  extensionSet(cfg.StructuredExtensions),
		source:      extensionSet(cfg.SourceExtensions),
		projectName: strings.TrimSpace(cfg.ProjectName),
	}

	for _, d := range cfg.IgnoredDirectories {
		d = strings.Trim(strings.TrimSpace(d), "/")
		if d == "" {
			continue
		}
		if !hasMeta(d) && !strings.Contains(d, "/") {
			rs.dirNames[d] = struct{}{}
			continue
		}
		if !doublestar.ValidatePattern(d) {
			return RuleSet{}, &ConfigurationError{Key: "directories.ignore", Err: fmt.Errorf("invalid pattern %q", d)}
		}
		rs.dirPatterns = append(rs.dirPatterns, d)
	}

	for _, f := range cfg.EssentialFilenames {
		f = strings.ToLower(strings.TrimSpace(f))
		if f != "" {
			rs.essentials[f] = struct{}{}
		}
	}
	return rs, nil
}

// MustNew is New for rule sets known to be valid at compile time.
func MustNew(cfg Config) RuleSet {
	rs, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return rs
}

// IgnoresDir reports whether the directory at relPath (slash separated,
// relative to the scanned root) is pruned. Plain names match the directory's
// base name exactly; patterns without a slash are globbed against the base
// name and patterns with a slash against the whole relative path.
func (rs RuleSet) IgnoresDir(relPath string) bool {
	name := path.Base(relPath)
	if _, ok := rs.dirNames[name]; ok {
		return true
	}
	for _, p := range rs.dirPatterns {
		target := name
		if strings.Contains(p, "/") {
			target = relPath
		}
		if ok, _ := doublestar.Match(p, target); ok {
			return true
		}
	}
	return false
}

// IgnoresExtension reports whether files with ext are excluded unless essential.
func (rs RuleSet) IgnoresExtension(ext string) bool { return has(rs.ignoredExts, NormalizeExt(ext)) }

// IsEssential reports whether a file called name is always captured.
func (rs RuleSet) IsEssential(name string) bool { return has(rs.essentials, strings.ToLower(name)) }

// IsSource reports whether ext belongs to an implementation language.
func (rs RuleSet) IsSource(ext string) bool { return has(rs.source, NormalizeExt(ext)) }

// IsStructured reports whether ext is a configuration or data format.
func (rs RuleSet) IsStructured(ext string) bool { return has(rs.structured, NormalizeExt(ext)) }

// ProjectName is the configured output name, or "" when the root's base name should be used.
func (rs RuleSet) ProjectName() string { return rs.projectName }

// WithStructured returns a copy of rs that also treats exts as structured.
// rs itself is left unchanged.
func (rs RuleSet) WithStructured(exts ...string) RuleSet {
	out := rs
	out.structured = make(map[string]struct{}, len(rs.structured)+len(exts))
	for e := range rs.structured {
		out.structured[e] = struct{}{}
	}
	for e := range extensionSet(exts) {
		out.structured[e] = struct{}{}
	}
	return out
}

// NormalizeExt lower-cases ext and makes sure it starts with a dot.
func NormalizeExt(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext == "" || strings.HasPrefix(ext, ".") {
		return ext
	}
	return "." + ext
}

func extensionSet(exts []string) map[string]struct{} {
	set := make(map[string]struct{}, len(exts))
	for _, e := range exts {
		if e = NormalizeExt(e); e != "" {
			set[e] = struct{}{}
		}
	}
	return set
}

func has(set map[string]struct{}, key string) bool {
	if key == "" {
		return false
	}
	_, ok := set[key]
	return ok
}

func hasMeta(s string) bool { return strings.ContainsAny(s, "*?[{\\") }
