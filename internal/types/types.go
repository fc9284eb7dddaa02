// Package types holds the data model shared by the snapshot engine, its
// renderers and the CLI.
package types

import "fmt"

// Category is the classification assigned to every surfaced file.
type Category string

const (
	CategorySource     Category = "source"
	CategoryStructured Category = "structured"
	CategoryEssential  Category = "essential"
	CategoryOther      Category = "other"
	CategorySkipped    Category = "skipped"
)

// Categories lists every category in report order.
var Categories = []Category{
	CategorySource,
	CategoryStructured,
	CategoryEssential,
	CategoryOther,
	CategorySkipped,
}

// Dialect names the source language used to pick structural line predicates.
// Empty for files that are not source code.
type Dialect string

// FileRecord holds everything known about one surfaced file after
// classification. It is not modified afterwards.
type FileRecord struct {
	// RelativePath is slash separated and relative to the scanned root.
	RelativePath string   `json:"path"`
	AbsolutePath string   `json:"-"`
	Category     Category `json:"category"`
	Dialect      Dialect  `json:"dialect,omitempty"`
	Extension    string   `json:"extension"`
	SizeBytes    int64    `json:"sizeBytes"`
	LineCount    int      `json:"lineCount"`
	Functions    int      `json:"functions"`
	Classes      int      `json:"classes"`
	Todos        int      `json:"todos"`
	Tokens       int      `json:"tokens,omitempty"`
	// Imports and Definitions are the import lines and function definition
	// lines found by the dialect's line predicates, in file order.
	Imports     []string      `json:"imports,omitempty"`
	Definitions []FunctionDef `json:"definitions,omitempty"`
	// TextContent is nil for skipped files. Embed tells whether it is part of
	// the emitted snapshot or only feeds the statistics.
	TextContent *string `json:"-"`
	Embed       bool    `json:"embedded"`
	SkipReason  string  `json:"skipReason,omitempty"`
}

// Content returns the decoded text, or "" when none was kept.
func (r *FileRecord) Content() string {
	if r.TextContent == nil {
		return ""
	}
	return *r.TextContent
}

// FunctionDef is one function definition line. Parameters are taken from
// the parenthesised list on that line only; a signature continued on later
// lines yields what the first line holds.
type FunctionDef struct {
	Name       string   `json:"name"`
	Line       int      `json:"line"`
	Parameters []string `json:"parameters"`
	Definition string   `json:"definition"`
}

// FolderNode is one entry of the folder structure. Children are only
// populated for directories and are kept in display order.
type FolderNode struct {
	Name        string        `json:"name"`
	Path        string        `json:"path"`
	IsDirectory bool          `json:"isDirectory"`
	Children    []*FolderNode `json:"children,omitempty"`
}

// FileAccessWarning records a non-fatal problem with a single entry. The run
// continues; files carrying a warning are reported as skipped.
type FileAccessWarning struct {
	Path   string
	Reason string
	Err    error
}

// Warning reasons.
const (
	ReasonTooLarge    = "too large"
	ReasonUndecodable = "not text"
	ReasonUnreadable  = "unreadable"
	ReasonSymlink     = "symbolic link"
)

func (w *FileAccessWarning) Error() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %s: %v", w.Path, w.Reason, w.Err)
	}
	return fmt.Sprintf("%s: %s", w.Path, w.Reason)
}

func (w *FileAccessWarning) Unwrap() error { return w.Err }

// RunResult is the complete in-memory product of one pass over a tree.
type RunResult struct {
	Root        string
	ProjectName string
	Files       []FileRecord
	Tree        *FolderNode
	Statistics  Statistics
	Warnings    []FileAccessWarning
}

// Embedded returns the records whose content is part of the snapshot, in walk order.
func (r *RunResult) Embedded() []*FileRecord {
	var out []*FileRecord
	for i := range r.Files {
		if r.Files[i].Embed && r.Files[i].TextContent != nil {
			out = append(out, &r.Files[i])
		}
	}
	return out
}
