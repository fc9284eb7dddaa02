// Package stats accumulates structural statistics over classified files.
package stats

import (
	"math"
	"strings"

	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

// TodoMarkers are matched case-insensitively as whole words, so "todo:"
// and "// FIXME" count but "hackathon" does not.
var TodoMarkers = []string{"todo", "fixme", "hack"}

// CountLines counts line terminators, plus one for a non-empty final line
// without a terminator. An empty text has zero lines.
func CountLines(text string) int {
	n := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		n++
	}
	return n
}

// IsTodoLine reports whether line carries at least one marker. A line with
// several markers is still a single TODO line.
func IsTodoLine(line string) bool {
	lower := strings.ToLower(line)
	for _, m := range TodoMarkers {
		if containsWord(lower, m) {
			return true
		}
	}
	return false
}

func containsWord(s, word string) bool {
	for i := 0; ; {
		j := strings.Index(s[i:], word)
		if j < 0 {
			return false
		}
		start, end := i+j, i+j+len(word)
		if (start == 0 || !isWordByte(s[start-1])) && (end == len(s) || !isWordByte(s[end])) {
			return true
		}
		i = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || b >= '0' && b <= '9' || b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z'
}

// Structure is what one pass over a file's lines finds.
type Structure struct {
	Functions   int
	Classes     int
	Todos       int
	Imports     []string
	Definitions []types.FunctionDef
}

// Analyze walks text line by line. TODO lines are counted for every file;
// definitions and imports only for a known dialect.
func Analyze(d types.Dialect, text string) Structure {
	var st Structure
	table, known := Lookup(d)
	inImports := false
	n := 0
	for line := range strings.Lines(text) {
		n++
		line = strings.TrimRight(line, "\r\n")
		if IsTodoLine(line) {
			st.Todos++
		}
		if !known {
			continue
		}
		trimmed := strings.TrimSpace(line)

		if inImports {
			if strings.HasPrefix(trimmed, ")") {
				inImports = false
			} else if trimmed != "" && !strings.HasPrefix(trimmed, "//") {
				st.Imports = append(st.Imports, table.ImportBlock.Keyword+" "+trimmed)
			}
			continue
		}
		if table.ImportBlock.Open != "" && trimmed == table.ImportBlock.Open {
			inImports = true
			continue
		}
		if Match(table.Imports, line) {
			st.Imports = append(st.Imports, trimmed)
		}

		if Match(table.Functions, line) {
			st.Functions++
			st.Definitions = append(st.Definitions, Definition(trimmed, n))
		}
		if Match(table.Classes, line) {
			st.Classes++
		}
	}
	return st
}

// Scan returns the definition and TODO line counts of text.
func Scan(d types.Dialect, text string) (functions, classes, todos int) {
	st := Analyze(d, text)
	return st.Functions, st.Classes, st.Todos
}

// CountStructures returns the function and class definition lines of text
// for dialect d. Unknown dialects count nothing.
func CountStructures(d types.Dialect, text string) (functions, classes int) {
	functions, classes, _ = Scan(d, text)
	return functions, classes
}

// Measure fills in the per-file line, definition, import and TODO data of a
// record that carries text. It is part of classification; records are
// read-only once they reach the accumulator.
func Measure(rec *types.FileRecord) {
	if rec.TextContent == nil {
		return
	}
	text := *rec.TextContent
	rec.LineCount = CountLines(text)
	st := Analyze(rec.Dialect, text)
	rec.Functions, rec.Classes, rec.Todos = st.Functions, st.Classes, st.Todos
	rec.Imports, rec.Definitions = st.Imports, st.Definitions
}

// Accumulator is the single mutable aggregate of a run. Add is called once
// per record in walk order; Finalize produces the read-only result.
type Accumulator struct {
	stats     types.Statistics
	counted   int
	sources   int
	haveLarge bool
	haveSmall bool
}

// NewAccumulator returns an empty accumulator. tokensCounted marks whether
// per-file token counts are being supplied.
func NewAccumulator(tokensCounted bool) *Accumulator {
	return &Accumulator{stats: types.Statistics{
		ExtensionHistogram: make(map[string]int),
		CategoryCounts:     make(map[types.Category]int),
		TokensCounted:      tokensCounted,
	}}
}

// Add folds one classified record into the running totals. Skipped records
// count as files but contribute no lines or definitions.
func (a *Accumulator) Add(rec *types.FileRecord) {
	s := &a.stats
	s.TotalFiles++
	s.TotalBytes += rec.SizeBytes

	ext := rec.Extension
	if ext == "" {
		ext = types.NoExtension
	}
	s.ExtensionHistogram[ext]++
	s.CategoryCounts[rec.Category]++

	if rec.Category == types.CategorySkipped || rec.TextContent == nil {
		if rec.Category == types.CategorySkipped {
			s.SkippedFiles++
		}
		return
	}

	s.TotalLines += rec.LineCount
	s.TotalFunctions += rec.Functions
	s.TotalClasses += rec.Classes
	s.TotalTodos += rec.Todos
	s.TotalTokens += rec.Tokens
	a.counted++
	if rec.Category == types.CategorySource {
		a.sources++
	}

	if !a.haveLarge || rec.LineCount > s.LargestFile.Lines {
		s.LargestFile = types.FileLines{Path: rec.RelativePath, Lines: rec.LineCount}
		a.haveLarge = true
	}
	if !a.haveSmall || rec.LineCount < s.SmallestFile.Lines {
		s.SmallestFile = types.FileLines{Path: rec.RelativePath, Lines: rec.LineCount}
		a.haveSmall = true
	}
}

// Finalize returns a copy of the aggregate with derived averages filled in.
// Every category has an entry in CategoryCounts, zero or not. The
// accumulator can keep receiving records afterwards.
func (a *Accumulator) Finalize() types.Statistics {
	out := a.stats
	out.ExtensionHistogram = make(map[string]int, len(a.stats.ExtensionHistogram))
	for k, v := range a.stats.ExtensionHistogram {
		out.ExtensionHistogram[k] = v
	}
	out.CategoryCounts = make(map[types.Category]int, len(types.Categories))
	for _, c := range types.Categories {
		out.CategoryCounts[c] = a.stats.CategoryCounts[c]
	}
	if a.counted > 0 {
		out.AverageFileLength = round2(float64(out.TotalLines) / float64(a.counted))
	}
	if a.sources > 0 {
		out.AverageFunctionsPerFile = round2(float64(out.TotalFunctions) / float64(a.sources))
	}
	return out
}

func round2(f float64) float64 { return math.Round(f*100) / 100 }
