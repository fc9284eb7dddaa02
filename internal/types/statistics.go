package types

import (
	"sort"
	"strconv"
)

// FileLines identifies a file by path together with its line count.
type FileLines struct {
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

// Statistics is the finalized, read-only aggregate of one run.
type Statistics struct {
	TotalFiles              int              `json:"totalFiles"`
	TotalLines              int              `json:"totalLines"`
	TotalFunctions          int              `json:"totalFunctions"`
	TotalClasses            int              `json:"totalClasses"`
	TotalTodos              int              `json:"totalTodos"`
	TotalBytes              int64            `json:"totalBytes"`
	TotalTokens             int              `json:"totalTokens"`
	SkippedFiles            int              `json:"skippedFiles"`
	AverageFileLength       float64          `json:"averageFileLength"`
	AverageFunctionsPerFile float64          `json:"averageFunctionsPerFile"`
	LargestFile             FileLines        `json:"largestFile"`
	SmallestFile            FileLines        `json:"smallestFile"`
	ExtensionHistogram      map[string]int   `json:"extensionHistogram"`
	CategoryCounts          map[Category]int `json:"categoryCounts"`

	// TokensCounted reports whether a token counter was active for the run.
	TokensCounted bool `json:"-"`
}

// Field is one named statistic. Key mirrors the JSON key path: nested
// objects are joined with a dot and map entries whose key may itself
// contain a dot use brackets, as in "extensionHistogram[.go]".
type Field struct {
	Key   string
	Label string
	Value string
}

// NoExtension is the histogram key for files without an extension.
const NoExtension = "(none)"

// Fields flattens the statistics into a stable, ordered list.
func (s Statistics) Fields() []Field {
	itoa := strconv.Itoa
	ftoa := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	fields := []Field{
		{"totalFiles", "Total Files", itoa(s.TotalFiles)},
		{"totalLines", "Total Lines", itoa(s.TotalLines)},
		{"totalFunctions", "Total Functions", itoa(s.TotalFunctions)},
		{"totalClasses", "Total Classes", itoa(s.TotalClasses)},
		{"totalTodos", "Total TODOs", itoa(s.TotalTodos)},
		{"totalBytes", "Total Bytes", strconv.FormatInt(s.TotalBytes, 10)},
	}
	if s.TokensCounted {
		fields = append(fields, Field{"totalTokens", "Total Tokens", itoa(s.TotalTokens)})
	}
	fields = append(fields,
		Field{"skippedFiles", "Skipped Files", itoa(s.SkippedFiles)},
		Field{"averageFileLength", "Average File Length", ftoa(s.AverageFileLength)},
		Field{"averageFunctionsPerFile", "Average Functions Per File", ftoa(s.AverageFunctionsPerFile)},
		Field{"largestFile.path", "Largest File", s.LargestFile.Path},
		Field{"largestFile.lines", "Largest File Lines", itoa(s.LargestFile.Lines)},
		Field{"smallestFile.path", "Smallest File", s.SmallestFile.Path},
		Field{"smallestFile.lines", "Smallest File Lines", itoa(s.SmallestFile.Lines)},
	)

	for _, c := range Categories {
		fields = append(fields, Field{
			Key:   "categoryCounts." + string(c),
			Label: "Files (" + string(c) + ")",
			Value: itoa(s.CategoryCounts[c]),
		})
	}

	exts := make([]string, 0, len(s.ExtensionHistogram))
	for ext := range s.ExtensionHistogram {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	for _, ext := range exts {
		fields = append(fields, Field{
			Key:   "extensionHistogram[" + ext + "]",
			Label: "Extension " + ext,
			Value: itoa(s.ExtensionHistogram[ext]),
		})
	}
	return fields
}
