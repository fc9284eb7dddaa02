package output

import (
	"encoding/csv"
	"io"
	"strconv"
	"strings"

	"github.com/Sarakael78/DoctorCodebase/internal/tree"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

// EncodeFilesCSV writes one row per surfaced file in walk order.
func EncodeFilesCSV(w io.Writer, res *types.RunResult) error {
	cw := csv.NewWriter(w)
	header := []string{"path", "category", "extension", "size_bytes", "line_count", "functions", "classes", "todos"}
	if res.Statistics.TokensCounted {
		header = append(header, "tokens")
	}
	header = append(header, "embedded", "skip_reason")
	if err := cw.Write(header); err != nil {
		return err
	}

	for i := range res.Files {
		rec := &res.Files[i]
		row := []string{
			rec.RelativePath,
			string(rec.Category),
			rec.Extension,
			strconv.FormatInt(rec.SizeBytes, 10),
			strconv.Itoa(rec.LineCount),
			strconv.Itoa(rec.Functions),
			strconv.Itoa(rec.Classes),
			strconv.Itoa(rec.Todos),
		}
		if res.Statistics.TokensCounted {
			row = append(row, strconv.Itoa(rec.Tokens))
		}
		row = append(row, strconv.FormatBool(rec.Embed), rec.SkipReason)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeImportsCSV writes one row per import statement, grouped by file in
// walk order.
func EncodeImportsCSV(w io.Writer, res *types.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "import"}); err != nil {
		return err
	}
	for i := range res.Files {
		rec := &res.Files[i]
		for _, imp := range rec.Imports {
			if err := cw.Write([]string{rec.RelativePath, imp}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeFunctionsCSV writes one row per function definition line.
// Parameters are joined with ", ".
func EncodeFunctionsCSV(w io.Writer, res *types.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "line", "name", "parameters", "definition"}); err != nil {
		return err
	}
	for i := range res.Files {
		rec := &res.Files[i]
		for _, d := range rec.Definitions {
			row := []string{rec.RelativePath, strconv.Itoa(d.Line), d.Name, strings.Join(d.Parameters, ", "), d.Definition}
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeTreeCSV writes the flattened folder structure, root row first.
func EncodeTreeCSV(w io.Writer, res *types.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"path", "depth", "is_directory"}); err != nil {
		return err
	}
	if res.Tree != nil {
		for _, r := range tree.Flatten(res.Tree) {
			if err := cw.Write([]string{r.Path, strconv.Itoa(r.Depth), strconv.FormatBool(r.IsDirectory)}); err != nil {
				return err
			}
		}
	}
	cw.Flush()
	return cw.Error()
}

// EncodeStatsCSV writes the statistics as key, label, value rows.
func EncodeStatsCSV(w io.Writer, res *types.RunResult) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"key", "label", "value"}); err != nil {
		return err
	}
	for _, f := range res.Statistics.Fields() {
		if err := cw.Write([]string{f.Key, f.Label, f.Value}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
