package output

import (
	"encoding/json"
	"io"

	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

type jsonFile struct {
	Category   types.Category `json:"category"`
	Extension  string         `json:"extension"`
	SizeBytes  int64          `json:"sizeBytes"`
	LineCount  int            `json:"lineCount"`
	Functions  int            `json:"functions"`
	Classes    int            `json:"classes"`
	Todos      int            `json:"todos"`
	Tokens     *int           `json:"tokens,omitempty"`
	Content    *string        `json:"content,omitempty"`
	SkipReason string         `json:"skipReason,omitempty"`

	Imports     []string            `json:"imports,omitempty"`
	Definitions []types.FunctionDef `json:"definitions,omitempty"`
}

type jsonReport struct {
	Project         string              `json:"project"`
	FolderStructure *types.FolderNode   `json:"folderStructure"`
	Files           map[string]jsonFile `json:"files"`
	Statistics      types.Statistics    `json:"statistics"`
}

// EncodeJSON writes the folder structure, a map from relative path to file
// details and the statistics. Content is present only for embedded files;
// imports and function definitions only for files of a known dialect.
func EncodeJSON(w io.Writer, res *types.RunResult) error {
	report := jsonReport{
		Project:         res.ProjectName,
		FolderStructure: res.Tree,
		Files:           make(map[string]jsonFile, len(res.Files)),
		Statistics:      res.Statistics,
	}
	for i := range res.Files {
		rec := &res.Files[i]
		f := jsonFile{
			Category:   rec.Category,
			Extension:  rec.Extension,
			SizeBytes:  rec.SizeBytes,
			LineCount:  rec.LineCount,
			Functions:  rec.Functions,
			Classes:    rec.Classes,
			Todos:      rec.Todos,
			SkipReason: rec.SkipReason,

			Imports:     rec.Imports,
			Definitions: rec.Definitions,
		}
		if res.Statistics.TokensCounted {
			tokens := rec.Tokens
			f.Tokens = &tokens
		}
		if rec.Embed {
			f.Content = rec.TextContent
		}
		report.Files[rec.RelativePath] = f
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}
