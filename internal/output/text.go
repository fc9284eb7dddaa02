package output

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sarakael78/DoctorCodebase/internal/tree"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

// SummaryHeader opens the statistics section of the text report. Each line
// after it is "<label>: <value>".
const SummaryHeader = "===== Summary ====="

func section(b *bufio.Writer, title string) {
	fmt.Fprintf(b, "===== %s =====\n\n", title)
}

// EncodeText writes the folder structure, the embedded file contents in walk
// order and the statistics summary as one plain-text document.
func EncodeText(w io.Writer, res *types.RunResult) error {
	b := bufio.NewWriter(w)

	fmt.Fprintf(b, "Project: %s\n\n", res.ProjectName)

	section(b, "Folder Structure")
	if res.Tree != nil {
		b.WriteString(tree.Render(res.Tree))
	}
	b.WriteString("\n")

	section(b, "File Contents")
	for _, rec := range res.Embedded() {
		fmt.Fprintf(b, "File: %s\n", rec.RelativePath)
		if res.Statistics.TokensCounted {
			fmt.Fprintf(b, "Tokens: %d\n", rec.Tokens)
		}
		b.WriteString(strings.Repeat("=", 50))
		b.WriteString("\n")
		content := rec.Content()
		b.WriteString(content)
		if content != "" && !strings.HasSuffix(content, "\n") {
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	var other, skipped []*types.FileRecord
	for i := range res.Files {
		switch rec := &res.Files[i]; {
		case rec.Category == types.CategorySkipped:
			skipped = append(skipped, rec)
		case !rec.Embed:
			other = append(other, rec)
		}
	}
	if len(other) > 0 {
		section(b, "Other Files")
		for _, rec := range other {
			fmt.Fprintf(b, "%s (%s)\n", rec.RelativePath, humanize.Bytes(uint64(rec.SizeBytes)))
		}
		b.WriteString("\n")
	}
	if len(skipped) > 0 {
		section(b, "Skipped Files")
		for _, rec := range skipped {
			fmt.Fprintf(b, "%s (%s, %s)\n", rec.RelativePath, rec.SkipReason, humanize.Bytes(uint64(rec.SizeBytes)))
		}
		b.WriteString("\n")
	}

	b.WriteString(SummaryHeader)
	b.WriteString("\n\n")
	for _, f := range res.Statistics.Fields() {
		fmt.Fprintf(b, "%s: %s\n", f.Label, f.Value)
	}
	return b.Flush()
}
