// Package output serializes a run result into report artifacts.
package output

import (
	"fmt"
	"strings"
)

// Format names one kind of report artifact.
type Format string

const (
	FormatText Format = "text"
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatPDF  Format = "pdf"
)

// AllFormats lists every supported format in generation order.
var AllFormats = []Format{FormatText, FormatJSON, FormatCSV, FormatPDF}

// Ext is the file extension used for the format.
func (f Format) Ext() string {
	if f == FormatText {
		return "txt"
	}
	return string(f)
}

// ParseFormats turns user input into a de-duplicated format list. Entries may
// be comma separated; "all" selects every format and "txt" is an alias of
// "text". An empty input selects text.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool)
	var out []Format
	add := func(f Format) {
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}

	for _, name := range names {
		for _, part := range strings.Split(name, ",") {
			part = strings.ToLower(strings.TrimSpace(part))
			switch part {
			case "":
			case "all":
				for _, f := range AllFormats {
					add(f)
				}
			case "txt", string(FormatText):
				add(FormatText)
			case string(FormatJSON), string(FormatCSV), string(FormatPDF):
				add(Format(part))
			default:
				return nil, fmt.Errorf("unknown output format %q (valid: text, json, csv, pdf, all)", part)
			}
		}
	}
	if len(out) == 0 {
		out = append(out, FormatText)
	}
	return out, nil
}
