package output

import (
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/alecthomas/chroma/v2"
	"github.com/alecthomas/chroma/v2/lexers"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/jung-kurt/gofpdf"

	"github.com/Sarakael78/DoctorCodebase/internal/tree"
	"github.com/Sarakael78/DoctorCodebase/internal/types"
)

const (
	pdfPageWidth  = 210 // A4, mm
	pdfMargin     = 10
	pdfLineHeight = 5
	pdfFontSize   = 9
	pdfTabWidth   = 4
	pdfTextWidth  = pdfPageWidth - 2*pdfMargin
)

// The core PDF fonts are single-byte; branch glyphs have no cp1252 mapping.
var asciiBranches = strings.NewReplacer("├── ", "|-- ", "└── ", "`-- ", "│   ", "|   ")

// EncodePDF writes a syntax-highlighted PDF with the folder structure, each
// embedded file on its own page and the statistics summary.
func EncodePDF(w io.Writer, res *types.RunResult) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.SetTitle(res.ProjectName, true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	style := styles.Get("github")
	if style == nil {
		style = styles.Fallback
	}

	pdf.AddPage()
	heading(pdf, tr, "Project: "+res.ProjectName)
	if res.Tree != nil {
		pdf.SetFont("Courier", "", pdfFontSize)
		pdf.SetTextColor(0, 0, 0)
		pdf.MultiCell(pdfTextWidth, pdfLineHeight, tr(asciiBranches.Replace(tree.Render(res.Tree))), "", "L", false)
	}

	for _, rec := range res.Embedded() {
		pdf.AddPage()
		heading(pdf, tr, "File: "+rec.RelativePath)
		if res.Statistics.TokensCounted {
			pdf.SetFont("Helvetica", "", pdfFontSize-1)
			pdf.MultiCell(pdfTextWidth, pdfLineHeight, fmt.Sprintf("Tokens: %d", rec.Tokens), "", "L", false)
		}
		pdf.Line(pdfMargin, pdf.GetY(), pdfPageWidth-pdfMargin, pdf.GetY())
		pdf.Ln(pdfLineHeight / 2)

		if err := writeHighlighted(pdf, tr, style, rec.Content(), rec.RelativePath); err != nil {
			pdf.SetFont("Courier", "", pdfFontSize)
			pdf.SetTextColor(0, 0, 0)
			pdf.MultiCell(pdfTextWidth, pdfLineHeight, tr(rec.Content()), "", "L", false)
		}
	}

	pdf.AddPage()
	heading(pdf, tr, "Summary")
	pdf.SetFont("Helvetica", "", pdfFontSize)
	pdf.SetTextColor(0, 0, 0)
	var summary strings.Builder
	for _, f := range res.Statistics.Fields() {
		fmt.Fprintf(&summary, "%s: %s\n", f.Label, f.Value)
	}
	pdf.MultiCell(pdfTextWidth, pdfLineHeight, tr(summary.String()), "", "L", false)

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}

func heading(pdf *gofpdf.Fpdf, tr func(string) string, text string) {
	pdf.SetFont("Helvetica", "B", pdfFontSize+1)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfTextWidth, pdfLineHeight, tr(text), "", "L", false)
	pdf.Ln(pdfLineHeight / 2)
}

// writeHighlighted picks a lexer by file name, then by content, and writes
// the code token by token in the style's colours.
func writeHighlighted(pdf *gofpdf.Fpdf, tr func(string) string, style *chroma.Style, code, name string) error {
	lexer := lexers.Match(path.Base(name))
	if lexer == nil {
		lexer = lexers.Analyse(code)
	}
	if lexer == nil {
		lexer = lexers.Fallback
	}
	lexer = chroma.Coalesce(lexer)

	it, err := lexer.Tokenise(nil, code)
	if err != nil {
		return fmt.Errorf("tokenise %s: %w", name, err)
	}

	pdf.SetFont("Courier", "", pdfFontSize)
	text := style.Get(chroma.Text).Colour
	for token := it(); token != chroma.EOF; token = it() {
		entry := style.Get(token.Type)
		fontStyle := ""
		if entry.Bold == chroma.Yes {
			fontStyle += "B"
		}
		if entry.Italic == chroma.Yes {
			fontStyle += "I"
		}
		pdf.SetFontStyle(fontStyle)

		switch {
		case entry.Colour.IsSet():
			pdf.SetTextColor(int(entry.Colour.Red()), int(entry.Colour.Green()), int(entry.Colour.Blue()))
		case text.IsSet():
			pdf.SetTextColor(int(text.Red()), int(text.Green()), int(text.Blue()))
		default:
			pdf.SetTextColor(0, 0, 0)
		}
		pdf.Write(pdfLineHeight, tr(strings.ReplaceAll(token.Value, "\t", strings.Repeat(" ", pdfTabWidth))))
	}
	pdf.Ln(-1)
	return nil
}
