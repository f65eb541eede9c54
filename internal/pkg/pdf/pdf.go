// Package pdf renders the printable documents of the office: scholar
// masterlists and the Notice of Award.
package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	fontFamily = "Helvetica"
	agencyName = "Commission on Higher Education"
)

// Column describes one masterlist column. Width is relative; columns are
// scaled to fill the printable width.
type Column struct {
	Header string
	Width  float64
	Align  string
}

// Masterlist is a titled table rendered on landscape pages.
type Masterlist struct {
	Title       string
	Subtitle    string
	Columns     []Column
	Rows        [][]string
	GeneratedAt time.Time
}

// WriteMasterlist renders m as a landscape A4 document with the header row
// repeated on each page.
func WriteMasterlist(w io.Writer, m Masterlist) error {
	doc := fpdf.New("L", "mm", "A4", "")
	doc.SetMargins(10, 12, 10)
	doc.SetAutoPageBreak(true, 14)
	doc.AliasNbPages("")
	tr := doc.UnicodeTranslatorFromDescriptor("")

	pageW, _ := doc.GetPageSize()
	left, _, right, _ := doc.GetMargins()
	widths := scaleWidths(m.Columns, pageW-left-right)

	header := func() {
		doc.SetFont(fontFamily, "B", 8)
		doc.SetFillColor(217, 225, 242)
		for i, c := range m.Columns {
			doc.CellFormat(widths[i], 7, tr(c.Header), "1", 0, "C", true, 0, "")
		}
		doc.Ln(-1)
	}

	doc.SetHeaderFunc(func() {
		doc.SetFont(fontFamily, "B", 12)
		doc.CellFormat(0, 6, tr(m.Title), "", 1, "C", false, 0, "")
		if m.Subtitle != "" {
			doc.SetFont(fontFamily, "", 9)
			doc.CellFormat(0, 5, tr(m.Subtitle), "", 1, "C", false, 0, "")
		}
		doc.Ln(2)
		header()
	})
	doc.SetFooterFunc(func() {
		doc.SetY(-10)
		doc.SetFont(fontFamily, "I", 7)
		generated := m.GeneratedAt
		if generated.IsZero() {
			generated = time.Now()
		}
		doc.CellFormat(0, 5, fmt.Sprintf("Generated %s", generated.Format("January 2, 2006 3:04 PM")), "", 0, "L", false, 0, "")
		doc.CellFormat(0, 5, fmt.Sprintf("Page %d of {nb}", doc.PageNo()), "", 0, "R", false, 0, "")
	})

	doc.AddPage()
	doc.SetFont(fontFamily, "", 8)
	for n, row := range m.Rows {
		fill := n%2 == 1
		doc.SetFillColor(245, 245, 245)
		for i := range m.Columns {
			var v string
			if i < len(row) {
				v = row[i]
			}
			align := m.Columns[i].Align
			if align == "" {
				align = "L"
			}
			doc.CellFormat(widths[i], 6, tr(truncate(doc, v, widths[i])), "1", 0, align, fill, 0, "")
		}
		doc.Ln(-1)
	}
	if len(m.Rows) == 0 {
		doc.CellFormat(0, 8, "No records found.", "1", 1, "C", false, 0, "")
	}

	return output(doc, w)
}

func scaleWidths(cols []Column, total float64) []float64 {
	var sum float64
	for _, c := range cols {
		w := c.Width
		if w <= 0 {
			w = 1
		}
		sum += w
	}
	out := make([]float64, len(cols))
	for i, c := range cols {
		w := c.Width
		if w <= 0 {
			w = 1
		}
		out[i] = total * w / sum
	}
	return out
}

// truncate shortens s with an ellipsis so it fits a cell of width w.
func truncate(doc *fpdf.Fpdf, s string, w float64) string {
	limit := w - 2
	if doc.GetStringWidth(s) <= limit {
		return s
	}
	r := []rune(s)
	for len(r) > 0 && doc.GetStringWidth(string(r)+"...") > limit {
		r = r[:len(r)-1]
	}
	return string(r) + "..."
}

func output(doc *fpdf.Fpdf, w io.Writer) error {
	if err := doc.Error(); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	if err := doc.Output(w); err != nil {
		return fmt.Errorf("failed to write pdf: %w", err)
	}
	return nil
}
