package pdf

import (
	"fmt"
	"io"
	"time"

	"github.com/go-pdf/fpdf"
)

// AwardNotice holds the fields printed on a Notice of Award.
type AwardNotice struct {
	ProgramName  string
	ProgramCode  string
	ScholarName  string
	AwardNumber  string
	Address      string
	HEIName      string
	Course       string
	AcademicYear string
	GrantAmount  float64
	DateIssued   time.Time
	Signatory    string
	SignatoryPos string
}

// WriteAwardNotice renders a single-page portrait Notice of Award.
func WriteAwardNotice(w io.Writer, n AwardNotice) error {
	doc := fpdf.New("P", "mm", "A4", "")
	doc.SetMargins(25, 20, 25)
	doc.AddPage()
	tr := doc.UnicodeTranslatorFromDescriptor("")

	doc.SetFont(fontFamily, "", 10)
	doc.CellFormat(0, 5, "Republic of the Philippines", "", 1, "C", false, 0, "")
	doc.SetFont(fontFamily, "B", 12)
	doc.CellFormat(0, 6, agencyName, "", 1, "C", false, 0, "")
	doc.Ln(10)

	doc.SetFont(fontFamily, "B", 16)
	doc.CellFormat(0, 8, "NOTICE OF AWARD", "", 1, "C", false, 0, "")
	doc.SetFont(fontFamily, "", 10)
	doc.CellFormat(0, 6, tr(n.ProgramName), "", 1, "C", false, 0, "")
	doc.Ln(8)

	issued := n.DateIssued
	if issued.IsZero() {
		issued = time.Now()
	}
	doc.CellFormat(0, 6, issued.Format("January 2, 2006"), "", 1, "L", false, 0, "")
	doc.Ln(4)

	doc.SetFont(fontFamily, "B", 11)
	doc.CellFormat(0, 6, tr(n.ScholarName), "", 1, "L", false, 0, "")
	if n.Address != "" {
		doc.SetFont(fontFamily, "", 10)
		doc.CellFormat(0, 5, tr(n.Address), "", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont(fontFamily, "", 11)
	doc.MultiCell(0, 6, tr(fmt.Sprintf(
		"We are pleased to inform you that you have been granted an award under the %s. "+
			"The details of your award are as follows:", n.ProgramName)), "", "J", false)
	doc.Ln(4)

	details := [][2]string{
		{"Award Number", n.AwardNumber},
		{"Higher Education Institution", n.HEIName},
		{"Course / Program", n.Course},
		{"Academic Year", n.AcademicYear},
		{"Grant Amount", FormatPeso(n.GrantAmount)},
	}
	for _, d := range details {
		if d[1] == "" {
			continue
		}
		doc.SetFont(fontFamily, "", 11)
		doc.CellFormat(65, 7, d[0], "", 0, "L", false, 0, "")
		doc.SetFont(fontFamily, "B", 11)
		doc.CellFormat(0, 7, tr(d[1]), "", 1, "L", false, 0, "")
	}
	doc.Ln(6)

	doc.SetFont(fontFamily, "", 11)
	doc.MultiCell(0, 6, "This award is subject to the guidelines of the program, including the maintenance of "+
		"the required academic standing and the timely submission of documentary requirements. "+
		"Please sign the conforme below and return this notice to the regional office.", "", "J", false)
	doc.Ln(16)

	signatory := n.Signatory
	if signatory == "" {
		signatory = "Regional Director"
	}
	doc.SetFont(fontFamily, "B", 11)
	doc.CellFormat(0, 6, tr(signatory), "", 1, "R", false, 0, "")
	if n.SignatoryPos != "" {
		doc.SetFont(fontFamily, "", 10)
		doc.CellFormat(0, 5, tr(n.SignatoryPos), "", 1, "R", false, 0, "")
	}
	doc.Ln(16)

	doc.SetFont(fontFamily, "", 10)
	doc.CellFormat(0, 5, "CONFORME:", "", 1, "L", false, 0, "")
	doc.Ln(10)
	doc.CellFormat(80, 5, tr(n.ScholarName), "T", 1, "C", false, 0, "")
	doc.CellFormat(80, 5, "Signature over printed name / Date", "", 1, "C", false, 0, "")

	return output(doc, w)
}

// FormatPeso formats an amount as "PHP 12,345.00". The peso sign is outside
// the core font encoding.
func FormatPeso(amount float64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%.2f", amount)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var out []byte
	for i, c := range []byte(intPart) {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, c)
	}
	if neg {
		return "PHP -" + string(out) + frac
	}
	return "PHP " + string(out) + frac
}
