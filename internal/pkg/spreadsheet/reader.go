// Package spreadsheet reads and writes the tabular files exchanged with the
// office: xlsx workbooks and plain csv.
package spreadsheet

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat is returned for files that are neither xlsx nor csv.
var ErrUnsupportedFormat = errors.New("unsupported file format, expected .xlsx or .csv")

// Format identifies a spreadsheet encoding.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// FormatFromFilename picks the format from the file extension.
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".xlsx":
		return FormatXLSX, nil
	case ".csv":
		return FormatCSV, nil
	}
	return "", ErrUnsupportedFormat
}

// Row is one data line. Number is the 1-based line in the source file,
// counting the header as line 1.
type Row struct {
	Number int
	Values map[string]string
}

// Get returns the trimmed value of a normalized column.
func (r Row) Get(column string) string {
	return strings.TrimSpace(r.Values[column])
}

// Has reports whether the sheet carries the normalized column at all,
// as opposed to carrying it with an empty cell.
func (r Row) Has(column string) bool {
	_, ok := r.Values[column]
	return ok
}

// Blank reports whether every cell of the row is empty.
func (r Row) Blank() bool {
	for _, v := range r.Values {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// Table is a parsed sheet with normalized headers.
type Table struct {
	Headers []string
	Rows    []Row
}

// HasHeader reports whether the normalized column is present.
func (t *Table) HasHeader(column string) bool {
	for _, h := range t.Headers {
		if h == column {
			return true
		}
	}
	return false
}

// MissingHeaders lists the required columns absent from the table.
func (t *Table) MissingHeaders(required ...string) []string {
	var missing []string
	for _, col := range required {
		if !t.HasHeader(col) {
			missing = append(missing, col)
		}
	}
	return missing
}

// NormalizeHeader lowercases a header and folds spaces, dashes and dots into
// underscores, so "Award No." and "award_no" compare equal.
func NormalizeHeader(h string) string {
	h = strings.ToLower(strings.TrimSpace(h))
	h = strings.TrimPrefix(h, "\ufeff")
	var b strings.Builder
	lastUnderscore := false
	for _, r := range h {
		switch {
		case r == ' ' || r == '-' || r == '.' || r == '_' || r == '/':
			if !lastUnderscore && b.Len() > 0 {
				b.WriteByte('_')
				lastUnderscore = true
			}
		default:
			b.WriteRune(r)
			lastUnderscore = false
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}

// Read parses the first sheet of an xlsx workbook or a csv file.
func Read(r io.Reader, format Format) (*Table, error) {
	var records [][]string
	var err error
	switch format {
	case FormatXLSX:
		records, err = readXLSX(r)
	case FormatCSV:
		records, err = readCSV(r)
	default:
		return nil, ErrUnsupportedFormat
	}
	if err != nil {
		return nil, err
	}
	return newTable(records)
}

func readXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	records, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse csv: %w", err)
	}
	return records, nil
}

func newTable(records [][]string) (*Table, error) {
	if len(records) == 0 {
		return nil, fmt.Errorf("file is empty")
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = NormalizeHeader(h)
	}

	t := &Table{Headers: headers}
	for i, rec := range records[1:] {
		values := make(map[string]string, len(headers))
		for j, h := range headers {
			if h == "" {
				continue
			}
			if j < len(rec) {
				values[h] = rec[j]
			} else {
				values[h] = ""
			}
		}
		t.Rows = append(t.Rows, Row{Number: i + 2, Values: values})
	}
	return t, nil
}
