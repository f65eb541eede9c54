package pdf

import (
	"bytes"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteMasterlistSpansPages(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{fmt.Sprintf("TDP-%04d", i), "DELA CRUZ, Juan Niño", "Universidad de Manila with a very long institution name", "60,000.00"})
	}

	var buf bytes.Buffer
	err := WriteMasterlist(&buf, Masterlist{
		Title:       "TDP Masterlist",
		Subtitle:    "Academic Year 2024-2025",
		Columns:     []Column{{Header: "Award No.", Width: 1}, {Header: "Name", Width: 2}, {Header: "HEI", Width: 2}, {Header: "Amount", Width: 1, Align: "R"}},
		Rows:        rows,
		GeneratedAt: time.Date(2024, 8, 1, 9, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}

func TestWriteMasterlistEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteMasterlist(&buf, Masterlist{Title: "Empty", Columns: []Column{{Header: "A"}}}))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestWriteAwardNotice(t *testing.T) {
	var buf bytes.Buffer
	err := WriteAwardNotice(&buf, AwardNotice{
		ProgramName:  "CHED Merit Scholarship Program",
		ScholarName:  "REYES, Maria Santos",
		AwardNumber:  "CMSP-2024-0001",
		HEIName:      "University of the Philippines",
		Course:       "BS Civil Engineering",
		AcademicYear: "2024-2025",
		GrantAmount:  60000,
		DateIssued:   time.Date(2024, 9, 2, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestFormatPeso(t *testing.T) {
	assert.Equal(t, "PHP 0.00", FormatPeso(0))
	assert.Equal(t, "PHP 999.50", FormatPeso(999.5))
	assert.Equal(t, "PHP 1,000.00", FormatPeso(1000))
	assert.Equal(t, "PHP 1,234,567.89", FormatPeso(1234567.891))
	assert.Equal(t, "PHP -12,000.00", FormatPeso(-12000))
}
