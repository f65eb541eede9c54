package spreadsheet

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestNormalizeHeader(t *testing.T) {
	cases := map[string]string{
		"Award Number":    "award_number",
		" award_number ":  "award_number",
		"Year-Level":      "year_level",
		"Award No.":       "award_no",
		"\ufeffLast Name": "last_name",
		"HEI":             "hei",
	}
	for in, want := range cases {
		assert.Equal(t, want, NormalizeHeader(in), in)
	}
}

func TestFormatFromFilename(t *testing.T) {
	f, err := FormatFromFilename("Masterlist.XLSX")
	require.NoError(t, err)
	assert.Equal(t, FormatXLSX, f)

	f, err = FormatFromFilename("rows.csv")
	require.NoError(t, err)
	assert.Equal(t, FormatCSV, f)

	_, err = FormatFromFilename("rows.xls")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestReadCSV(t *testing.T) {
	data := "Award Number,Last Name,First Name\nTDP-1,Dela Cruz,Juan\n,,\nTDP-2,Santos\n"
	table, err := Read(strings.NewReader(data), FormatCSV)
	require.NoError(t, err)

	assert.Equal(t, []string{"award_number", "last_name", "first_name"}, table.Headers)
	require.Len(t, table.Rows, 3)
	assert.Equal(t, 2, table.Rows[0].Number)
	assert.Equal(t, "Dela Cruz", table.Rows[0].Get("last_name"))
	assert.True(t, table.Rows[1].Blank())
	assert.Equal(t, "", table.Rows[2].Get("first_name"))
	assert.Equal(t, []string{"sex"}, table.MissingHeaders("award_number", "sex"))
}

func TestRowHasDistinguishesAbsentColumns(t *testing.T) {
	table, err := Read(strings.NewReader("Award Number,Email\nTDP-1,\nTDP-2\n"), FormatCSV)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)

	for _, row := range table.Rows {
		assert.True(t, row.Has("email"), "short rows still carry every header")
		assert.Equal(t, "", row.Get("email"))
		assert.False(t, row.Has("birthdate"))
		assert.Equal(t, table.HasHeader("birthdate"), row.Has("birthdate"))
	}
}

func TestXLSXRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	err := WriteXLSX(&buf,
		Sheet{
			Name:    "Masterlist",
			Headers: []string{"Award Number", "Last Name", "Grant Amount"},
			Rows: [][]interface{}{
				{"CMSP-0001", "Reyes", 60000},
				{"CMSP-0002", "Garcia", 30000.5},
			},
		},
		Sheet{Name: "By Sex", Headers: []string{"Sex", "Count"}, Rows: [][]interface{}{{"F", 2}}},
	)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, []string{"Masterlist", "By Sex"}, f.GetSheetList())
	require.NoError(t, f.Close())

	table, err := Read(bytes.NewReader(buf.Bytes()), FormatXLSX)
	require.NoError(t, err)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, "CMSP-0002", table.Rows[1].Get("award_number"))
	assert.Equal(t, "30000.5", table.Rows[1].Get("grant_amount"))
}

func TestWriteTemplateHasOnlyHeaders(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteTemplate(&buf, "Import", []string{"award_number", "last_name"}))

	table, err := Read(&buf, FormatXLSX)
	require.NoError(t, err)
	assert.Equal(t, []string{"award_number", "last_name"}, table.Headers)
	assert.Empty(t, table.Rows)
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []string{"a", "b"}, [][]string{{"1", "x,y"}}))
	assert.Equal(t, "a,b\n1,\"x,y\"\n", buf.String())
}
