package services

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/pdf"
	"github.com/yigit/scholaris/internal/pkg/spreadsheet"
)

// ExportFormat selects the masterlist encoding
type ExportFormat string

const (
	ExportXLSX ExportFormat = "xlsx"
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
)

// ContentType returns the MIME type of the format
func (f ExportFormat) ContentType() string {
	switch f {
	case ExportCSV:
		return "text/csv"
	case ExportPDF:
		return "application/pdf"
	}
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

// ParseExportFormat defaults to xlsx
func ParseExportFormat(v string) (ExportFormat, error) {
	switch ExportFormat(v) {
	case "", ExportXLSX:
		return ExportXLSX, nil
	case ExportCSV, ExportPDF:
		return ExportFormat(v), nil
	}
	return "", fmt.Errorf("%w: format must be xlsx, csv or pdf", apperrors.ErrValidationFailed)
}

var masterlistColumns = []pdf.Column{
	{Header: "Award No.", Width: 1.3},
	{Header: "Full Name", Width: 2.4},
	{Header: "Sex", Width: 0.4, Align: "C"},
	{Header: "HEI", Width: 2.4},
	{Header: "Course", Width: 2},
	{Header: "Year", Width: 0.5, Align: "C"},
	{Header: "Academic Year", Width: 1, Align: "C"},
	{Header: "Sem", Width: 0.5, Align: "C"},
	{Header: "Province", Width: 1.2},
	{Header: "Status", Width: 0.9},
	{Header: "Grant Amount", Width: 1.1, Align: "R"},
}

// ExportService renders masterlists, statistics and the import template
type ExportService struct {
	scholarRepo   ScholarRepository
	reportService *ReportService
	now           func() time.Time
}

// NewExportService creates a new export service instance
func NewExportService(scholarRepo ScholarRepository, reportService *ReportService) *ExportService {
	return &ExportService{scholarRepo: scholarRepo, reportService: reportService, now: time.Now}
}

// MasterlistFilename names the download, e.g. "TDP-masterlist-20240801.xlsx"
func (s *ExportService) MasterlistFilename(program *models.Program, format ExportFormat) string {
	return fmt.Sprintf("%s-masterlist-%s.%s", program.Code, s.now().Format("20060102"), format)
}

// WriteMasterlist writes every scholar matching filter to w
func (s *ExportService) WriteMasterlist(ctx context.Context, w io.Writer, program *models.Program, filter models.ScholarFilter, format ExportFormat) error {
	if err := ValidateScholarFilter(filter); err != nil {
		return err
	}
	filter.ProgramID = program.ID
	scholars, err := s.scholarRepo.ListAll(ctx, filter)
	if err != nil {
		return fmt.Errorf("error retrieving masterlist: %w", err)
	}

	headers := make([]string, len(masterlistColumns))
	for i, c := range masterlistColumns {
		headers[i] = c.Header
	}

	switch format {
	case ExportCSV:
		rows := make([][]string, len(scholars))
		for i := range scholars {
			rows[i] = masterlistRow(&scholars[i])
		}
		return spreadsheet.WriteCSV(w, headers, rows)

	case ExportPDF:
		rows := make([][]string, len(scholars))
		for i := range scholars {
			rows[i] = masterlistRow(&scholars[i])
			rows[i][len(rows[i])-1] = formatAmount(latestGrant(&scholars[i]))
		}
		subtitle := "All academic years"
		if filter.AcademicYear != "" {
			subtitle = "Academic Year " + filter.AcademicYear
		}
		return pdf.WriteMasterlist(w, pdf.Masterlist{
			Title:       program.Name + " Masterlist",
			Subtitle:    subtitle,
			Columns:     masterlistColumns,
			Rows:        rows,
			GeneratedAt: s.now(),
		})

	default:
		rows := make([][]interface{}, len(scholars))
		for i := range scholars {
			cells := masterlistRow(&scholars[i])
			row := make([]interface{}, len(cells))
			for j, c := range cells {
				row[j] = c
			}
			row[len(row)-1] = latestGrant(&scholars[i])
			rows[i] = row
		}
		return spreadsheet.WriteXLSX(w, spreadsheet.Sheet{Name: "Masterlist", Headers: headers, Rows: rows})
	}
}

func masterlistRow(s *models.Scholar) []string {
	row := []string{s.AwardNumber, s.FullName(), string(s.Sex), "", "", "", "", "", s.ProvinceName, string(s.Status), ""}
	if r := s.LatestRecord; r != nil {
		row[3] = r.HEIName
		row[4] = r.Course
		row[5] = strconv.Itoa(r.YearLevel)
		row[6] = r.AcademicYear
		row[7] = strconv.Itoa(r.Semester)
		row[10] = strconv.FormatFloat(r.GrantAmount, 'f', 2, 64)
	}
	return row
}

func latestGrant(s *models.Scholar) float64 {
	if s.LatestRecord == nil {
		return 0
	}
	return s.LatestRecord.GrantAmount
}

// formatAmount renders 12345.5 as "12,345.50"
func formatAmount(v float64) string {
	return pdf.FormatPeso(v)[len("PHP "):]
}

// WriteStatistics writes the dashboard aggregates as one sheet each
func (s *ExportService) WriteStatistics(ctx context.Context, w io.Writer, f repositories.ReportFilter) error {
	d, err := s.reportService.Dashboard(ctx, f)
	if err != nil {
		return err
	}

	countSheet := func(name, keyHeader string, buckets []dto.CountBucket) spreadsheet.Sheet {
		rows := make([][]interface{}, len(buckets))
		for i, b := range buckets {
			rows[i] = []interface{}{b.Label, b.Count}
		}
		return spreadsheet.Sheet{Name: name, Headers: []string{keyHeader, "Scholars"}, Rows: rows}
	}

	disbursed := make([][]interface{}, len(d.DisbursedByProgram))
	for i, b := range d.DisbursedByProgram {
		disbursed[i] = []interface{}{b.Label, b.Count, b.Amount}
	}

	return spreadsheet.WriteXLSX(w,
		countSheet("By Program", "Program", d.ByProgram),
		countSheet("By Status", "Status", d.ByStatus),
		countSheet("By Sex", "Sex", d.BySex),
		countSheet("By Province", "Province", d.ByProvince),
		countSheet("Top HEIs", "HEI", d.TopHEIs),
		spreadsheet.Sheet{Name: "Disbursed", Headers: []string{"Program", "Disbursements", "Amount"}, Rows: disbursed},
	)
}

// WriteImportTemplate writes an empty workbook with the import headers
func (s *ExportService) WriteImportTemplate(w io.Writer) error {
	return spreadsheet.WriteTemplate(w, "Import", ImportColumns)
}
