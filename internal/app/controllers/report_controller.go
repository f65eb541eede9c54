package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// ReportController serves dashboards and statistics
type ReportController struct {
	reportService *services.ReportService
	exportService *services.ExportService
	logger        zerolog.Logger
}

// NewReportController creates a new ReportController
func NewReportController(reportService *services.ReportService, exportService *services.ExportService, logger zerolog.Logger) *ReportController {
	return &ReportController{
		reportService: reportService,
		exportService: exportService,
		logger:        logger,
	}
}

func reportFilter(ctx *gin.Context) repositories.ReportFilter {
	f := repositories.ReportFilter{
		AcademicYear: strings.TrimSpace(ctx.Query("academicYear")),
		ProgramID:    helpers.QueryInt64(ctx, "programId"),
	}
	// ADMIN accounts only ever see their own program
	if actor := middleware.GetActor(ctx); actor.ProgramID != nil {
		f.ProgramID = *actor.ProgramID
	}
	return f
}

// Dashboard returns the office-wide aggregates
// @Summary Dashboard
// @Description Scholar counts by program, status, sex, province and HEI, plus released disbursement totals
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param academicYear query string false "Academic year, e.g. 2024-2025"
// @Param programId query int false "Restrict to one program"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Failure 422 {object} dto.ErrorResponse "Invalid academic year"
// @Router /reports/dashboard [get]
func (c *ReportController) Dashboard(ctx *gin.Context) {
	resp, err := c.reportService.Dashboard(ctx.Request.Context(), reportFilter(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ProgramSummary returns the dashboard aggregates of one program
// @Summary Program summary
// @Tags reports
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param academicYear query string false "Academic year, e.g. 2024-2025"
// @Success 200 {object} dto.APIResponse{data=dto.DashboardResponse}
// @Failure 422 {object} dto.ErrorResponse "Invalid academic year"
// @Router /programs/{program}/reports/summary [get]
func (c *ReportController) ProgramSummary(ctx *gin.Context) {
	f := repositories.ReportFilter{
		ProgramID:    middleware.GetProgram(ctx).ID,
		AcademicYear: strings.TrimSpace(ctx.Query("academicYear")),
	}
	resp, err := c.reportService.Dashboard(ctx.Request.Context(), f)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// ExportStatistics downloads the dashboard as a workbook
// @Summary Export statistics
// @Description One sheet per aggregate
// @Tags reports
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param academicYear query string false "Academic year"
// @Param programId query int false "Restrict to one program"
// @Success 200 {file} file "Statistics workbook"
// @Failure 422 {object} dto.ErrorResponse "Invalid academic year"
// @Router /reports/statistics/export [get]
func (c *ReportController) ExportStatistics(ctx *gin.Context) {
	f := reportFilter(ctx)
	filename := "statistics.xlsx"
	if f.AcademicYear != "" {
		filename = "statistics-" + f.AcademicYear + ".xlsx"
	}
	attachmentDisposition(ctx, filename, services.ExportXLSX.ContentType())
	if err := c.exportService.WriteStatistics(ctx.Request.Context(), ctx.Writer, f); err != nil {
		downloadFailed(ctx, c.logger, err)
	}
}
