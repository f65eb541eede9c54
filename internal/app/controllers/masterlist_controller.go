package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// MasterlistController moves scholar rows in bulk: the spreadsheet grid,
// file imports and masterlist exports
type MasterlistController struct {
	gridService   *services.GridService
	importService *services.ImportService
	exportService *services.ExportService
	maxFileSize   int64
	logger        zerolog.Logger
}

// NewMasterlistController creates a new MasterlistController. maxFileSize
// caps import uploads in bytes.
func NewMasterlistController(gridService *services.GridService, importService *services.ImportService,
	exportService *services.ExportService, maxFileSize int64, logger zerolog.Logger) *MasterlistController {
	return &MasterlistController{
		gridService:   gridService,
		importService: importService,
		exportService: exportService,
		maxFileSize:   maxFileSize,
		logger:        logger,
	}
}

// BulkUpdate saves the whole grid in one transaction
// @Summary Save the scholar grid
// @Description Validates every row first; any invalid row rejects the batch with per-row errors. Valid batches are written in one transaction.
// @Tags grid
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param request body dto.BulkUpdateRequest true "Grid rows"
// @Success 200 {object} dto.APIResponse{data=dto.BulkUpdateResult}
// @Failure 400 {object} dto.ErrorResponse "Malformed request"
// @Failure 404 {object} dto.ErrorResponse "A row references a scholar outside the program"
// @Failure 409 {object} dto.ErrorResponse "A row changes status along an invalid transition"
// @Failure 422 {object} dto.ErrorResponse "One or more rows are invalid"
// @Router /programs/{program}/scholars/bulk-update [post]
func (c *MasterlistController) BulkUpdate(ctx *gin.Context) {
	var req dto.BulkUpdateRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	result, err := c.gridService.BulkUpdate(ctx.Request.Context(), middleware.GetProgram(ctx).ID, req.Rows)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// Import loads scholars from an uploaded workbook
// @Summary Import scholars
// @Description Imports an .xlsx or .csv file. Each row is saved in its own transaction; failed rows are reported in the result.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param file formData file true "Spreadsheet (.xlsx or .csv)"
// @Success 200 {object} dto.APIResponse{data=dto.ImportResult}
// @Failure 400 {object} dto.ErrorResponse "File missing or too large"
// @Failure 422 {object} dto.ErrorResponse "Unreadable file, missing columns or too many rows"
// @Router /programs/{program}/scholars/import [post]
func (c *MasterlistController) Import(ctx *gin.Context) {
	file, err := ctx.FormFile("file")
	if err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "File is required").WithField("file")
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}
	if c.maxFileSize > 0 && file.Size > c.maxFileSize {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "File is too large").
			WithField("file").
			WithDetails(map[string]interface{}{"maxBytes": c.maxFileSize, "size": file.Size})
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return
	}

	f, err := file.Open()
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewCustomError(apperrors.ErrBadRequest, "Could not read the uploaded file"))
		return
	}
	defer f.Close()

	program := middleware.GetProgram(ctx)
	result, err := c.importService.Import(ctx.Request.Context(), program.ID, file.Filename, f)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	c.logger.Info().
		Str("program", string(program.Code)).
		Str("batchID", result.BatchID).
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("failed", result.Failed).
		Msg("Scholar import finished")
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(result))
}

// ImportTemplate downloads an empty workbook with the import headers
// @Summary Download the import template
// @Tags import
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param program path string true "Program code"
// @Success 200 {file} file "Template workbook"
// @Router /programs/{program}/scholars/import-template [get]
func (c *MasterlistController) ImportTemplate(ctx *gin.Context) {
	filename := string(middleware.GetProgram(ctx).Code) + "-import-template.xlsx"
	attachmentDisposition(ctx, filename, services.ExportXLSX.ContentType())
	if err := c.exportService.WriteImportTemplate(ctx.Writer); err != nil {
		downloadFailed(ctx, c.logger, err)
	}
}

// ExportMasterlist downloads the program's scholars
// @Summary Export the masterlist
// @Description Streams the filtered scholar list as xlsx, csv or pdf
// @Tags export
// @Produce application/octet-stream
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param format query string false "File format" Enums(xlsx, csv, pdf) default(xlsx)
// @Param search query string false "Name or award number contains"
// @Param status query string false "Scholar status"
// @Param heiId query int false "HEI ID"
// @Param provinceId query int false "Province ID"
// @Param academicYear query string false "Academic year"
// @Param sex query string false "Sex" Enums(M, F)
// @Success 200 {file} file "Masterlist"
// @Failure 422 {object} dto.ErrorResponse "Unknown format or invalid filter"
// @Router /programs/{program}/scholars/export [get]
func (c *MasterlistController) ExportMasterlist(ctx *gin.Context) {
	format, err := services.ParseExportFormat(ctx.Query("format"))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	filter := scholarFilter(ctx)
	if err := services.ValidateScholarFilter(filter); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	program := middleware.GetProgram(ctx)
	attachmentDisposition(ctx, c.exportService.MasterlistFilename(program, format), format.ContentType())
	if err := c.exportService.WriteMasterlist(ctx.Request.Context(), ctx.Writer, program, filter, format); err != nil {
		downloadFailed(ctx, c.logger, err)
	}
}
