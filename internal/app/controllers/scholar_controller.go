package controllers

import (
	"bytes"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// ScholarController handles scholars and their per-term history. Every route
// is mounted under /programs/{program}.
type ScholarController struct {
	scholarService      *services.ScholarService
	recordService       *services.AcademicRecordService
	disbursementService *services.DisbursementService
	noaService          *services.NOAService
}

// NewScholarController creates a new ScholarController
func NewScholarController(scholarService *services.ScholarService, recordService *services.AcademicRecordService,
	disbursementService *services.DisbursementService, noaService *services.NOAService) *ScholarController {
	return &ScholarController{
		scholarService:      scholarService,
		recordService:       recordService,
		disbursementService: disbursementService,
		noaService:          noaService,
	}
}

// scholarFilter reads the list filters shared by the list and export endpoints
func scholarFilter(ctx *gin.Context) models.ScholarFilter {
	sortBy, sortOrder := helpers.ParseSortParams(ctx, "lastName")
	return models.ScholarFilter{
		ProgramID:    middleware.GetProgram(ctx).ID,
		Search:       strings.TrimSpace(ctx.Query("search")),
		Status:       models.ScholarStatus(strings.ToUpper(ctx.Query("status"))),
		HEIID:        helpers.QueryInt64(ctx, "heiId"),
		ProvinceID:   helpers.QueryInt64(ctx, "provinceId"),
		AcademicYear: strings.TrimSpace(ctx.Query("academicYear")),
		Sex:          models.Sex(strings.ToUpper(ctx.Query("sex"))),
		SortBy:       sortBy,
		SortOrder:    sortOrder,
	}
}

// ListScholars lists a program's scholars
// @Summary List scholars
// @Description Lists the scholars of a program with filters, sorting and 1-based pagination
// @Tags scholars
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code" Enums(TDP, CMSP, STUFAPS, MSRS)
// @Param search query string false "Name or award number contains"
// @Param status query string false "Scholar status"
// @Param heiId query int false "HEI of the latest academic record"
// @Param provinceId query int false "Province ID"
// @Param academicYear query string false "Academic year, e.g. 2024-2025"
// @Param sex query string false "Sex" Enums(M, F)
// @Param sortBy query string false "Sort field" default(lastName)
// @Param sortOrder query string false "Sort order" Enums(ASC, DESC)
// @Param page query int false "Page number (1-based)" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.ScholarListResponse}
// @Failure 403 {object} dto.ErrorResponse "Program not assigned to the user"
// @Failure 404 {object} dto.ErrorResponse "Program not found"
// @Failure 422 {object} dto.ErrorResponse "Invalid filter"
// @Router /programs/{program}/scholars [get]
func (c *ScholarController) ListScholars(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)
	scholars, pagination, err := c.scholarService.ListScholars(ctx.Request.Context(), scholarFilter(ctx), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewPaginatedResponse(dto.ScholarListResponse{Scholars: scholars}, pagination))
}

// GetScholar returns a scholar with the latest academic record
// @Summary Get a scholar
// @Tags scholars
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Success 200 {object} dto.APIResponse{data=models.Scholar}
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Router /programs/{program}/scholars/{id} [get]
func (c *ScholarController) GetScholar(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	scholar, err := c.scholarService.GetScholar(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scholar))
}

// CreateScholar registers an applicant
// @Summary Create a scholar
// @Tags scholars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param request body dto.ScholarRequest true "Scholar"
// @Success 201 {object} dto.APIResponse{data=models.Scholar}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Failure 409 {object} dto.ErrorResponse "Award number already used in the program"
// @Router /programs/{program}/scholars [post]
func (c *ScholarController) CreateScholar(ctx *gin.Context) {
	var req dto.ScholarRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	scholar, err := c.scholarService.CreateScholar(ctx.Request.Context(), middleware.GetProgram(ctx).ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(scholar))
}

// UpdateScholar replaces a scholar's details
// @Summary Update a scholar
// @Tags scholars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param request body dto.ScholarRequest true "Scholar"
// @Success 200 {object} dto.APIResponse{data=models.Scholar}
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Failure 409 {object} dto.ErrorResponse "Award number already used in the program"
// @Router /programs/{program}/scholars/{id} [put]
func (c *ScholarController) UpdateScholar(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ScholarRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	scholar, err := c.scholarService.UpdateScholar(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scholar))
}

// ChangeStatus moves a scholar along the grant life cycle
// @Summary Change scholar status
// @Tags scholars
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param request body dto.ChangeScholarStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Scholar}
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Failure 409 {object} dto.ErrorResponse "Transition not allowed from the current status"
// @Router /programs/{program}/scholars/{id}/status [patch]
func (c *ScholarController) ChangeStatus(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ChangeScholarStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	scholar, err := c.scholarService.ChangeStatus(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, req.Status, req.Remarks)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(scholar))
}

// DeleteScholar removes a scholar and everything recorded for them
// @Summary Delete a scholar
// @Description Deletes the scholar with its academic records, disbursements and attachments
// @Tags scholars
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Router /programs/{program}/scholars/{id} [delete]
func (c *ScholarController) DeleteScholar(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.scholarService.DeleteScholar(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListRecords lists a scholar's academic records
// @Summary List academic records
// @Tags academic-records
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Success 200 {object} dto.APIResponse{data=[]models.AcademicRecord}
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Router /programs/{program}/scholars/{id}/academic-records [get]
func (c *ScholarController) ListRecords(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	records, err := c.recordService.ListRecords(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(records))
}

// CreateRecord adds a term to a scholar's history
// @Summary Create an academic record
// @Tags academic-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param request body dto.AcademicRecordRequest true "Academic record"
// @Success 201 {object} dto.APIResponse{data=models.AcademicRecord}
// @Failure 404 {object} dto.ErrorResponse "Scholar or HEI not found"
// @Failure 409 {object} dto.ErrorResponse "Term already recorded"
// @Router /programs/{program}/scholars/{id}/academic-records [post]
func (c *ScholarController) CreateRecord(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.AcademicRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	record, err := c.recordService.CreateRecord(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(record))
}

// UpdateRecord replaces one term of a scholar's history
// @Summary Update an academic record
// @Tags academic-records
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param recordId path int true "Academic record ID"
// @Param request body dto.AcademicRecordRequest true "Academic record"
// @Success 200 {object} dto.APIResponse{data=models.AcademicRecord}
// @Failure 404 {object} dto.ErrorResponse "Academic record not found"
// @Failure 409 {object} dto.ErrorResponse "Term already recorded"
// @Router /programs/{program}/scholars/{id}/academic-records/{recordId} [put]
func (c *ScholarController) UpdateRecord(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	recordID, ok := parseIDParam(ctx, "recordId")
	if !ok {
		return
	}
	var req dto.AcademicRecordRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	record, err := c.recordService.UpdateRecord(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID, recordID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(record))
}

// DeleteRecord removes one term
// @Summary Delete an academic record
// @Tags academic-records
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param recordId path int true "Academic record ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Academic record not found"
// @Router /programs/{program}/scholars/{id}/academic-records/{recordId} [delete]
func (c *ScholarController) DeleteRecord(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	recordID, ok := parseIDParam(ctx, "recordId")
	if !ok {
		return
	}
	if err := c.recordService.DeleteRecord(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID, recordID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListDisbursements lists a scholar's payments
// @Summary List disbursements
// @Tags disbursements
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Disbursement}
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Router /programs/{program}/scholars/{id}/disbursements [get]
func (c *ScholarController) ListDisbursements(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	disbursements, err := c.disbursementService.ListDisbursements(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(disbursements))
}

// CreateDisbursement records a pending payment
// @Summary Create a disbursement
// @Tags disbursements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param request body dto.DisbursementRequest true "Disbursement"
// @Success 201 {object} dto.APIResponse{data=models.Disbursement}
// @Failure 404 {object} dto.ErrorResponse "Scholar or academic record not found"
// @Router /programs/{program}/scholars/{id}/disbursements [post]
func (c *ScholarController) CreateDisbursement(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.DisbursementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	disbursement, err := c.disbursementService.CreateDisbursement(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(disbursement))
}

// UpdateDisbursementStatus releases or cancels a pending payment
// @Summary Release or cancel a disbursement
// @Tags disbursements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param disbursementId path int true "Disbursement ID"
// @Param request body dto.DisbursementStatusRequest true "New status"
// @Success 200 {object} dto.APIResponse{data=models.Disbursement}
// @Failure 404 {object} dto.ErrorResponse "Disbursement not found"
// @Failure 409 {object} dto.ErrorResponse "Disbursement is no longer pending"
// @Router /programs/{program}/scholars/{id}/disbursements/{disbursementId}/status [patch]
func (c *ScholarController) UpdateDisbursementStatus(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	disbursementID, ok := parseIDParam(ctx, "disbursementId")
	if !ok {
		return
	}
	var req dto.DisbursementStatusRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	disbursement, err := c.disbursementService.UpdateStatus(ctx.Request.Context(), middleware.GetProgram(ctx).ID,
		scholarID, disbursementID, models.DisbursementStatus(req.Status))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(disbursement))
}

// DeleteDisbursement removes a pending payment
// @Summary Delete a disbursement
// @Tags disbursements
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Param disbursementId path int true "Disbursement ID"
// @Success 204 "Deleted"
// @Failure 409 {object} dto.ErrorResponse "Disbursement is no longer pending"
// @Router /programs/{program}/scholars/{id}/disbursements/{disbursementId} [delete]
func (c *ScholarController) DeleteDisbursement(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	disbursementID, ok := parseIDParam(ctx, "disbursementId")
	if !ok {
		return
	}
	if err := c.disbursementService.DeleteDisbursement(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID, disbursementID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// DownloadNOA renders the scholar's Notice of Award
// @Summary Download the Notice of Award
// @Description Renders a PDF Notice of Award for a VERIFIED or ACTIVE scholar
// @Tags noa
// @Produce application/pdf
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Success 200 {file} file "Notice of Award"
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Failure 422 {object} dto.ErrorResponse "Scholar is not VERIFIED or ACTIVE"
// @Router /programs/{program}/scholars/{id}/noa [get]
func (c *ScholarController) DownloadNOA(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var buf bytes.Buffer
	scholar, err := c.noaService.WriteNotice(ctx.Request.Context(), &buf, middleware.GetProgram(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	attachmentDisposition(ctx, services.NOAFilename(scholar.AwardNumber), "application/pdf")
	ctx.Data(http.StatusOK, "application/pdf", buf.Bytes())
}

// SendNOA emails the Notice of Award to the scholar
// @Summary Email the Notice of Award
// @Description Emails the NOA PDF to the scholar. Without SMTP credentials the mail is only logged and delivered is false.
// @Tags noa
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Success 200 {object} dto.APIResponse{data=dto.NOASendResponse}
// @Failure 422 {object} dto.ErrorResponse "Scholar has no email or is not eligible"
// @Failure 502 {object} dto.ErrorResponse "Mail server error"
// @Router /programs/{program}/scholars/{id}/noa/send [post]
func (c *ScholarController) SendNOA(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.noaService.SendNotice(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}
