package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

// RequirementController handles program requirements and file attachments
type RequirementController struct {
	requirementService *services.RequirementService
	scholarService     *services.ScholarService
	financeService     *services.FinancialRequestService
	travelService      *services.TravelService
	leaveService       *services.LeaveService
}

// NewRequirementController creates a new RequirementController
func NewRequirementController(requirementService *services.RequirementService, scholarService *services.ScholarService,
	financeService *services.FinancialRequestService, travelService *services.TravelService, leaveService *services.LeaveService) *RequirementController {
	return &RequirementController{
		requirementService: requirementService,
		scholarService:     scholarService,
		financeService:     financeService,
		travelService:      travelService,
		leaveService:       leaveService,
	}
}

// ListRequirements lists a program's requirements
// @Summary List requirements
// @Tags requirements
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Success 200 {object} dto.APIResponse{data=[]models.Requirement}
// @Router /programs/{program}/requirements [get]
func (c *RequirementController) ListRequirements(ctx *gin.Context) {
	requirements, err := c.requirementService.ListRequirements(ctx.Request.Context(), middleware.GetProgram(ctx).ID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requirements))
}

// CreateRequirement adds a requirement to a program
// @Summary Create a requirement
// @Tags requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param request body dto.RequirementRequest true "Requirement"
// @Success 201 {object} dto.APIResponse{data=models.Requirement}
// @Failure 400 {object} dto.ErrorResponse "Invalid request data"
// @Router /programs/{program}/requirements [post]
func (c *RequirementController) CreateRequirement(ctx *gin.Context) {
	var req dto.RequirementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	requirement, err := c.requirementService.CreateRequirement(ctx.Request.Context(), middleware.GetProgram(ctx).ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(requirement))
}

// UpdateRequirement changes a requirement
// @Summary Update a requirement
// @Tags requirements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param requirementId path int true "Requirement ID"
// @Param request body dto.RequirementRequest true "Requirement"
// @Success 200 {object} dto.APIResponse{data=models.Requirement}
// @Failure 404 {object} dto.ErrorResponse "Requirement not found"
// @Router /programs/{program}/requirements/{requirementId} [put]
func (c *RequirementController) UpdateRequirement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "requirementId")
	if !ok {
		return
	}
	var req dto.RequirementRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	requirement, err := c.requirementService.UpdateRequirement(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requirement))
}

// DeleteRequirement removes a requirement
// @Summary Delete a requirement
// @Tags requirements
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param requirementId path int true "Requirement ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Requirement not found"
// @Router /programs/{program}/requirements/{requirementId} [delete]
func (c *RequirementController) DeleteRequirement(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "requirementId")
	if !ok {
		return
	}
	if err := c.requirementService.DeleteRequirement(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// Compliance lists the required documents a scholar still lacks
// @Summary Scholar compliance
// @Tags requirements
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Scholar ID"
// @Success 200 {object} dto.APIResponse{data=dto.ComplianceResponse}
// @Failure 404 {object} dto.ErrorResponse "Scholar not found"
// @Router /programs/{program}/scholars/{id}/compliance [get]
func (c *RequirementController) Compliance(ctx *gin.Context) {
	scholarID, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	resp, err := c.requirementService.Compliance(ctx.Request.Context(), middleware.GetProgram(ctx).ID, scholarID)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp))
}

// canReach checks that the caller may see the record files are attached to.
// Scholars and financial requests must belong to the route's program; staff
// documents follow the owner-or-approver rule.
func (c *RequirementController) canReach(ctx *gin.Context, t models.AttachableType, id int64) error {
	reqCtx := ctx.Request.Context()
	actor := middleware.GetActor(ctx)
	var err error
	switch t {
	case models.AttachableScholar:
		_, err = c.scholarService.GetScholar(reqCtx, middleware.GetProgram(ctx).ID, id)
	case models.AttachableFinancialRequest:
		_, err = c.financeService.GetRequest(reqCtx, middleware.GetProgram(ctx).ID, id)
	case models.AttachableTravelClaim:
		_, err = c.travelService.GetClaim(reqCtx, actor, id)
	case models.AttachableLeave:
		_, err = c.leaveService.GetLeave(reqCtx, actor, id)
	default:
		err = apperrors.NewCustomError(apperrors.ErrBadRequest, "unknown attachable type")
	}
	return err
}

// ListAttachments lists the files of a record
// @Summary List attachments
// @Tags attachments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Attachment}
// @Failure 404 {object} dto.ErrorResponse "Record not found"
// @Router /programs/{program}/scholars/{id}/attachments [get]
// @Router /programs/{program}/financial-requests/{id}/attachments [get]
// @Router /travel-claims/{id}/attachments [get]
// @Router /leaves/{id}/attachments [get]
func (c *RequirementController) ListAttachments(t models.AttachableType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := parseIDParam(ctx, "id")
		if !ok {
			return
		}
		if err := c.canReach(ctx, t, id); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		attachments, err := c.requirementService.ListAttachments(ctx.Request.Context(), t, id)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusOK, dto.NewSuccessResponse(attachments))
	}
}

// UploadAttachment stores a file against a record
// @Summary Upload an attachment
// @Description Accepts pdf, jpg, png, doc, docx and xlsx files up to 10 MB. Scholar uploads may name the requirement they satisfy.
// @Tags attachments
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param file formData file true "File"
// @Param requirementId formData int false "Requirement satisfied by the file"
// @Success 201 {object} dto.APIResponse{data=models.Attachment}
// @Failure 400 {object} dto.ErrorResponse "File missing"
// @Failure 404 {object} dto.ErrorResponse "Record or requirement not found"
// @Failure 422 {object} dto.ErrorResponse "File type or size not allowed"
// @Router /programs/{program}/scholars/{id}/attachments [post]
// @Router /programs/{program}/financial-requests/{id}/attachments [post]
// @Router /travel-claims/{id}/attachments [post]
// @Router /leaves/{id}/attachments [post]
func (c *RequirementController) UploadAttachment(t models.AttachableType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := parseIDParam(ctx, "id")
		if !ok {
			return
		}
		file, err := ctx.FormFile("file")
		if err != nil {
			errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "File is required").WithField("file")
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
			return
		}
		var requirementID *int64
		if v := ctx.PostForm("requirementId"); v != "" {
			rid, err := strconv.ParseInt(v, 10, 64)
			if err != nil || rid <= 0 {
				errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, "Invalid requirementId").WithField("requirementId")
				ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
				return
			}
			requirementID = &rid
		}
		if err := c.canReach(ctx, t, id); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}

		attachment, err := c.requirementService.UploadAttachment(ctx.Request.Context(), t, id, requirementID, file, middleware.GetActor(ctx).UserID)
		if err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(attachment))
	}
}

// DeleteAttachment removes a file from a record
// @Summary Delete an attachment
// @Tags attachments
// @Security BearerAuth
// @Param id path int true "Record ID"
// @Param attachmentId path int true "Attachment ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Attachment not found"
// @Router /programs/{program}/scholars/{id}/attachments/{attachmentId} [delete]
// @Router /programs/{program}/financial-requests/{id}/attachments/{attachmentId} [delete]
// @Router /travel-claims/{id}/attachments/{attachmentId} [delete]
// @Router /leaves/{id}/attachments/{attachmentId} [delete]
func (c *RequirementController) DeleteAttachment(t models.AttachableType) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		id, ok := parseIDParam(ctx, "id")
		if !ok {
			return
		}
		attachmentID, ok := parseIDParam(ctx, "attachmentId")
		if !ok {
			return
		}
		if err := c.canReach(ctx, t, id); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if err := c.ensureAttachedTo(ctx.Request.Context(), attachmentID, t, id); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		if err := c.requirementService.DeleteAttachment(ctx.Request.Context(), attachmentID); err != nil {
			middleware.HandleAPIError(ctx, err)
			return
		}
		ctx.Status(http.StatusNoContent)
	}
}

func (c *RequirementController) ensureAttachedTo(ctx context.Context, attachmentID int64, t models.AttachableType, id int64) error {
	a, err := c.requirementService.GetAttachment(ctx, attachmentID)
	if err != nil {
		return err
	}
	if a.AttachableType != t || a.AttachableID != id {
		return apperrors.NewResourceNotFoundError("attachment not found")
	}
	return nil
}
