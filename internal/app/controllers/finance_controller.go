package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
)

// FinanceController handles sub-allotments, obligations and financial requests
type FinanceController struct {
	budgetService  *services.BudgetService
	requestService *services.FinancialRequestService
}

// NewFinanceController creates a new FinanceController
func NewFinanceController(budgetService *services.BudgetService, requestService *services.FinancialRequestService) *FinanceController {
	return &FinanceController{
		budgetService:  budgetService,
		requestService: requestService,
	}
}

// ListSubAllotments lists a program's SAROs with their balances
// @Summary List sub-allotments
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param fiscalYear query int false "Fiscal year"
// @Success 200 {object} dto.APIResponse{data=dto.SubAllotmentListResponse}
// @Router /programs/{program}/sub-allotments [get]
func (c *FinanceController) ListSubAllotments(ctx *gin.Context) {
	fiscalYear, _ := strconv.Atoi(ctx.Query("fiscalYear"))
	subAllotments, err := c.budgetService.ListSubAllotments(ctx.Request.Context(), middleware.GetProgram(ctx).ID, fiscalYear)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.SubAllotmentListResponse{SubAllotments: subAllotments}))
}

// GetSubAllotment returns one SARO with its balance
// @Summary Get a sub-allotment
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Sub-allotment ID"
// @Success 200 {object} dto.APIResponse{data=models.SubAllotment}
// @Failure 404 {object} dto.ErrorResponse "Sub-allotment not found"
// @Router /programs/{program}/sub-allotments/{id} [get]
func (c *FinanceController) GetSubAllotment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	sa, err := c.budgetService.GetSubAllotment(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(sa))
}

// CreateSubAllotment records a SARO
// @Summary Create a sub-allotment
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param request body dto.SubAllotmentRequest true "Sub-allotment"
// @Success 201 {object} dto.APIResponse{data=models.SubAllotment}
// @Failure 409 {object} dto.ErrorResponse "SARO number already recorded"
// @Router /programs/{program}/sub-allotments [post]
func (c *FinanceController) CreateSubAllotment(ctx *gin.Context) {
	var req dto.SubAllotmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	sa, err := c.budgetService.CreateSubAllotment(ctx.Request.Context(), middleware.GetProgram(ctx).ID, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(sa))
}

// UpdateSubAllotment changes a SARO. The amount may not drop below what is obligated.
// @Summary Update a sub-allotment
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Sub-allotment ID"
// @Param request body dto.SubAllotmentRequest true "Sub-allotment"
// @Success 200 {object} dto.APIResponse{data=models.SubAllotment}
// @Failure 404 {object} dto.ErrorResponse "Sub-allotment not found"
// @Failure 422 {object} dto.ErrorResponse "Amount below the obligated total"
// @Router /programs/{program}/sub-allotments/{id} [put]
func (c *FinanceController) UpdateSubAllotment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.SubAllotmentRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	sa, err := c.budgetService.UpdateSubAllotment(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(sa))
}

// DeleteSubAllotment removes a SARO without obligations
// @Summary Delete a sub-allotment
// @Tags budget
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Sub-allotment ID"
// @Success 204 "Deleted"
// @Failure 409 {object} dto.ErrorResponse "Sub-allotment has obligations"
// @Router /programs/{program}/sub-allotments/{id} [delete]
func (c *FinanceController) DeleteSubAllotment(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	if err := c.budgetService.DeleteSubAllotment(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListObligations lists the obligations charged to a SARO
// @Summary List obligations
// @Tags budget
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Sub-allotment ID"
// @Success 200 {object} dto.APIResponse{data=[]models.Obligation}
// @Failure 404 {object} dto.ErrorResponse "Sub-allotment not found"
// @Router /programs/{program}/sub-allotments/{id}/obligations [get]
func (c *FinanceController) ListObligations(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	obligations, err := c.budgetService.ListObligations(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(obligations))
}

// CreateObligation charges an amount to a SARO
// @Summary Create an obligation
// @Description The sub-allotment row is locked while the balance is checked
// @Tags budget
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Sub-allotment ID"
// @Param request body dto.ObligationRequest true "Obligation"
// @Success 201 {object} dto.APIResponse{data=models.Obligation}
// @Failure 404 {object} dto.ErrorResponse "Sub-allotment not found"
// @Failure 409 {object} dto.ErrorResponse "ORS number already used"
// @Failure 422 {object} dto.ErrorResponse "Amount exceeds the remaining balance"
// @Router /programs/{program}/sub-allotments/{id}/obligations [post]
func (c *FinanceController) CreateObligation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.ObligationRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	obligation, err := c.budgetService.CreateObligation(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(obligation))
}

// DeleteObligation releases an obligation back to the SARO
// @Summary Delete an obligation
// @Tags budget
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Sub-allotment ID"
// @Param obligationId path int true "Obligation ID"
// @Success 204 "Deleted"
// @Failure 404 {object} dto.ErrorResponse "Obligation not found"
// @Router /programs/{program}/sub-allotments/{id}/obligations/{obligationId} [delete]
func (c *FinanceController) DeleteObligation(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	obligationID, ok := parseIDParam(ctx, "obligationId")
	if !ok {
		return
	}
	if err := c.budgetService.DeleteObligation(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, obligationID); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.Status(http.StatusNoContent)
}

// ListRequests lists a program's financial requests
// @Summary List financial requests
// @Description mine=true lists the caller's own requests; awaiting=true lists pending requests at the caller's approval step
// @Tags financial-requests
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param status query string false "Status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param mine query bool false "Only my requests"
// @Param awaiting query bool false "Only requests waiting for my decision"
// @Success 200 {object} dto.APIResponse{data=[]models.FinancialRequest}
// @Router /programs/{program}/financial-requests [get]
func (c *FinanceController) ListRequests(ctx *gin.Context) {
	actor := middleware.GetActor(ctx)
	filter := repositories.FinancialRequestFilter{
		ProgramID: middleware.GetProgram(ctx).ID,
		Status:    models.FinancialRequestStatus(strings.ToUpper(ctx.Query("status"))),
	}
	if ctx.Query("mine") == "true" {
		filter.RequestedBy = actor.UserID
	}
	if ctx.Query("awaiting") == "true" {
		filter.AwaitingRole = actor.Role
	}
	requests, err := c.requestService.ListRequests(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(requests))
}

// GetRequest returns a financial request with its approval trail
// @Summary Get a financial request
// @Tags financial-requests
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Financial request ID"
// @Success 200 {object} dto.APIResponse{data=models.FinancialRequest}
// @Failure 404 {object} dto.ErrorResponse "Financial request not found"
// @Router /programs/{program}/financial-requests/{id} [get]
func (c *FinanceController) GetRequest(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	fr, err := c.requestService.GetRequest(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fr))
}

// CreateRequest files a financial request against a SARO
// @Summary Create a financial request
// @Tags financial-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param request body dto.FinancialRequestCreate true "Financial request"
// @Success 201 {object} dto.APIResponse{data=models.FinancialRequest}
// @Failure 404 {object} dto.ErrorResponse "Sub-allotment not found"
// @Failure 422 {object} dto.ErrorResponse "Amount exceeds the remaining balance"
// @Router /programs/{program}/financial-requests [post]
func (c *FinanceController) CreateRequest(ctx *gin.Context) {
	var req dto.FinancialRequestCreate
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	fr, err := c.requestService.CreateRequest(ctx.Request.Context(), middleware.GetProgram(ctx).ID, middleware.GetActor(ctx), &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(fr))
}

// ApproveRequest approves the current step
// @Summary Approve a financial request
// @Description Approves the current step of the SUPERVISOR, ACCOUNTANT, REGIONAL_DIRECTOR chain. The final approval obligates the amount.
// @Tags financial-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Financial request ID"
// @Param request body dto.DecisionRequest false "Remarks and optional ORS number"
// @Success 200 {object} dto.APIResponse{data=models.FinancialRequest}
// @Failure 403 {object} dto.ErrorResponse "Not the approver of the current step"
// @Failure 409 {object} dto.ErrorResponse "Request is no longer pending"
// @Failure 422 {object} dto.ErrorResponse "Amount exceeds the remaining balance"
// @Router /programs/{program}/financial-requests/{id}/approve [post]
func (c *FinanceController) ApproveRequest(ctx *gin.Context) {
	c.decide(ctx, models.DecisionApproved)
}

// RejectRequest rejects the request at the current step
// @Summary Reject a financial request
// @Tags financial-requests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Financial request ID"
// @Param request body dto.DecisionRequest false "Remarks"
// @Success 200 {object} dto.APIResponse{data=models.FinancialRequest}
// @Failure 403 {object} dto.ErrorResponse "Not the approver of the current step"
// @Failure 409 {object} dto.ErrorResponse "Request is no longer pending"
// @Router /programs/{program}/financial-requests/{id}/reject [post]
func (c *FinanceController) RejectRequest(ctx *gin.Context) {
	c.decide(ctx, models.DecisionRejected)
}

func (c *FinanceController) decide(ctx *gin.Context, decision models.ApprovalDecision) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.DecisionRequest
	if ctx.Request.ContentLength > 0 && !middleware.BindJSON(ctx, &req) {
		return
	}
	fr, err := c.requestService.Decide(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, middleware.GetActor(ctx), decision, &req)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fr))
}

// CancelRequest withdraws a pending request
// @Summary Cancel a financial request
// @Tags financial-requests
// @Produce json
// @Security BearerAuth
// @Param program path string true "Program code"
// @Param id path int true "Financial request ID"
// @Success 200 {object} dto.APIResponse{data=models.FinancialRequest}
// @Failure 403 {object} dto.ErrorResponse "Only the requester may cancel"
// @Failure 409 {object} dto.ErrorResponse "Request is no longer pending"
// @Router /programs/{program}/financial-requests/{id}/cancel [post]
func (c *FinanceController) CancelRequest(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	fr, err := c.requestService.CancelRequest(ctx.Request.Context(), middleware.GetProgram(ctx).ID, id, middleware.GetActor(ctx))
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(fr))
}
