package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/middleware"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// StaffController handles the office's own paperwork: travel orders and
// claims, leave, locator slips and trip tickets. Approvers see every
// document; everybody else sees their own.
type StaffController struct {
	travelService *services.TravelService
	leaveService  *services.LeaveService
	slipService   *services.LocatorSlipService
	ticketService *services.TripTicketService
}

// NewStaffController creates a new StaffController
func NewStaffController(travelService *services.TravelService, leaveService *services.LeaveService,
	slipService *services.LocatorSlipService, ticketService *services.TripTicketService) *StaffController {
	return &StaffController{
		travelService: travelService,
		leaveService:  leaveService,
		slipService:   slipService,
		ticketService: ticketService,
	}
}

func staffFilter(ctx *gin.Context) repositories.StaffDocumentFilter {
	return repositories.StaffDocumentFilter{
		EmployeeID: helpers.QueryInt64(ctx, "employeeId"),
		Status:     models.WorkflowStatus(strings.ToUpper(ctx.Query("status"))),
	}
}

// respond writes the result of a staff document operation
func respond(ctx *gin.Context, status int, data interface{}, err error) {
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(status, dto.NewSuccessResponse(data))
}

// CreateTravelOrder files a travel order
// @Summary File a travel order
// @Tags travel
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TravelOrderRequest true "Travel order with itinerary"
// @Success 201 {object} dto.APIResponse{data=models.TravelOrder}
// @Failure 422 {object} dto.ErrorResponse "Dates out of order or itinerary outside the travel dates"
// @Router /travel-orders [post]
func (c *StaffController) CreateTravelOrder(ctx *gin.Context) {
	var req dto.TravelOrderRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	order, err := c.travelService.CreateOrder(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	respond(ctx, http.StatusCreated, order, err)
}

// ListTravelOrders lists travel orders
// @Summary List travel orders
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param employeeId query int false "Employee (approvers only)"
// @Success 200 {object} dto.APIResponse{data=[]models.TravelOrder}
// @Router /travel-orders [get]
func (c *StaffController) ListTravelOrders(ctx *gin.Context) {
	orders, err := c.travelService.ListOrders(ctx.Request.Context(), middleware.GetActor(ctx), staffFilter(ctx))
	respond(ctx, http.StatusOK, orders, err)
}

// GetTravelOrder returns a travel order with its itinerary
// @Summary Get a travel order
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel order ID"
// @Success 200 {object} dto.APIResponse{data=models.TravelOrder}
// @Failure 404 {object} dto.ErrorResponse "Travel order not found"
// @Router /travel-orders/{id} [get]
func (c *StaffController) GetTravelOrder(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	order, err := c.travelService.GetOrder(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, order, err)
}

// ApproveTravelOrder approves a pending travel order
// @Summary Approve a travel order
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel order ID"
// @Success 200 {object} dto.APIResponse{data=models.TravelOrder}
// @Failure 403 {object} dto.ErrorResponse "Not an approver, or own document"
// @Failure 409 {object} dto.ErrorResponse "Travel order is no longer pending"
// @Router /travel-orders/{id}/approve [post]
func (c *StaffController) ApproveTravelOrder(ctx *gin.Context) {
	c.decideTravelOrder(ctx, models.WorkflowApproved)
}

// RejectTravelOrder rejects a pending travel order
// @Summary Reject a travel order
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel order ID"
// @Success 200 {object} dto.APIResponse{data=models.TravelOrder}
// @Failure 403 {object} dto.ErrorResponse "Not an approver, or own document"
// @Failure 409 {object} dto.ErrorResponse "Travel order is no longer pending"
// @Router /travel-orders/{id}/reject [post]
func (c *StaffController) RejectTravelOrder(ctx *gin.Context) {
	c.decideTravelOrder(ctx, models.WorkflowRejected)
}

func (c *StaffController) decideTravelOrder(ctx *gin.Context, status models.WorkflowStatus) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	order, err := c.travelService.DecideOrder(ctx.Request.Context(), middleware.GetActor(ctx), id, status)
	respond(ctx, http.StatusOK, order, err)
}

// CancelTravelOrder withdraws a pending travel order
// @Summary Cancel a travel order
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel order ID"
// @Success 200 {object} dto.APIResponse{data=models.TravelOrder}
// @Failure 403 {object} dto.ErrorResponse "Only the owner may cancel"
// @Failure 409 {object} dto.ErrorResponse "Travel order is no longer pending"
// @Router /travel-orders/{id}/cancel [post]
func (c *StaffController) CancelTravelOrder(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	order, err := c.travelService.CancelOrder(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, order, err)
}

// FileTravelClaim claims fares and per diem for an approved travel order
// @Summary File a travel claim
// @Description Total is the sum of itinerary fares plus per diem for each travel day
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel order ID"
// @Success 201 {object} dto.APIResponse{data=models.TravelClaim}
// @Failure 403 {object} dto.ErrorResponse "Only the traveller may claim"
// @Failure 409 {object} dto.ErrorResponse "Order not approved or already claimed"
// @Router /travel-orders/{id}/claim [post]
func (c *StaffController) FileTravelClaim(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	claim, err := c.travelService.FileClaim(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusCreated, claim, err)
}

// ListTravelClaims lists travel claims
// @Summary List travel claims
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param employeeId query int false "Employee (approvers only)"
// @Success 200 {object} dto.APIResponse{data=[]models.TravelClaim}
// @Router /travel-claims [get]
func (c *StaffController) ListTravelClaims(ctx *gin.Context) {
	claims, err := c.travelService.ListClaims(ctx.Request.Context(), middleware.GetActor(ctx), staffFilter(ctx))
	respond(ctx, http.StatusOK, claims, err)
}

// GetTravelClaim returns a travel claim
// @Summary Get a travel claim
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel claim ID"
// @Success 200 {object} dto.APIResponse{data=models.TravelClaim}
// @Failure 404 {object} dto.ErrorResponse "Travel claim not found"
// @Router /travel-claims/{id} [get]
func (c *StaffController) GetTravelClaim(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	claim, err := c.travelService.GetClaim(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, claim, err)
}

// ApproveTravelClaim approves a pending claim
// @Summary Approve a travel claim
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel claim ID"
// @Success 200 {object} dto.APIResponse{data=models.TravelClaim}
// @Failure 403 {object} dto.ErrorResponse "Not an approver, or own document"
// @Router /travel-claims/{id}/approve [post]
func (c *StaffController) ApproveTravelClaim(ctx *gin.Context) {
	c.decideTravelClaim(ctx, models.WorkflowApproved)
}

// RejectTravelClaim rejects a pending claim
// @Summary Reject a travel claim
// @Tags travel
// @Produce json
// @Security BearerAuth
// @Param id path int true "Travel claim ID"
// @Success 200 {object} dto.APIResponse{data=models.TravelClaim}
// @Failure 403 {object} dto.ErrorResponse "Not an approver, or own document"
// @Router /travel-claims/{id}/reject [post]
func (c *StaffController) RejectTravelClaim(ctx *gin.Context) {
	c.decideTravelClaim(ctx, models.WorkflowRejected)
}

func (c *StaffController) decideTravelClaim(ctx *gin.Context, status models.WorkflowStatus) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	claim, err := c.travelService.DecideClaim(ctx.Request.Context(), middleware.GetActor(ctx), id, status)
	respond(ctx, http.StatusOK, claim, err)
}

// FileLeave files a leave application
// @Summary File a leave application
// @Description Days are counted as weekdays in the range. Overlapping non-rejected applications are refused.
// @Tags leave
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LeaveRequest true "Leave application"
// @Success 201 {object} dto.APIResponse{data=models.LeaveApplication}
// @Failure 409 {object} dto.ErrorResponse "Overlaps another application"
// @Failure 422 {object} dto.ErrorResponse "Range has no weekdays or ends before it starts"
// @Router /leaves [post]
func (c *StaffController) FileLeave(ctx *gin.Context) {
	var req dto.LeaveRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	leave, err := c.leaveService.FileLeave(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	respond(ctx, http.StatusCreated, leave, err)
}

// ListLeaves lists leave applications
// @Summary List leave applications
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param employeeId query int false "Employee (approvers only)"
// @Success 200 {object} dto.APIResponse{data=[]models.LeaveApplication}
// @Router /leaves [get]
func (c *StaffController) ListLeaves(ctx *gin.Context) {
	leaves, err := c.leaveService.ListLeaves(ctx.Request.Context(), middleware.GetActor(ctx), staffFilter(ctx))
	respond(ctx, http.StatusOK, leaves, err)
}

// GetLeave returns a leave application
// @Summary Get a leave application
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave application ID"
// @Success 200 {object} dto.APIResponse{data=models.LeaveApplication}
// @Failure 404 {object} dto.ErrorResponse "Leave application not found"
// @Router /leaves/{id} [get]
func (c *StaffController) GetLeave(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	leave, err := c.leaveService.GetLeave(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, leave, err)
}

// ApproveLeave approves a pending leave application
// @Summary Approve a leave application
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave application ID"
// @Success 200 {object} dto.APIResponse{data=models.LeaveApplication}
// @Failure 403 {object} dto.ErrorResponse "Not an approver, or own document"
// @Router /leaves/{id}/approve [post]
func (c *StaffController) ApproveLeave(ctx *gin.Context) {
	c.decideLeave(ctx, models.WorkflowApproved)
}

// RejectLeave rejects a pending leave application
// @Summary Reject a leave application
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave application ID"
// @Success 200 {object} dto.APIResponse{data=models.LeaveApplication}
// @Failure 403 {object} dto.ErrorResponse "Not an approver, or own document"
// @Router /leaves/{id}/reject [post]
func (c *StaffController) RejectLeave(ctx *gin.Context) {
	c.decideLeave(ctx, models.WorkflowRejected)
}

func (c *StaffController) decideLeave(ctx *gin.Context, status models.WorkflowStatus) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	leave, err := c.leaveService.Decide(ctx.Request.Context(), middleware.GetActor(ctx), id, status)
	respond(ctx, http.StatusOK, leave, err)
}

// CancelLeave withdraws a pending leave application
// @Summary Cancel a leave application
// @Tags leave
// @Produce json
// @Security BearerAuth
// @Param id path int true "Leave application ID"
// @Success 200 {object} dto.APIResponse{data=models.LeaveApplication}
// @Failure 403 {object} dto.ErrorResponse "Only the owner may cancel"
// @Router /leaves/{id}/cancel [post]
func (c *StaffController) CancelLeave(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	leave, err := c.leaveService.Cancel(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, leave, err)
}

// FileLocatorSlip files a locator slip
// @Summary File a locator slip
// @Tags locator-slips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.LocatorSlipRequest true "Locator slip"
// @Success 201 {object} dto.APIResponse{data=models.LocatorSlip}
// @Failure 422 {object} dto.ErrorResponse "Time in is not after time out"
// @Router /locator-slips [post]
func (c *StaffController) FileLocatorSlip(ctx *gin.Context) {
	var req dto.LocatorSlipRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	slip, err := c.slipService.FileSlip(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	respond(ctx, http.StatusCreated, slip, err)
}

// ListLocatorSlips lists locator slips
// @Summary List locator slips
// @Tags locator-slips
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param employeeId query int false "Employee (approvers only)"
// @Success 200 {object} dto.APIResponse{data=[]models.LocatorSlip}
// @Router /locator-slips [get]
func (c *StaffController) ListLocatorSlips(ctx *gin.Context) {
	slips, err := c.slipService.ListSlips(ctx.Request.Context(), middleware.GetActor(ctx), staffFilter(ctx))
	respond(ctx, http.StatusOK, slips, err)
}

// GetLocatorSlip returns a locator slip
// @Summary Get a locator slip
// @Tags locator-slips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Locator slip ID"
// @Success 200 {object} dto.APIResponse{data=models.LocatorSlip}
// @Failure 404 {object} dto.ErrorResponse "Locator slip not found"
// @Router /locator-slips/{id} [get]
func (c *StaffController) GetLocatorSlip(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	slip, err := c.slipService.GetSlip(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, slip, err)
}

// RecordLocatorReturn records the time the employee came back
// @Summary Record return time
// @Tags locator-slips
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Locator slip ID"
// @Param request body dto.LocatorReturnRequest true "Return time"
// @Success 200 {object} dto.APIResponse{data=models.LocatorSlip}
// @Failure 422 {object} dto.ErrorResponse "Time in is not after time out"
// @Router /locator-slips/{id}/return [post]
func (c *StaffController) RecordLocatorReturn(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.LocatorReturnRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	slip, err := c.slipService.RecordReturn(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	respond(ctx, http.StatusOK, slip, err)
}

// ApproveLocatorSlip approves a pending locator slip
// @Summary Approve a locator slip
// @Tags locator-slips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Locator slip ID"
// @Success 200 {object} dto.APIResponse{data=models.LocatorSlip}
// @Router /locator-slips/{id}/approve [post]
func (c *StaffController) ApproveLocatorSlip(ctx *gin.Context) {
	c.decideLocatorSlip(ctx, models.WorkflowApproved)
}

// RejectLocatorSlip rejects a pending locator slip
// @Summary Reject a locator slip
// @Tags locator-slips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Locator slip ID"
// @Success 200 {object} dto.APIResponse{data=models.LocatorSlip}
// @Router /locator-slips/{id}/reject [post]
func (c *StaffController) RejectLocatorSlip(ctx *gin.Context) {
	c.decideLocatorSlip(ctx, models.WorkflowRejected)
}

func (c *StaffController) decideLocatorSlip(ctx *gin.Context, status models.WorkflowStatus) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	slip, err := c.slipService.Decide(ctx.Request.Context(), middleware.GetActor(ctx), id, status)
	respond(ctx, http.StatusOK, slip, err)
}

// CancelLocatorSlip withdraws a pending locator slip
// @Summary Cancel a locator slip
// @Tags locator-slips
// @Produce json
// @Security BearerAuth
// @Param id path int true "Locator slip ID"
// @Success 200 {object} dto.APIResponse{data=models.LocatorSlip}
// @Router /locator-slips/{id}/cancel [post]
func (c *StaffController) CancelLocatorSlip(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	slip, err := c.slipService.Cancel(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, slip, err)
}

// FileTripTicket files a trip ticket for an office vehicle
// @Summary File a trip ticket
// @Tags trip-tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.TripTicketRequest true "Trip ticket"
// @Success 201 {object} dto.APIResponse{data=models.TripTicket}
// @Failure 404 {object} dto.ErrorResponse "Travel order not found"
// @Failure 422 {object} dto.ErrorResponse "Odometer end below start"
// @Router /trip-tickets [post]
func (c *StaffController) FileTripTicket(ctx *gin.Context) {
	var req dto.TripTicketRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	ticket, err := c.ticketService.FileTicket(ctx.Request.Context(), middleware.GetActor(ctx), &req)
	respond(ctx, http.StatusCreated, ticket, err)
}

// ListTripTickets lists trip tickets
// @Summary List trip tickets
// @Tags trip-tickets
// @Produce json
// @Security BearerAuth
// @Param status query string false "Status" Enums(PENDING, APPROVED, REJECTED, CANCELLED)
// @Param employeeId query int false "Employee (approvers only)"
// @Success 200 {object} dto.APIResponse{data=[]models.TripTicket}
// @Router /trip-tickets [get]
func (c *StaffController) ListTripTickets(ctx *gin.Context) {
	tickets, err := c.ticketService.ListTickets(ctx.Request.Context(), middleware.GetActor(ctx), staffFilter(ctx))
	respond(ctx, http.StatusOK, tickets, err)
}

// GetTripTicket returns a trip ticket
// @Summary Get a trip ticket
// @Tags trip-tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ticket ID"
// @Success 200 {object} dto.APIResponse{data=models.TripTicket}
// @Failure 404 {object} dto.ErrorResponse "Trip ticket not found"
// @Router /trip-tickets/{id} [get]
func (c *StaffController) GetTripTicket(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	ticket, err := c.ticketService.GetTicket(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, ticket, err)
}

// CompleteTripTicket records the closing odometer and fuel used
// @Summary Complete a trip
// @Tags trip-tickets
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ticket ID"
// @Param request body dto.TripCompletionRequest true "Odometer and fuel"
// @Success 200 {object} dto.APIResponse{data=models.TripTicket}
// @Failure 422 {object} dto.ErrorResponse "Odometer end below start"
// @Router /trip-tickets/{id}/complete [post]
func (c *StaffController) CompleteTripTicket(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.TripCompletionRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}
	ticket, err := c.ticketService.CompleteTrip(ctx.Request.Context(), middleware.GetActor(ctx), id, &req)
	respond(ctx, http.StatusOK, ticket, err)
}

// ApproveTripTicket approves a pending trip ticket
// @Summary Approve a trip ticket
// @Tags trip-tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ticket ID"
// @Success 200 {object} dto.APIResponse{data=models.TripTicket}
// @Router /trip-tickets/{id}/approve [post]
func (c *StaffController) ApproveTripTicket(ctx *gin.Context) {
	c.decideTripTicket(ctx, models.WorkflowApproved)
}

// RejectTripTicket rejects a pending trip ticket
// @Summary Reject a trip ticket
// @Tags trip-tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ticket ID"
// @Success 200 {object} dto.APIResponse{data=models.TripTicket}
// @Router /trip-tickets/{id}/reject [post]
func (c *StaffController) RejectTripTicket(ctx *gin.Context) {
	c.decideTripTicket(ctx, models.WorkflowRejected)
}

func (c *StaffController) decideTripTicket(ctx *gin.Context, status models.WorkflowStatus) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	ticket, err := c.ticketService.Decide(ctx.Request.Context(), middleware.GetActor(ctx), id, status)
	respond(ctx, http.StatusOK, ticket, err)
}

// CancelTripTicket withdraws a pending trip ticket
// @Summary Cancel a trip ticket
// @Tags trip-tickets
// @Produce json
// @Security BearerAuth
// @Param id path int true "Trip ticket ID"
// @Success 200 {object} dto.APIResponse{data=models.TripTicket}
// @Router /trip-tickets/{id}/cancel [post]
func (c *StaffController) CancelTripTicket(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id")
	if !ok {
		return
	}
	ticket, err := c.ticketService.Cancel(ctx.Request.Context(), middleware.GetActor(ctx), id)
	respond(ctx, http.StatusOK, ticket, err)
}
