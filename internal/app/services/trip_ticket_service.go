package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
)

// TripTicketService handles vehicle trip tickets
type TripTicketService struct {
	ticketRepo TripTicketRepository
	travelRepo TravelRepository
}

// NewTripTicketService creates a new trip ticket service instance
func NewTripTicketService(ticketRepo TripTicketRepository, travelRepo TravelRepository) *TripTicketService {
	return &TripTicketService{ticketRepo: ticketRepo, travelRepo: travelRepo}
}

// FileTicket records a pending trip ticket, optionally tied to a travel order
func (s *TripTicketService) FileTicket(ctx context.Context, actor Actor, req *dto.TripTicketRequest) (*models.TripTicket, error) {
	tripDate, err := time.Parse(helpers.DateLayout, req.TripDate)
	if err != nil {
		return nil, fmt.Errorf("%w: tripDate must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	if req.OdometerEnd != nil && *req.OdometerEnd < req.OdometerStart {
		return nil, fmt.Errorf("%w: odometerEnd is below odometerStart", apperrors.ErrValidationFailed)
	}
	if req.TravelOrderID != nil {
		order, err := s.travelRepo.GetOrder(ctx, *req.TravelOrderID)
		if err != nil {
			return nil, err
		}
		if err := checkView(actor, order.EmployeeID); err != nil {
			return nil, err
		}
	}

	t := &models.TripTicket{
		EmployeeID:    actor.UserID,
		TravelOrderID: req.TravelOrderID,
		DriverName:    strings.TrimSpace(req.DriverName),
		VehiclePlate:  strings.ToUpper(strings.TrimSpace(req.VehiclePlate)),
		Destination:   strings.TrimSpace(req.Destination),
		Purpose:       strings.TrimSpace(req.Purpose),
		TripDate:      tripDate,
		OdometerStart: req.OdometerStart,
		OdometerEnd:   req.OdometerEnd,
		FuelLiters:    req.FuelLiters,
		Status:        models.WorkflowPending,
	}
	if err := s.ticketRepo.Create(ctx, t); err != nil {
		return nil, err
	}
	return t, nil
}

// CompleteTrip records the final odometer reading and fuel used
func (s *TripTicketService) CompleteTrip(ctx context.Context, actor Actor, id int64, req *dto.TripCompletionRequest) (*models.TripTicket, error) {
	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if t.EmployeeID != actor.UserID && !actor.Role.CanApproveStaffDocuments() {
		return nil, apperrors.NewForbiddenError("only the owner may complete this trip ticket")
	}
	if t.Status == models.WorkflowRejected || t.Status == models.WorkflowCancelled {
		return nil, fmt.Errorf("%w: trip ticket is %s", apperrors.ErrInvalidTransition, t.Status)
	}
	if req.OdometerEnd < t.OdometerStart {
		return nil, fmt.Errorf("%w: odometerEnd %d is below odometerStart %d", apperrors.ErrValidationFailed, req.OdometerEnd, t.OdometerStart)
	}
	if err := s.ticketRepo.Complete(ctx, id, req.OdometerEnd, req.FuelLiters); err != nil {
		return nil, err
	}
	return s.ticketRepo.GetByID(ctx, id)
}

// ListTickets lists the actor's own tickets, or anyone's for approvers
func (s *TripTicketService) ListTickets(ctx context.Context, actor Actor, filter repositories.StaffDocumentFilter) ([]models.TripTicket, error) {
	filter.EmployeeID = scopeEmployee(actor, filter.EmployeeID)
	return s.ticketRepo.List(ctx, filter)
}

// GetTicket retrieves a ticket visible to the actor
func (s *TripTicketService) GetTicket(ctx context.Context, actor Actor, id int64) (*models.TripTicket, error) {
	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkView(actor, t.EmployeeID); err != nil {
		return nil, err
	}
	return t, nil
}

// Decide approves or rejects a pending ticket
func (s *TripTicketService) Decide(ctx context.Context, actor Actor, id int64, status models.WorkflowStatus) (*models.TripTicket, error) {
	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDecision(actor, t.EmployeeID, t.Status, status); err != nil {
		return nil, err
	}
	approver := actor.UserID
	if err := s.ticketRepo.SetStatus(ctx, id, status, &approver); err != nil {
		return nil, err
	}
	return s.ticketRepo.GetByID(ctx, id)
}

// Cancel withdraws the actor's pending ticket
func (s *TripTicketService) Cancel(ctx context.Context, actor Actor, id int64) (*models.TripTicket, error) {
	t, err := s.ticketRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(actor, t.EmployeeID, t.Status); err != nil {
		return nil, err
	}
	if err := s.ticketRepo.SetStatus(ctx, id, models.WorkflowCancelled, nil); err != nil {
		return nil, err
	}
	return s.ticketRepo.GetByID(ctx, id)
}
