package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/helpers"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// TravelService handles travel orders and their reimbursement claims
type TravelService struct {
	tx          db.Transactor
	travelRepo  TravelRepository
	perDiemRate float64
}

// NewTravelService creates a new travel service instance
func NewTravelService(tx db.Transactor, travelRepo TravelRepository, perDiemRate float64) *TravelService {
	return &TravelService{tx: tx, travelRepo: travelRepo, perDiemRate: perDiemRate}
}

// CreateOrder files a pending travel order. Each itinerary leg must fall
// within the departure and return dates.
func (s *TravelService) CreateOrder(ctx context.Context, actor Actor, req *dto.TravelOrderRequest) (*models.TravelOrder, error) {
	departure, err := time.Parse(helpers.DateLayout, req.DepartureDate)
	if err != nil {
		return nil, fmt.Errorf("%w: departureDate must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	ret, err := time.Parse(helpers.DateLayout, req.ReturnDate)
	if err != nil {
		return nil, fmt.Errorf("%w: returnDate must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	if ret.Before(departure) {
		return nil, fmt.Errorf("%w: returnDate is before departureDate", apperrors.ErrValidationFailed)
	}

	o := &models.TravelOrder{
		EmployeeID:    actor.UserID,
		Purpose:       strings.TrimSpace(req.Purpose),
		Destination:   strings.TrimSpace(req.Destination),
		DepartureDate: departure,
		ReturnDate:    ret,
		Status:        models.WorkflowPending,
	}
	for i, leg := range req.Itineraries {
		day, err := time.Parse(helpers.DateLayout, leg.TravelDate)
		if err != nil {
			return nil, fmt.Errorf("%w: itineraries[%d].travelDate must be YYYY-MM-DD", apperrors.ErrValidationFailed, i)
		}
		if day.Before(departure) || day.After(ret) {
			return nil, fmt.Errorf("%w: itineraries[%d] is outside the travel dates", apperrors.ErrValidationFailed, i)
		}
		if leg.Fare < 0 {
			return nil, fmt.Errorf("%w: itineraries[%d].fare is negative", apperrors.ErrValidationFailed, i)
		}
		o.Itineraries = append(o.Itineraries, models.TravelItinerary{
			TravelDate:  day,
			Origin:      strings.TrimSpace(leg.Origin),
			Destination: strings.TrimSpace(leg.Destination),
			Mode:        strings.TrimSpace(leg.Mode),
			Fare:        leg.Fare,
		})
	}

	err = s.tx.RunInTx(ctx, func(ctx context.Context) error {
		return s.travelRepo.CreateOrder(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	logger.Info().Int64("travelOrderID", o.ID).Int64("employeeID", o.EmployeeID).Msg("Travel order filed")
	return o, nil
}

// ListOrders lists the actor's own orders, or anyone's for approvers
func (s *TravelService) ListOrders(ctx context.Context, actor Actor, filter repositories.StaffDocumentFilter) ([]models.TravelOrder, error) {
	filter.EmployeeID = scopeEmployee(actor, filter.EmployeeID)
	return s.travelRepo.ListOrders(ctx, filter)
}

// GetOrder retrieves an order with its itinerary
func (s *TravelService) GetOrder(ctx context.Context, actor Actor, id int64) (*models.TravelOrder, error) {
	o, err := s.travelRepo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkView(actor, o.EmployeeID); err != nil {
		return nil, err
	}
	return o, nil
}

// DecideOrder approves or rejects a pending order
func (s *TravelService) DecideOrder(ctx context.Context, actor Actor, id int64, status models.WorkflowStatus) (*models.TravelOrder, error) {
	o, err := s.travelRepo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDecision(actor, o.EmployeeID, o.Status, status); err != nil {
		return nil, err
	}
	approver := actor.UserID
	if err := s.travelRepo.SetOrderStatus(ctx, id, status, &approver); err != nil {
		return nil, err
	}
	return s.travelRepo.GetOrder(ctx, id)
}

// CancelOrder withdraws the actor's pending order
func (s *TravelService) CancelOrder(ctx context.Context, actor Actor, id int64) (*models.TravelOrder, error) {
	o, err := s.travelRepo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(actor, o.EmployeeID, o.Status); err != nil {
		return nil, err
	}
	if err := s.travelRepo.SetOrderStatus(ctx, id, models.WorkflowCancelled, nil); err != nil {
		return nil, err
	}
	return s.travelRepo.GetOrder(ctx, id)
}

// ComputeClaim totals the itinerary fares and the per diem for every
// calendar day of the trip.
func ComputeClaim(o *models.TravelOrder, perDiemRate float64) (fares, perDiem, total float64) {
	for _, leg := range o.Itineraries {
		fares += leg.Fare
	}
	perDiem = float64(helpers.DaysInclusive(o.DepartureDate, o.ReturnDate)) * perDiemRate
	fares = roundCents(fares)
	perDiem = roundCents(perDiem)
	return fares, perDiem, roundCents(fares + perDiem)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}

// FileClaim creates the single reimbursement claim of an approved order
func (s *TravelService) FileClaim(ctx context.Context, actor Actor, orderID int64) (*models.TravelClaim, error) {
	o, err := s.travelRepo.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.EmployeeID != actor.UserID {
		return nil, apperrors.NewForbiddenError("only the traveller may claim this travel order")
	}
	if o.Status != models.WorkflowApproved {
		return nil, fmt.Errorf("%w: claims are only filed for approved travel orders", apperrors.ErrInvalidTransition)
	}

	fares, perDiem, total := ComputeClaim(o, s.perDiemRate)
	c := &models.TravelClaim{
		TravelOrderID: o.ID,
		EmployeeID:    o.EmployeeID,
		FareTotal:     fares,
		PerDiemTotal:  perDiem,
		TotalAmount:   total,
		Status:        models.WorkflowPending,
	}
	if err := s.travelRepo.CreateClaim(ctx, c); err != nil {
		return nil, err
	}
	logger.Info().Int64("travelClaimID", c.ID).Float64("total", c.TotalAmount).Msg("Travel claim filed")
	return c, nil
}

// ListClaims lists the actor's own claims, or anyone's for approvers
func (s *TravelService) ListClaims(ctx context.Context, actor Actor, filter repositories.StaffDocumentFilter) ([]models.TravelClaim, error) {
	filter.EmployeeID = scopeEmployee(actor, filter.EmployeeID)
	return s.travelRepo.ListClaims(ctx, filter)
}

// GetClaim retrieves a claim visible to the actor
func (s *TravelService) GetClaim(ctx context.Context, actor Actor, id int64) (*models.TravelClaim, error) {
	c, err := s.travelRepo.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkView(actor, c.EmployeeID); err != nil {
		return nil, err
	}
	return c, nil
}

// DecideClaim approves or rejects a pending claim
func (s *TravelService) DecideClaim(ctx context.Context, actor Actor, id int64, status models.WorkflowStatus) (*models.TravelClaim, error) {
	c, err := s.travelRepo.GetClaim(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDecision(actor, c.EmployeeID, c.Status, status); err != nil {
		return nil, err
	}
	approver := actor.UserID
	if err := s.travelRepo.SetClaimStatus(ctx, id, status, &approver); err != nil {
		return nil, err
	}
	return s.travelRepo.GetClaim(ctx, id)
}
