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

// LocatorSlipService handles locator slips
type LocatorSlipService struct {
	slipRepo LocatorSlipRepository
}

// NewLocatorSlipService creates a new locator slip service instance
func NewLocatorSlipService(slipRepo LocatorSlipRepository) *LocatorSlipService {
	return &LocatorSlipService{slipRepo: slipRepo}
}

// FileSlip records a pending locator slip
func (s *LocatorSlipService) FileSlip(ctx context.Context, actor Actor, req *dto.LocatorSlipRequest) (*models.LocatorSlip, error) {
	slipDate, err := time.Parse(helpers.DateLayout, req.SlipDate)
	if err != nil {
		return nil, fmt.Errorf("%w: slipDate must be YYYY-MM-DD", apperrors.ErrValidationFailed)
	}
	timeOut, err := time.Parse(time.RFC3339, req.TimeOut)
	if err != nil {
		return nil, fmt.Errorf("%w: timeOut must be RFC 3339", apperrors.ErrValidationFailed)
	}

	slip := &models.LocatorSlip{
		EmployeeID:  actor.UserID,
		Destination: strings.TrimSpace(req.Destination),
		Purpose:     strings.TrimSpace(req.Purpose),
		SlipDate:    slipDate,
		TimeOut:     timeOut,
		IsOfficial:  req.IsOfficial == nil || *req.IsOfficial,
		Status:      models.WorkflowPending,
	}
	if req.TimeIn != "" {
		timeIn, err := time.Parse(time.RFC3339, req.TimeIn)
		if err != nil {
			return nil, fmt.Errorf("%w: timeIn must be RFC 3339", apperrors.ErrValidationFailed)
		}
		if !timeIn.After(timeOut) {
			return nil, fmt.Errorf("%w: timeIn must be after timeOut", apperrors.ErrValidationFailed)
		}
		slip.TimeIn = &timeIn
	}

	if err := s.slipRepo.Create(ctx, slip); err != nil {
		return nil, err
	}
	return slip, nil
}

// RecordReturn sets the time the employee came back
func (s *LocatorSlipService) RecordReturn(ctx context.Context, actor Actor, id int64, req *dto.LocatorReturnRequest) (*models.LocatorSlip, error) {
	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if slip.EmployeeID != actor.UserID && !actor.Role.CanApproveStaffDocuments() {
		return nil, apperrors.NewForbiddenError("only the owner may record the return")
	}
	if slip.Status == models.WorkflowRejected || slip.Status == models.WorkflowCancelled {
		return nil, fmt.Errorf("%w: slip is %s", apperrors.ErrInvalidTransition, slip.Status)
	}
	timeIn, err := time.Parse(time.RFC3339, req.TimeIn)
	if err != nil {
		return nil, fmt.Errorf("%w: timeIn must be RFC 3339", apperrors.ErrValidationFailed)
	}
	if !timeIn.After(slip.TimeOut) {
		return nil, fmt.Errorf("%w: timeIn must be after timeOut", apperrors.ErrValidationFailed)
	}
	if err := s.slipRepo.SetTimeIn(ctx, id, timeIn); err != nil {
		return nil, err
	}
	return s.slipRepo.GetByID(ctx, id)
}

// ListSlips lists the actor's own slips, or anyone's for approvers
func (s *LocatorSlipService) ListSlips(ctx context.Context, actor Actor, filter repositories.StaffDocumentFilter) ([]models.LocatorSlip, error) {
	filter.EmployeeID = scopeEmployee(actor, filter.EmployeeID)
	return s.slipRepo.List(ctx, filter)
}

// GetSlip retrieves a slip visible to the actor
func (s *LocatorSlipService) GetSlip(ctx context.Context, actor Actor, id int64) (*models.LocatorSlip, error) {
	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkView(actor, slip.EmployeeID); err != nil {
		return nil, err
	}
	return slip, nil
}

// Decide approves or rejects a pending slip
func (s *LocatorSlipService) Decide(ctx context.Context, actor Actor, id int64, status models.WorkflowStatus) (*models.LocatorSlip, error) {
	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkDecision(actor, slip.EmployeeID, slip.Status, status); err != nil {
		return nil, err
	}
	approver := actor.UserID
	if err := s.slipRepo.SetStatus(ctx, id, status, &approver); err != nil {
		return nil, err
	}
	return s.slipRepo.GetByID(ctx, id)
}

// Cancel withdraws the actor's pending slip
func (s *LocatorSlipService) Cancel(ctx context.Context, actor Actor, id int64) (*models.LocatorSlip, error) {
	slip, err := s.slipRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := checkCancel(actor, slip.EmployeeID, slip.Status); err != nil {
		return nil, err
	}
	if err := s.slipRepo.SetStatus(ctx, id, models.WorkflowCancelled, nil); err != nil {
		return nil, err
	}
	return s.slipRepo.GetByID(ctx, id)
}
