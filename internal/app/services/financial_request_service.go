package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/db"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// FinancialRequestService runs requests through the
// SUPERVISOR > ACCOUNTANT > REGIONAL_DIRECTOR approval chain
type FinancialRequestService struct {
	tx          db.Transactor
	requestRepo FinancialRequestRepository
	budget      *BudgetService
	now         func() time.Time
}

// NewFinancialRequestService creates a new financial request service instance
func NewFinancialRequestService(tx db.Transactor, requestRepo FinancialRequestRepository, budget *BudgetService) *FinancialRequestService {
	return &FinancialRequestService{tx: tx, requestRepo: requestRepo, budget: budget, now: time.Now}
}

// CreateRequest files a request against a sub-allotment of the program
func (s *FinancialRequestService) CreateRequest(ctx context.Context, programID int64, actor Actor, req *dto.FinancialRequestCreate) (*models.FinancialRequest, error) {
	if req.Amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be greater than zero", apperrors.ErrValidationFailed)
	}
	sa, err := s.budget.GetSubAllotment(ctx, programID, req.SubAllotmentID)
	if err != nil {
		return nil, err
	}
	if req.Amount > sa.Balance()+amountEpsilon {
		return nil, fmt.Errorf("%w: requested %.2f, balance is %.2f", apperrors.ErrBudgetExceeded, req.Amount, sa.Balance())
	}

	f := &models.FinancialRequest{
		ProgramID:      programID,
		SubAllotmentID: sa.ID,
		RequestedBy:    actor.UserID,
		Purpose:        strings.TrimSpace(req.Purpose),
		Payee:          strings.TrimSpace(req.Payee),
		Amount:         req.Amount,
	}
	if err := s.requestRepo.Create(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// ListRequests returns requests matching the filter
func (s *FinancialRequestService) ListRequests(ctx context.Context, filter repositories.FinancialRequestFilter) ([]models.FinancialRequest, error) {
	return s.requestRepo.List(ctx, filter)
}

// GetRequest retrieves a request with its approval history
func (s *FinancialRequestService) GetRequest(ctx context.Context, programID, id int64) (*models.FinancialRequest, error) {
	f, err := s.requestRepo.GetByID(ctx, id, false)
	if err != nil {
		return nil, err
	}
	if f.ProgramID != programID {
		return nil, apperrors.NewResourceNotFoundError("financial request not found")
	}
	f.Approvals, err = s.requestRepo.ListApprovals(ctx, id)
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Decide records the actor's decision on the current step. The final
// approval obligates the amount against the sub-allotment in the same
// transaction, so an exhausted budget rejects the approval.
func (s *FinancialRequestService) Decide(ctx context.Context, programID, id int64, actor Actor, decision models.ApprovalDecision, req *dto.DecisionRequest) (*models.FinancialRequest, error) {
	if decision != models.DecisionApproved && decision != models.DecisionRejected {
		return nil, fmt.Errorf("%w: unknown decision %q", apperrors.ErrValidationFailed, decision)
	}

	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		f, err := s.requestRepo.GetByID(ctx, id, true)
		if err != nil {
			return err
		}
		if f.ProgramID != programID {
			return apperrors.NewResourceNotFoundError("financial request not found")
		}
		if f.Status != models.FinancialPending {
			return fmt.Errorf("%w: request is %s", apperrors.ErrInvalidTransition, f.Status)
		}
		expected, ok := models.ApproverForStep(f.CurrentStep)
		if !ok {
			return fmt.Errorf("%w: request is at unknown step %d", apperrors.ErrInvalidTransition, f.CurrentStep)
		}
		if actor.Role != expected && actor.Role != models.RoleSuperAdmin {
			return fmt.Errorf("%w: step %d awaits %s", apperrors.ErrNotCurrentApprover, f.CurrentStep, expected)
		}

		approverID := actor.UserID
		if err := s.requestRepo.AddApproval(ctx, &models.FinancialApproval{
			RequestID:    f.ID,
			Step:         f.CurrentStep,
			ApproverRole: expected,
			ApproverID:   &approverID,
			Decision:     decision,
			Remarks:      strings.TrimSpace(req.Remarks),
		}); err != nil {
			return err
		}

		switch {
		case decision == models.DecisionRejected:
			f.Status = models.FinancialRejected
		case f.IsFinalStep():
			ors := strings.TrimSpace(req.ORSNumber)
			if ors == "" {
				ors = fmt.Sprintf("ORS-%d-%06d", s.now().Year(), f.ID)
			}
			requestID := f.ID
			if err := s.budget.obligate(ctx, programID, &models.Obligation{
				SubAllotmentID:     f.SubAllotmentID,
				ORSNumber:          ors,
				Payee:              f.Payee,
				Particulars:        f.Purpose,
				Amount:             f.Amount,
				ObligatedOn:        s.now(),
				FinancialRequestID: &requestID,
			}); err != nil {
				return err
			}
			f.Status = models.FinancialApproved
		default:
			f.CurrentStep++
		}
		return s.requestRepo.UpdateProgress(ctx, f)
	})
	if err != nil {
		return nil, err
	}

	logger.Info().Int64("requestID", id).Int64("actorID", actor.UserID).Str("decision", string(decision)).Msg("Financial request decision recorded")
	return s.GetRequest(ctx, programID, id)
}

// CancelRequest withdraws a pending request; only the requester may cancel
func (s *FinancialRequestService) CancelRequest(ctx context.Context, programID, id int64, actor Actor) (*models.FinancialRequest, error) {
	err := s.tx.RunInTx(ctx, func(ctx context.Context) error {
		f, err := s.requestRepo.GetByID(ctx, id, true)
		if err != nil {
			return err
		}
		if f.ProgramID != programID {
			return apperrors.NewResourceNotFoundError("financial request not found")
		}
		if f.RequestedBy != actor.UserID {
			return apperrors.NewForbiddenError("only the requester may cancel a financial request")
		}
		if f.Status != models.FinancialPending {
			return fmt.Errorf("%w: request is %s", apperrors.ErrInvalidTransition, f.Status)
		}
		f.Status = models.FinancialCancelled
		return s.requestRepo.UpdateProgress(ctx, f)
	})
	if err != nil {
		return nil, err
	}
	return s.GetRequest(ctx, programID, id)
}
