package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/repositories"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

var (
	staff      = Actor{UserID: 20, Role: models.RoleStaff}
	supervisor = Actor{UserID: 31, Role: models.RoleSupervisor}
)

func TestFileLeaveCountsWeekdays(t *testing.T) {
	repo := &MockLeaveRepository{}
	svc := NewLeaveService(&fakeTx{}, repo)

	repo.On("LockEmployee", mock.Anything, int64(20)).Return(nil).Once()
	repo.On("HasOverlap", mock.Anything, int64(20), mock.Anything, mock.Anything).Return(false, nil)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.LeaveApplication")).Return(nil)

	// Friday through Monday
	l, err := svc.FileLeave(context.Background(), staff, &dto.LeaveRequest{
		LeaveType: "vacation", StartDate: "2026-10-16", EndDate: "2026-10-19",
	})
	require.NoError(t, err)
	assert.Equal(t, 2, l.Days)
	assert.Equal(t, models.LeaveVacation, l.LeaveType)
	assert.Equal(t, models.WorkflowPending, l.Status)
	repo.AssertExpectations(t)
}

func TestFileLeaveOverlap(t *testing.T) {
	repo := &MockLeaveRepository{}
	svc := NewLeaveService(&fakeTx{}, repo)
	repo.On("LockEmployee", mock.Anything, int64(20)).Return(nil)
	repo.On("HasOverlap", mock.Anything, int64(20), mock.Anything, mock.Anything).Return(true, nil)

	_, err := svc.FileLeave(context.Background(), staff, &dto.LeaveRequest{
		LeaveType: "SICK", StartDate: "2026-10-19", EndDate: "2026-10-20",
	})
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFileLeaveLocksEmployeeBeforeOverlapCheck(t *testing.T) {
	repo := &MockLeaveRepository{}
	tx := &fakeTx{}
	svc := NewLeaveService(tx, repo)

	var order []string
	repo.On("LockEmployee", mock.Anything, int64(20)).Run(func(mock.Arguments) {
		order = append(order, "lock")
	}).Return(nil).Once()
	repo.On("HasOverlap", mock.Anything, int64(20), mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		order = append(order, "overlap")
	}).Return(false, nil).Once()
	repo.On("Create", mock.Anything, mock.AnythingOfType("*models.LeaveApplication")).Run(func(mock.Arguments) {
		order = append(order, "create")
	}).Return(nil).Once()

	_, err := svc.FileLeave(context.Background(), staff, &dto.LeaveRequest{
		LeaveType: "VACATION", StartDate: "2026-10-19", EndDate: "2026-10-20",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"lock", "overlap", "create"}, order)
	assert.Equal(t, 1, tx.calls)
}

func TestFileLeaveLockFailureAborts(t *testing.T) {
	repo := &MockLeaveRepository{}
	svc := NewLeaveService(&fakeTx{}, repo)
	repo.On("LockEmployee", mock.Anything, int64(20)).Return(apperrors.NewResourceNotFoundError("employee not found"))

	_, err := svc.FileLeave(context.Background(), staff, &dto.LeaveRequest{
		LeaveType: "VACATION", StartDate: "2026-10-19", EndDate: "2026-10-20",
	})
	assert.ErrorIs(t, err, apperrors.ErrResourceNotFound)
	repo.AssertNotCalled(t, "HasOverlap", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFileLeaveWeekendOnly(t *testing.T) {
	svc := NewLeaveService(&fakeTx{}, &MockLeaveRepository{})
	_, err := svc.FileLeave(context.Background(), staff, &dto.LeaveRequest{
		LeaveType: "VACATION", StartDate: "2026-10-17", EndDate: "2026-10-18",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
}

func TestLeaveDecisions(t *testing.T) {
	repo := &MockLeaveRepository{}
	svc := NewLeaveService(&fakeTx{}, repo)
	pending := &models.LeaveApplication{ID: 5, EmployeeID: 20, Status: models.WorkflowPending}
	repo.On("GetByID", mock.Anything, int64(5)).Return(pending, nil)

	_, err := svc.Decide(context.Background(), staff, 5, models.WorkflowApproved)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "staff cannot approve")

	_, err = svc.Decide(context.Background(), Actor{UserID: 20, Role: models.RoleSupervisor}, 5, models.WorkflowApproved)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "no self-approval")

	_, err = svc.Cancel(context.Background(), supervisor, 5)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied, "only the owner cancels")

	approver := supervisor.UserID
	repo.On("SetStatus", mock.Anything, int64(5), models.WorkflowApproved, &approver).Return(nil).Once()
	_, err = svc.Decide(context.Background(), supervisor, 5, models.WorkflowApproved)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestLeaveListScopedToOwner(t *testing.T) {
	repo := &MockLeaveRepository{}
	svc := NewLeaveService(&fakeTx{}, repo)
	repo.On("List", mock.Anything, repositories.StaffDocumentFilter{EmployeeID: 20}).Return([]models.LeaveApplication{}, nil).Once()
	repo.On("List", mock.Anything, repositories.StaffDocumentFilter{EmployeeID: 44}).Return([]models.LeaveApplication{}, nil).Once()

	_, err := svc.ListLeaves(context.Background(), staff, repositories.StaffDocumentFilter{EmployeeID: 44})
	require.NoError(t, err)
	_, err = svc.ListLeaves(context.Background(), supervisor, repositories.StaffDocumentFilter{EmployeeID: 44})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func travelOrder(status models.WorkflowStatus) *models.TravelOrder {
	day := func(d int) time.Time { return time.Date(2026, time.November, d, 0, 0, 0, 0, time.UTC) }
	return &models.TravelOrder{
		ID: 14, EmployeeID: 20, Purpose: "HEI monitoring", Destination: "Dumaguete City",
		DepartureDate: day(2), ReturnDate: day(4), Status: status,
		Itineraries: []models.TravelItinerary{
			{TravelDate: day(2), Origin: "Cebu City", Destination: "Dumaguete City", Mode: "Ferry", Fare: 350.50},
			{TravelDate: day(4), Origin: "Dumaguete City", Destination: "Cebu City", Mode: "Ferry", Fare: 350.50},
		},
	}
}

func TestComputeClaim(t *testing.T) {
	fares, perDiem, total := ComputeClaim(travelOrder(models.WorkflowApproved), 1500)
	assert.Equal(t, 701.0, fares)
	assert.Equal(t, 4500.0, perDiem)
	assert.Equal(t, 5201.0, total)
}

func TestFileClaim(t *testing.T) {
	repo := &MockTravelRepository{}
	svc := NewTravelService(&fakeTx{}, repo, 1500)

	repo.On("GetOrder", mock.Anything, int64(14)).Return(travelOrder(models.WorkflowApproved), nil).Once()
	repo.On("CreateClaim", mock.Anything, mock.AnythingOfType("*models.TravelClaim")).Return(nil).Once()
	c, err := svc.FileClaim(context.Background(), staff, 14)
	require.NoError(t, err)
	assert.Equal(t, 5201.0, c.TotalAmount)

	repo.On("GetOrder", mock.Anything, int64(14)).Return(travelOrder(models.WorkflowPending), nil).Once()
	_, err = svc.FileClaim(context.Background(), staff, 14)
	assert.ErrorIs(t, err, apperrors.ErrInvalidTransition)

	repo.On("GetOrder", mock.Anything, int64(14)).Return(travelOrder(models.WorkflowApproved), nil).Once()
	_, err = svc.FileClaim(context.Background(), supervisor, 14)
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
}

func TestCreateOrderItineraryOutsideDates(t *testing.T) {
	repo := &MockTravelRepository{}
	svc := NewTravelService(&fakeTx{}, repo, 1500)

	_, err := svc.CreateOrder(context.Background(), staff, &dto.TravelOrderRequest{
		Purpose: "Orientation", Destination: "Tagbilaran", DepartureDate: "2026-11-02", ReturnDate: "2026-11-03",
		Itineraries: []dto.ItineraryRequest{{TravelDate: "2026-11-05", Origin: "Cebu", Destination: "Tagbilaran", Mode: "Ferry"}},
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)
	repo.AssertNotCalled(t, "CreateOrder", mock.Anything, mock.Anything)
}

func TestLocatorSlipTimes(t *testing.T) {
	repo := &MockLocatorSlipRepository{}
	svc := NewLocatorSlipService(repo)

	_, err := svc.FileSlip(context.Background(), staff, &dto.LocatorSlipRequest{
		Destination: "Provincial Capitol", Purpose: "Deliver documents", SlipDate: "2026-10-15",
		TimeOut: "2026-10-15T13:00:00+08:00", TimeIn: "2026-10-15T12:00:00+08:00",
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	out := time.Date(2026, time.October, 15, 13, 0, 0, 0, time.UTC)
	repo.On("GetByID", mock.Anything, int64(2)).Return(&models.LocatorSlip{
		ID: 2, EmployeeID: 20, TimeOut: out, Status: models.WorkflowApproved,
	}, nil)
	repo.On("SetTimeIn", mock.Anything, int64(2), mock.AnythingOfType("time.Time")).Return(nil).Once()

	_, err = svc.RecordReturn(context.Background(), staff, 2, &dto.LocatorReturnRequest{TimeIn: "2026-10-15T15:30:00Z"})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTripTicketOdometer(t *testing.T) {
	repo := &MockTripTicketRepository{}
	svc := NewTripTicketService(repo, &MockTravelRepository{})

	end := 900
	_, err := svc.FileTicket(context.Background(), staff, &dto.TripTicketRequest{
		DriverName: "R. Gomez", VehiclePlate: "sab 1234", Destination: "Toledo City", Purpose: "Payout",
		TripDate: "2026-10-20", OdometerStart: 1000, OdometerEnd: &end,
	})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	repo.On("GetByID", mock.Anything, int64(6)).Return(&models.TripTicket{
		ID: 6, EmployeeID: 20, OdometerStart: 1000, Status: models.WorkflowApproved,
	}, nil)
	_, err = svc.CompleteTrip(context.Background(), staff, 6, &dto.TripCompletionRequest{OdometerEnd: 999})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	repo.On("Complete", mock.Anything, int64(6), 1120, 14.5).Return(nil).Once()
	_, err = svc.CompleteTrip(context.Background(), staff, 6, &dto.TripCompletionRequest{OdometerEnd: 1120, FuelLiters: 14.5})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestTripTicketRequiresVisibleTravelOrder(t *testing.T) {
	tickets := &MockTripTicketRepository{}
	travel := &MockTravelRepository{}
	svc := NewTripTicketService(tickets, travel)

	othersOrder, ownOrder := int64(8), int64(9)
	travel.On("GetOrder", mock.Anything, othersOrder).Return(&models.TravelOrder{ID: othersOrder, EmployeeID: 44}, nil)
	travel.On("GetOrder", mock.Anything, ownOrder).Return(&models.TravelOrder{ID: ownOrder, EmployeeID: 20}, nil)

	req := func(orderID int64) *dto.TripTicketRequest {
		return &dto.TripTicketRequest{
			TravelOrderID: &orderID, DriverName: "R. Gomez", VehiclePlate: "SAB 1234",
			Destination: "Toledo City", Purpose: "Payout", TripDate: "2026-10-20", OdometerStart: 1000,
		}
	}

	_, err := svc.FileTicket(context.Background(), staff, req(othersOrder))
	assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
	tickets.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)

	tickets.On("Create", mock.Anything, mock.AnythingOfType("*models.TripTicket")).Return(nil).Twice()
	ticket, err := svc.FileTicket(context.Background(), staff, req(ownOrder))
	require.NoError(t, err)
	assert.Equal(t, int64(20), ticket.EmployeeID)

	// approvers may file against anyone's order
	_, err = svc.FileTicket(context.Background(), supervisor, req(othersOrder))
	require.NoError(t, err)
	tickets.AssertExpectations(t)
}
