package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

func newUserFixture() (*UserService, *MockUserRepository, *MockTokenRepository) {
	users := &MockUserRepository{}
	tokens := &MockTokenRepository{}
	return NewUserService(users, tokens, NewProgramService(&MockProgramRepository{})), users, tokens
}

func TestUpdateUserSelfGuards(t *testing.T) {
	root := Actor{UserID: 1, Role: models.RoleSuperAdmin}
	inactive := false

	cases := map[string]*dto.UpdateUserRequest{
		"self demotion":     {FirstName: "Root", LastName: "Admin", Role: models.RoleSupervisor},
		"self deactivation": {FirstName: "Root", LastName: "Admin", Role: models.RoleSuperAdmin, IsActive: &inactive},
	}
	for name, req := range cases {
		t.Run(name, func(t *testing.T) {
			svc, users, tokens := newUserFixture()
			users.On("GetByID", mock.Anything, int64(1)).
				Return(&models.User{ID: 1, Role: models.RoleSuperAdmin, IsActive: true}, nil)

			_, err := svc.UpdateUser(context.Background(), root, 1, req)
			assert.ErrorIs(t, err, apperrors.ErrPermissionDenied)
			users.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
			tokens.AssertNotCalled(t, "RevokeAllUserTokens", mock.Anything, mock.Anything)
		})
	}
}

func TestUpdateUserSelfProfileEdit(t *testing.T) {
	svc, users, tokens := newUserFixture()
	users.On("GetByID", mock.Anything, int64(1)).
		Return(&models.User{ID: 1, Role: models.RoleSuperAdmin, IsActive: true}, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Return(nil).Once()

	resp, err := svc.UpdateUser(context.Background(), Actor{UserID: 1, Role: models.RoleSuperAdmin}, 1,
		&dto.UpdateUserRequest{FirstName: " Rosa ", LastName: "Admin", Role: models.RoleSuperAdmin})
	require.NoError(t, err)
	assert.Equal(t, "Rosa", resp.FirstName)
	tokens.AssertNotCalled(t, "RevokeAllUserTokens", mock.Anything, mock.Anything)
	users.AssertExpectations(t)
}

func TestDeactivatingAnotherUserRevokesTokens(t *testing.T) {
	svc, users, tokens := newUserFixture()
	inactive := false
	users.On("GetByID", mock.Anything, int64(9)).
		Return(&models.User{ID: 9, Role: models.RoleStaff, IsActive: true}, nil)
	users.On("Update", mock.Anything, mock.AnythingOfType("*models.User")).Run(func(args mock.Arguments) {
		assert.False(t, args.Get(1).(*models.User).IsActive)
	}).Return(nil).Once()
	tokens.On("RevokeAllUserTokens", mock.Anything, int64(9)).Return(nil).Once()

	_, err := svc.UpdateUser(context.Background(), Actor{UserID: 1, Role: models.RoleSuperAdmin}, 9,
		&dto.UpdateUserRequest{FirstName: "Jo", LastName: "Staff", Role: models.RoleStaff, IsActive: &inactive})
	require.NoError(t, err)
	users.AssertExpectations(t)
	tokens.AssertExpectations(t)
}
