package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

// UserService manages office accounts on behalf of the superadmin
type UserService struct {
	userRepo  UserRepository
	tokenRepo TokenRepository
	programs  *ProgramService
}

// NewUserService creates a new user service instance
func NewUserService(userRepo UserRepository, tokenRepo TokenRepository, programs *ProgramService) *UserService {
	return &UserService{userRepo: userRepo, tokenRepo: tokenRepo, programs: programs}
}

// programScope resolves the program an account is bound to. Only ADMIN
// accounts carry one.
func (s *UserService) programScope(ctx context.Context, role models.Role, code string) (*int64, error) {
	if role != models.RoleAdmin {
		return nil, nil
	}
	if strings.TrimSpace(code) == "" {
		return nil, fmt.Errorf("%w: programCode is required for ADMIN accounts", apperrors.ErrValidationFailed)
	}
	p, err := s.programs.Resolve(ctx, code)
	if err != nil {
		return nil, err
	}
	return &p.ID, nil
}

// CreateUser opens an active account
func (s *UserService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*dto.UserResponse, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.Role)
	}
	programID, err := s.programScope(ctx, req.Role, req.ProgramCode)
	if err != nil {
		return nil, err
	}
	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("error hashing password: %w", err)
	}

	u := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         req.Role,
		ProgramID:    programID,
		IsActive:     true,
	}
	if err := s.userRepo.Create(ctx, u); err != nil {
		return nil, err
	}
	logger.Info().Int64("userID", u.ID).Str("role", string(u.Role)).Msg("User account created")
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// ListUsers lists accounts, optionally by role
func (s *UserService) ListUsers(ctx context.Context, role models.Role) (*dto.UserListResponse, error) {
	if role != "" && !role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, role)
	}
	users, err := s.userRepo.List(ctx, role)
	if err != nil {
		return nil, err
	}
	resp := &dto.UserListResponse{Users: make([]dto.UserResponse, 0, len(users))}
	for i := range users {
		resp.Users = append(resp.Users, dto.NewUserResponse(&users[i]))
	}
	return resp, nil
}

// GetUser retrieves an account
func (s *UserService) GetUser(ctx context.Context, id int64) (*dto.UserResponse, error) {
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}

// UpdateUser changes profile, role and scope. Deactivating an account
// revokes its refresh tokens.
func (s *UserService) UpdateUser(ctx context.Context, actor Actor, id int64, req *dto.UpdateUserRequest) (*dto.UserResponse, error) {
	if !req.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", apperrors.ErrValidationFailed, req.Role)
	}
	u, err := s.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	programID, err := s.programScope(ctx, req.Role, req.ProgramCode)
	if err != nil {
		return nil, err
	}
	if id == actor.UserID && (req.Role != u.Role || (req.IsActive != nil && !*req.IsActive)) {
		return nil, apperrors.NewForbiddenError("you cannot change your own role or deactivate yourself")
	}

	u.FirstName = strings.TrimSpace(req.FirstName)
	u.LastName = strings.TrimSpace(req.LastName)
	u.Role = req.Role
	u.ProgramID = programID
	if req.IsActive != nil {
		u.IsActive = *req.IsActive
	}
	if req.Password != "" {
		if u.PasswordHash, err = auth.HashPassword(req.Password); err != nil {
			return nil, fmt.Errorf("error hashing password: %w", err)
		}
	}
	if err := s.userRepo.Update(ctx, u); err != nil {
		return nil, err
	}
	if !u.IsActive || req.Password != "" {
		if err := s.tokenRepo.RevokeAllUserTokens(ctx, u.ID); err != nil {
			return nil, err
		}
	}
	resp := dto.NewUserResponse(u)
	return &resp, nil
}
