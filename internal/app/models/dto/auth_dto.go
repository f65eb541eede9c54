package dto

import "github.com/yigit/scholaris/internal/app/models"

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse represents JWT token information
type TokenResponse struct {
	AccessToken           string `json:"accessToken"`
	TokenType             string `json:"tokenType" example:"Bearer"`
	ExpiresIn             int64  `json:"expiresIn"`
	RefreshToken          string `json:"refreshToken,omitempty"`
	RefreshTokenExpiresIn int64  `json:"refreshTokenExpiresIn,omitempty"`
}

// RefreshTokenRequest represents refresh token request
type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// AuthResponse represents successful authentication response
type AuthResponse struct {
	Token TokenResponse `json:"token"`
	User  UserResponse  `json:"user"`
}

// CreateUserRequest is used by the superadmin to open an account
type CreateUserRequest struct {
	Email     string      `json:"email" binding:"required,email"`
	Password  string      `json:"password" binding:"required,min=8"`
	FirstName string      `json:"firstName" binding:"required"`
	LastName  string      `json:"lastName" binding:"required"`
	Role      models.Role `json:"role" binding:"required,oneof=SUPERADMIN ADMIN SUPERVISOR ACCOUNTANT REGIONAL_DIRECTOR STAFF"`
	// ProgramCode is required for ADMIN accounts
	ProgramCode string `json:"programCode"`
}

// UpdateUserRequest changes an account's profile, role or active flag
type UpdateUserRequest struct {
	FirstName   string      `json:"firstName" binding:"required"`
	LastName    string      `json:"lastName" binding:"required"`
	Role        models.Role `json:"role" binding:"required,oneof=SUPERADMIN ADMIN SUPERVISOR ACCOUNTANT REGIONAL_DIRECTOR STAFF"`
	ProgramCode string      `json:"programCode"`
	IsActive    *bool       `json:"isActive"`
	Password    string      `json:"password" binding:"omitempty,min=8"`
}

// UserResponse represents basic user information
type UserResponse struct {
	ID        int64       `json:"id"`
	Email     string      `json:"email"`
	FirstName string      `json:"firstName"`
	LastName  string      `json:"lastName"`
	Role      models.Role `json:"role"`
	ProgramID *int64      `json:"programId,omitempty"`
	IsActive  bool        `json:"isActive"`
}

// NewUserResponse maps a user model onto its public representation
func NewUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		ProgramID: u.ProgramID,
		IsActive:  u.IsActive,
	}
}

// UserListResponse represents a page of users
type UserListResponse struct {
	Users []UserResponse `json:"users"`
}
