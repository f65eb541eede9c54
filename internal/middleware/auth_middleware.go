package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/app/services"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/auth"
)

// Context keys set by the middleware in this package
const (
	ContextUserID    = "userID"
	ContextEmail     = "email"
	ContextRole      = "role"
	ContextProgramID = "programID"
	ContextProgram   = "program"
)

// ProgramResolver maps the :program path segment onto a program
type ProgramResolver interface {
	Resolve(ctx context.Context, code string) (*models.Program, error)
}

// AuthMiddleware for authentication and authorization
type AuthMiddleware struct {
	jwtService *auth.JWTService
	programs   ProgramResolver
}

// NewAuthMiddleware creates a new AuthMiddleware
func NewAuthMiddleware(jwtService *auth.JWTService, programs ProgramResolver) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService: jwtService,
		programs:   programs,
	}
}

func abortUnauthorized(c *gin.Context, code dto.ErrorCode, details string) {
	errorDetail := dto.NewErrorDetail(code, "Authentication required").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
}

func abortForbidden(c *gin.Context, details string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeForbidden, "Access denied").WithDetails(details)
	c.AbortWithStatusJSON(http.StatusForbidden, dto.NewErrorResponse(errorDetail))
}

// JWTAuth middleware for JWT token validation
func (m *AuthMiddleware) JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			// Swagger UI and file downloads may pass the token as a query parameter
			authHeader = c.Query("token")
		}
		if authHeader == "" {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Authorization header missing")
			return
		}

		tokenString, err := auth.ExtractBearerToken(strings.Trim(authHeader, "\"'"))
		if err != nil {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "Invalid token format")
			return
		}

		claims, err := m.jwtService.ValidateAndExtractClaims(tokenString)
		if err != nil {
			code := dto.ErrorCodeInvalidToken
			details := "Invalid token"
			if errors.Is(err, apperrors.ErrTokenExpired) {
				code = dto.ErrorCodeExpiredToken
				details = "Token has expired"
			}
			abortUnauthorized(c, code, details)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)
		if claims.ProgramID != nil {
			c.Set(ContextProgramID, *claims.ProgramID)
		}
		c.Next()
	}
}

// RoleRequired lets the request through when the user holds one of roles.
// SUPERADMIN always passes.
func (m *AuthMiddleware) RoleRequired(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, ok := c.Get(ContextRole)
		if !ok {
			abortUnauthorized(c, dto.ErrorCodeUnauthorized, "User role not found")
			return
		}
		current, _ := role.(models.Role)
		if current == models.RoleSuperAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if current == r {
				c.Next()
				return
			}
		}
		abortForbidden(c, "You don't have sufficient permissions for this operation")
	}
}

// ProgramAccess resolves the :program path segment and stores the program in
// the context. ADMIN accounts may only reach their own program.
func (m *AuthMiddleware) ProgramAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		program, err := m.programs.Resolve(c.Request.Context(), c.Param("program"))
		if err != nil {
			if errors.Is(err, apperrors.ErrValidationFailed) {
				err = apperrors.NewCustomError(apperrors.ErrProgramNotFound, err.Error())
			}
			HandleAPIError(c, err)
			c.Abort()
			return
		}
		if !GetActor(c).CanAccessProgram(program.ID) {
			abortForbidden(c, "Your account is not assigned to this program")
			return
		}
		c.Set(ContextProgram, program)
		c.Next()
	}
}

// GetActor builds the service actor from the claims JWTAuth stored
func GetActor(c *gin.Context) services.Actor {
	actor := services.Actor{
		UserID: c.GetInt64(ContextUserID),
	}
	if role, ok := c.Get(ContextRole); ok {
		actor.Role, _ = role.(models.Role)
	}
	if v, ok := c.Get(ContextProgramID); ok {
		if id, ok := v.(int64); ok {
			actor.ProgramID = &id
		}
	}
	return actor
}

// GetProgram returns the program ProgramAccess resolved
func GetProgram(c *gin.Context) *models.Program {
	if v, ok := c.Get(ContextProgram); ok {
		if p, ok := v.(*models.Program); ok {
			return p
		}
	}
	return nil
}
