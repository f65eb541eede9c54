package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
	"github.com/yigit/scholaris/internal/pkg/logger"
)

type errorMapping struct {
	targets []error
	status  int
	code    dto.ErrorCode
}

// errorMappings is checked in order; the first match wins
var errorMappings = []errorMapping{
	{[]error{apperrors.ErrBudgetExceeded}, http.StatusUnprocessableEntity, dto.ErrorCodeBudgetExceeded},
	{[]error{apperrors.ErrInvalidTransition}, http.StatusConflict, dto.ErrorCodeInvalidTransition},
	{[]error{apperrors.ErrValidationFailed}, http.StatusUnprocessableEntity, dto.ErrorCodeValidationFailed},
	{[]error{apperrors.ErrBadRequest}, http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
	{[]error{
		apperrors.ErrResourceNotFound, apperrors.ErrProgramNotFound, apperrors.ErrScholarNotFound,
		apperrors.ErrAcademicRecordMissing, apperrors.ErrHEINotFound,
	}, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
	{[]error{
		apperrors.ErrResourceAlreadyExists, apperrors.ErrAwardNumberExists, apperrors.ErrAcademicRecordExists,
		apperrors.ErrHEIAlreadyExists,
	}, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
	{[]error{
		apperrors.ErrConflict, apperrors.ErrHEIHasRelations, apperrors.ErrLocationInUse,
		apperrors.ErrDisbursementNotPending,
	}, http.StatusConflict, dto.ErrorCodeConflict},
	{[]error{apperrors.ErrPermissionDenied, apperrors.ErrNotCurrentApprover}, http.StatusForbidden, dto.ErrorCodeForbidden},
	{[]error{apperrors.ErrAccountDisabled}, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
	{[]error{apperrors.ErrInvalidCredentials}, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
	{[]error{apperrors.ErrTokenExpired}, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
	{[]error{apperrors.ErrTokenNotFound}, http.StatusUnauthorized, dto.ErrorCodeTokenNotFound},
	{[]error{apperrors.ErrExternalService}, http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
	{[]error{apperrors.ErrTokenInvalid, apperrors.ErrTokenRevoked, apperrors.ErrInvalidFormat}, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
}

// HandleAPIError maps service errors onto HTTP responses. Unknown errors are
// logged and reported as 500 without leaking their text.
func HandleAPIError(c *gin.Context, err error) {
	for _, m := range errorMappings {
		if !apperrors.Is(err, m.targets[0], m.targets[1:]...) {
			continue
		}
		detail := dto.NewErrorDetail(m.code, err.Error())
		var custom *apperrors.CustomError
		if errors.As(err, &custom) && len(custom.Details) > 0 {
			detail.WithDetails(custom.Details)
		}
		if m.status < http.StatusInternalServerError {
			detail.WithSeverity(dto.ErrorSeverityWarning)
		}
		c.JSON(m.status, dto.NewErrorResponse(detail))
		return
	}

	logger.FromContext(c.Request.Context()).Error().Err(err).
		Str("method", c.Request.Method).Str("path", c.FullPath()).Msg("Unhandled API error")
	c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
		dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error"),
	))
}
