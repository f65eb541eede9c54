package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/pkg/apperrors"
)

func serveError(t *testing.T, err error) *httptest.ResponseRecorder {
	t.Helper()
	r := gin.New()
	r.GET("/fail", func(c *gin.Context) { HandleAPIError(c, err) })
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/fail", nil))
	return w
}

func TestHandleAPIErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   dto.ErrorCode
	}{
		{"budget", fmt.Errorf("obligate: %w", apperrors.ErrBudgetExceeded), http.StatusUnprocessableEntity, dto.ErrorCodeBudgetExceeded},
		{"transition", apperrors.ErrInvalidTransition, http.StatusConflict, dto.ErrorCodeInvalidTransition},
		{"validation", apperrors.NewValidationError("bad grade", nil), http.StatusUnprocessableEntity, dto.ErrorCodeValidationFailed},
		{"not found", apperrors.NewResourceNotFoundError("scholar 4 not found"), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"scholar not found", apperrors.ErrScholarNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"duplicate award", apperrors.ErrAwardNumberExists, http.StatusConflict, dto.ErrorCodeResourceAlreadyExists},
		{"hei in use", apperrors.ErrHEIHasRelations, http.StatusConflict, dto.ErrorCodeConflict},
		{"wrong approver", apperrors.ErrNotCurrentApprover, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeAccountDisabled},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"revoked", apperrors.ErrTokenRevoked, http.StatusUnauthorized, dto.ErrorCodeInvalidToken},
		{"smtp", fmt.Errorf("%w: dial tcp: refused", apperrors.ErrExternalService), http.StatusBadGateway, dto.ErrorCodeExternalServiceError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serveError(t, tt.err)
			assert.Equal(t, tt.wantStatus, w.Code)
			resp := decodeError(t, w)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.err.Error(), resp.Error.Message)
			assert.Equal(t, dto.ErrorSeverityWarning, resp.Error.Severity)
		})
	}
}

func TestHandleAPIErrorCarriesDetails(t *testing.T) {
	err := apperrors.NewValidationError("2 rows failed", map[string]interface{}{"rows": []int{3, 7}})
	w := serveError(t, err)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
	details, ok := decodeError(t, w).Error.Details.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, []interface{}{float64(3), float64(7)}, details["rows"])
}

func TestHandleAPIErrorHidesUnknownErrors(t *testing.T) {
	w := serveError(t, errors.New("pq: relation scholars does not exist"))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decodeError(t, w)
	assert.Equal(t, dto.ErrorCodeInternalServer, resp.Error.Code)
	assert.NotContains(t, w.Body.String(), "relation scholars")
}
