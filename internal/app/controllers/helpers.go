// Package controllers handles HTTP request handling
package controllers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/yigit/scholaris/internal/app/models/dto"
	"github.com/yigit/scholaris/internal/middleware"
)

// parseIDParam reads a positive integer path parameter. On failure it writes
// a 400 response and returns false.
func parseIDParam(ctx *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Param(name), 10, 64)
	if err != nil || id <= 0 {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, fmt.Sprintf("Invalid %s", name)).
			WithField(name).
			WithDetails(fmt.Sprintf("%s must be a positive number", name))
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
		return 0, false
	}
	return id, true
}

// attachmentDisposition sends a download with the given name and content type
func attachmentDisposition(ctx *gin.Context, filename, contentType string) {
	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	ctx.Header("Content-Type", contentType)
}

// downloadFailed reports an error from a download handler. Once bytes have
// been sent the response can only be cut short.
func downloadFailed(ctx *gin.Context, lgr zerolog.Logger, err error) {
	if ctx.Writer.Written() {
		lgr.Error().Err(err).Str("path", ctx.FullPath()).Msg("Download failed after the response started")
		ctx.Abort()
		return
	}
	ctx.Writer.Header().Del("Content-Disposition")
	ctx.Writer.Header().Del("Content-Type")
	middleware.HandleAPIError(ctx, err)
}
