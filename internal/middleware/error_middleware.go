package middleware

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/danuarta/siswalink/internal/app/models/dto"
	"github.com/danuarta/siswalink/internal/pkg/apperrors"
)

// buildErrorDetail builds the response detail for an error, preferring the
// message and details a CustomError carries over the generic fallback.
func buildErrorDetail(err error, code dto.ErrorCode, fallback string) *dto.ErrorDetail {
	message := fallback
	var customErr *apperrors.CustomError
	if errors.As(err, &customErr) && customErr.Message != "" {
		message = customErr.Message
	}
	detail := dto.NewErrorDetail(code, message)
	if customErr != nil && customErr.Details != nil {
		detail = detail.WithDetails(customErr.Details)
	}
	return detail
}

// HandleAPIError maps service errors to API responses
func HandleAPIError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrStudentNotLinked),
		errors.Is(err, apperrors.ErrBootstrapNotAllowed):
		// Terminal resolution outcome: the client shows its
		// "profile not linked, contact administrator" state.
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeStudentNotLinked,
				"No student record could be linked to this account")))

	case errors.Is(err, apperrors.ErrStudentNotFound),
		errors.Is(err, apperrors.ErrProfileNotFound),
		errors.Is(err, apperrors.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(
			buildErrorDetail(err, dto.ErrorCodeResourceNotFound, "Resource not found")))

	case errors.Is(err, apperrors.ErrAlreadyLinked):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			buildErrorDetail(err, dto.ErrorCodeAlreadyLinked,
				"Student record is already linked to another account")))

	case errors.Is(err, apperrors.ErrNISExists), errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeConflict, "Conflict")))

	case errors.Is(err, apperrors.ErrEmptyAccountID),
		errors.Is(err, apperrors.ErrValidationFailed),
		errors.Is(err, apperrors.ErrBadRequest):
		c.JSON(http.StatusBadRequest, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeValidationFailed, "Validation failed")))

	case errors.Is(err, apperrors.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeForbidden, "Permission denied")))

	case errors.Is(err, apperrors.ErrTokenExpired):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeExpiredToken, "Token expired")))

	case errors.Is(err, apperrors.ErrTokenInvalid):
		c.JSON(http.StatusUnauthorized, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInvalidToken, "Invalid token")))

	default:
		c.JSON(http.StatusInternalServerError, dto.NewErrorResponse(
			dto.NewErrorDetail(dto.ErrorCodeInternalServer, "Internal server error")))
	}
}
