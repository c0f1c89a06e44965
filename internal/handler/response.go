package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldverify/internal/repository"
	"fieldverify/internal/service"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// respondError sends an error response with the appropriate HTTP status code.
func respondError(c *gin.Context, err error) {
	code := mapErrorToHTTPStatus(err)
	c.JSON(code, ErrorResponse{Error: err.Error()})
}

// respondJSON sends a JSON response with the given status code.
func respondJSON(c *gin.Context, code int, data any) {
	c.JSON(code, data)
}

// mapErrorToHTTPStatus maps service/repository errors to HTTP status codes.
func mapErrorToHTTPStatus(err error) int {
	switch {
	// Not found errors
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound

	// Validation errors - Bad Request
	case errors.Is(err, service.ErrInvalidBookingID),
		errors.Is(err, service.ErrInvalidCustomerID),
		errors.Is(err, service.ErrInvalidTechnicianID),
		errors.Is(err, service.ErrInvalidCoordinates),
		errors.Is(err, service.ErrInvalidOtpFormat),
		errors.Is(err, service.ErrMissingSelfie):
		return http.StatusBadRequest

	// Rejected verification attempts
	case errors.Is(err, service.ErrOtpMismatch),
		errors.Is(err, service.ErrOtpExpired):
		return http.StatusUnprocessableEntity

	// Conflict errors
	case errors.Is(err, service.ErrBookingNotAccepted),
		errors.Is(err, service.ErrVerificationInProgress):
		return http.StatusConflict

	// Rate limits
	case errors.Is(err, service.ErrOtpCooldownActive),
		errors.Is(err, service.ErrOtpTooManyAttempts):
		return http.StatusTooManyRequests

	// Default to internal server error
	default:
		return http.StatusInternalServerError
	}
}
