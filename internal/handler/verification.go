package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldverify/internal/service"
)

// VerificationHandler handles HTTP requests for the OTP challenge:
// dispatching a code to the customer and verifying a submitted code plus
// presence image.
type VerificationHandler struct {
	otpService       *service.OtpService
	startWorkService *service.StartWorkService
}

// NewVerificationHandler creates a new VerificationHandler.
func NewVerificationHandler(otpService *service.OtpService, startWorkService *service.StartWorkService) *VerificationHandler {
	return &VerificationHandler{
		otpService:       otpService,
		startWorkService: startWorkService,
	}
}

// OtpSendResponse is the HTTP response for an OTP dispatch.
type OtpSendResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// OtpVerifyResponse is the HTTP response for a verification submission.
type OtpVerifyResponse struct {
	Success      bool   `json:"success"`
	Message      string `json:"message"`
	BookingState string `json:"booking_state,omitempty"`
}

// SendOtp handles POST /v1/bookings/:id/otp/send
func (h *VerificationHandler) SendOtp(c *gin.Context) {
	err := h.otpService.Dispatch(c.Request.Context(), service.DispatchRequest{
		BookingID: c.Param("id"),
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, OtpSendResponse{
		Success: true,
		Message: "verification code sent to customer",
	})
}

// VerifyOtp handles POST /v1/bookings/:id/otp/verify (multipart).
// A wrong or expired code answers with success=false and a 4xx status so
// the client can distinguish a rejection from a transport failure.
func (h *VerificationHandler) VerifyOtp(c *gin.Context) {
	bookingID := c.Param("id")
	code := c.PostForm("otp")

	fileHeader, err := c.FormFile("selfie")
	if err != nil {
		respondError(c, service.ErrMissingSelfie)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respondError(c, service.ErrMissingSelfie)
		return
	}
	defer file.Close()

	booking, err := h.startWorkService.StartWork(c.Request.Context(), service.StartWorkRequest{
		BookingID:      bookingID,
		Code:           code,
		Selfie:         file,
		SelfieMimeType: fileHeader.Header.Get("Content-Type"),
	})
	if err != nil {
		if isVerificationRejection(err) {
			c.JSON(mapErrorToHTTPStatus(err), OtpVerifyResponse{
				Success: false,
				Message: err.Error(),
			})
			return
		}
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, OtpVerifyResponse{
		Success:      true,
		Message:      "booking started",
		BookingState: string(booking.Status),
	})
}

// isVerificationRejection separates "your submission was wrong" answers
// from infrastructure errors.
func isVerificationRejection(err error) bool {
	return errors.Is(err, service.ErrOtpMismatch) ||
		errors.Is(err, service.ErrOtpExpired) ||
		errors.Is(err, service.ErrOtpTooManyAttempts) ||
		errors.Is(err, service.ErrInvalidOtpFormat)
}
