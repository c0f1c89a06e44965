package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"fieldverify/internal/domain"
	"fieldverify/internal/service"
)

// BookingHandler handles HTTP requests for bookings.
type BookingHandler struct {
	bookingService *service.BookingService
}

// NewBookingHandler creates a new BookingHandler.
func NewBookingHandler(bookingService *service.BookingService) *BookingHandler {
	return &BookingHandler{bookingService: bookingService}
}

// CreateBookingRequest is the HTTP request body for creating a booking.
type CreateBookingRequest struct {
	CustomerID   string  `json:"customer_id" binding:"required"`
	TechnicianID string  `json:"technician_id" binding:"required"`
	CustomerLat  float64 `json:"customer_lat"`
	CustomerLng  float64 `json:"customer_lng"`
	AddressLine  string  `json:"address_line"`
	ZoneID       string  `json:"zone_id"`
}

// BookingResponse is the HTTP response for booking operations.
type BookingResponse struct {
	BookingID    string  `json:"booking_id"`
	CustomerID   string  `json:"customer_id"`
	TechnicianID string  `json:"technician_id"`
	Status       string  `json:"status"`
	CustomerLat  float64 `json:"customer_lat"`
	CustomerLng  float64 `json:"customer_lng"`
	AddressLine  string  `json:"address_line"`
	ZoneID       string  `json:"zone_id"`
	StartedAt    string  `json:"started_at,omitempty"`
}

func bookingResponse(booking *domain.Booking) BookingResponse {
	response := BookingResponse{
		BookingID:    booking.ID,
		CustomerID:   booking.CustomerID,
		TechnicianID: booking.TechnicianID,
		Status:       string(booking.Status),
		CustomerLat:  booking.CustomerLat,
		CustomerLng:  booking.CustomerLng,
		AddressLine:  booking.AddressLine,
		ZoneID:       booking.ZoneID,
	}
	if !booking.StartedAt.IsZero() {
		response.StartedAt = booking.StartedAt.Format("2006-01-02T15:04:05Z07:00")
	}
	return response
}

// CreateBooking handles POST /v1/bookings
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), service.CreateBookingRequest{
		CustomerID:   req.CustomerID,
		TechnicianID: req.TechnicianID,
		CustomerLat:  req.CustomerLat,
		CustomerLng:  req.CustomerLng,
		AddressLine:  req.AddressLine,
		ZoneID:       req.ZoneID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusCreated, bookingResponse(booking))
}

// GetBooking handles GET /v1/bookings/:id
func (h *BookingHandler) GetBooking(c *gin.Context) {
	booking, err := h.bookingService.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	respondJSON(c, http.StatusOK, bookingResponse(booking))
}
